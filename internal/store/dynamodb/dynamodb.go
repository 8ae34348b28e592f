// internal/store/dynamodb/dynamodb.go
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avivl/cache-lock/internal/lockservice"
	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StoreName is the name of the store
const StoreName string = "dynamodb"

const (
	partitionKeyAttr = "PK"
	valueAttr        = "Value"

	tableCreateTimeout = 5 * time.Minute
)

// DynamoDBClientInterface is the subset of the DynamoDB API the store uses.
type DynamoDBClientInterface interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableExistsWaiterAPI defines the Wait method for the TableExistsWaiter
type TableExistsWaiterAPI interface {
	Wait(ctx context.Context, params *dynamodb.DescribeTableInput, maxWaitDur time.Duration, optFns ...func(*dynamodb.TableExistsWaiterOptions)) error
}

// Store implements store.Store for DynamoDB.
// The flag for key in database N lives in the item whose PK is "N:key".
type Store struct {
	client DynamoDBClientInterface
	waiter TableExistsWaiterAPI
	logger *observability.SLogger
	config *DynamoDBConfig
}

// Option customizes a Store.
type Option func(*Store)

// WithClient replaces the SDK client, mostly for tests.
func WithClient(client DynamoDBClientInterface) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithWaiter replaces the waiter used after creating the table.
func WithWaiter(waiter TableExistsWaiterAPI) Option {
	return func(s *Store) {
		s.waiter = waiter
	}
}

// init registers the DynamoDB store with the lockservice package
func init() {
	lockservice.Register(StoreName, newStore)
}

func newStore(ctx context.Context, options lockservice.Config, logger *observability.SLogger) (store.Store, error) {
	cfg, ok := options.(*DynamoDBConfig)
	if !ok {
		return nil, &store.InvalidConfigurationError{Store: StoreName, Config: options}
	}

	return New(ctx, cfg, logger)
}

// New creates a new DynamoDB store and makes sure its table exists.
func New(ctx context.Context, config *DynamoDBConfig, logger *observability.SLogger, opts ...Option) (*Store, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = observability.NewNopLogger()
	}

	s := &Store{
		logger: logger,
		config: config,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := newClient(ctx, config)
		if err != nil {
			logger.Errorf("Failed to load AWS config: %v", err)
			return nil, &store.ConnectionError{Store: StoreName, Op: "load aws config", Err: err}
		}
		s.client = client
	}

	if s.waiter == nil {
		s.waiter = dynamodb.NewTableExistsWaiter(s.client)
	}

	if err := s.ensureTableExists(ctx); err != nil {
		return nil, &store.ConnectionError{Store: StoreName, Op: "table " + config.Table, Err: err}
	}

	return s, nil
}

func newClient(ctx context.Context, config *DynamoDBConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}

	// Use static credentials if provided
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsConfig, func(o *dynamodb.Options) {
		// Use custom endpoint if provided
		if len(config.Endpoints) > 0 {
			o.BaseEndpoint = aws.String(config.Endpoints[0])
		}
	}), nil
}

// ensureTableExists checks if the DynamoDB table exists and creates it if it doesn't
func (s *Store) ensureTableExists(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.Table),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.config.Table),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(partitionKeyAttr),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(partitionKeyAttr),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		s.logger.Errorf("Failed to create table: %v", err)
		return fmt.Errorf("failed to create table: %w", err)
	}

	err = s.waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.Table),
	}, tableCreateTimeout)
	if err != nil {
		s.logger.Errorf("Failed to wait for table creation: %v", err)
		return fmt.Errorf("failed to wait for table creation: %w", err)
	}

	return nil
}

// Set writes value under key, replacing whatever was stored.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := store.CheckKeyValue("set", key, value); err != nil {
		return err
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.Table),
		Item: map[string]types.AttributeValue{
			partitionKeyAttr: &types.AttributeValueMemberS{Value: s.config.partitionKey(key)},
			valueAttr:        &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return &store.ConnectionError{Store: StoreName, Op: "put item", Err: err}
	}

	return nil
}

// Get reads the value stored under key with a strongly consistent read.
// A request that reached the table counts as a successful database selection.
func (s *Store) Get(ctx context.Context, key string) (store.ReadResult, error) {
	if err := store.CheckKey("get", key); err != nil {
		return store.ReadResult{}, err
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.Table),
		Key: map[string]types.AttributeValue{
			partitionKeyAttr: &types.AttributeValueMemberS{Value: s.config.partitionKey(key)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return store.ReadResult{}, &store.ConnectionError{Store: StoreName, Op: "get item", Err: err}
	}

	result := store.ReadResult{Selected: true}
	if out == nil || out.Item == nil {
		return result, nil
	}

	if attr, ok := out.Item[valueAttr].(*types.AttributeValueMemberS); ok {
		result.Value = attr.Value
		result.Found = true
	}

	return result, nil
}

// GetConfig returns the store configuration.
func (s *Store) GetConfig() store.StoreConfig {
	return s.config
}

// Close closes the DynamoDB client
func (s *Store) Close() {
	// DynamoDB client doesn't need explicit closing
}
