// internal/store/dynamodb/mock_dynamodb_test.go
package dynamodb

import (
	"context"
	"time"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"
)

// MockDynamoDBClient is a mock implementation of DynamoDBClientInterface
type MockDynamoDBClient struct {
	mock.Mock
}

// PutItem mocks the PutItem method
func (m *MockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

// GetItem mocks the GetItem method
func (m *MockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

// CreateTable mocks the CreateTable method
func (m *MockDynamoDBClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.CreateTableOutput), args.Error(1)
}

// DescribeTable mocks the DescribeTable method
func (m *MockDynamoDBClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

// MockTableExistsWaiter is a mock implementation of TableExistsWaiterAPI
type MockTableExistsWaiter struct {
	mock.Mock
}

// Wait mocks the Wait method of the TableExistsWaiter
func (m *MockTableExistsWaiter) Wait(ctx context.Context, params *dynamodb.DescribeTableInput, maxWaitDur time.Duration, optFns ...func(*dynamodb.TableExistsWaiterOptions)) error {
	args := m.Called(ctx, params, maxWaitDur)
	return args.Error(0)
}

func testConfig() *DynamoDBConfig {
	return &DynamoDBConfig{
		Region:          "us-east-1",
		Table:           "test_table",
		Endpoints:       []string{"http://localhost:8000"},
		AccessKeyID:     "dummy",
		SecretAccessKey: "dummy",
		Database:        3,
	}
}

// setupMockStore builds a Store on a mocked client whose table already exists.
func setupMockStore() (*Store, *MockDynamoDBClient) {
	mockClient := new(MockDynamoDBClient)
	logger, _, _ := observability.NewTestLogger()

	s := &Store{
		client: mockClient,
		waiter: new(MockTableExistsWaiter),
		logger: logger,
		config: testConfig(),
	}

	return s, mockClient
}
