// internal/store/dynamodb/dynamodbconfig.go
package dynamodb

import (
	"errors"
	"fmt"
)

// DynamoDBConfig configures the DynamoDB flag backend.
// Database namespaces the flag items so several logical databases can share one table.
type DynamoDBConfig struct {
	Region          string   `yaml:"region" mapstructure:"region"`
	Table           string   `yaml:"table" mapstructure:"table"`
	Endpoints       []string `yaml:"endpoints" mapstructure:"endpoints"`
	AccessKeyID     string   `yaml:"accessKeyId,omitempty" mapstructure:"access_key_id"`
	SecretAccessKey string   `yaml:"secretAccessKey,omitempty" mapstructure:"secret_access_key"`
	Database        int      `yaml:"database" mapstructure:"database"`
}

func (c *DynamoDBConfig) GetTableName() string {
	return c.Table
}

func (c *DynamoDBConfig) GetEndpoints() []string {
	return c.Endpoints
}

func (c *DynamoDBConfig) GetDatabase() int {
	return c.Database
}

func (c *DynamoDBConfig) Validate() error {
	if c.Region == "" {
		return errors.New("region is required")
	}
	if c.Table == "" {
		return errors.New("table is required")
	}
	if c.Database < 0 {
		return fmt.Errorf("database must be non-negative, got %d", c.Database)
	}
	// Check if credentials are provided consistently
	if (c.AccessKeyID != "" && c.SecretAccessKey == "") ||
		(c.AccessKeyID == "" && c.SecretAccessKey != "") {
		return errors.New("both access key and secret key must be provided together")
	}
	return nil
}

// partitionKey builds the PK of the item holding key inside the configured database.
func (c *DynamoDBConfig) partitionKey(key string) string {
	return fmt.Sprintf("%d:%s", c.Database, key)
}

// NewDynamoDBConfig creates a new DynamoDB configuration with default values
func NewDynamoDBConfig() *DynamoDBConfig {
	return &DynamoDBConfig{
		Region: "us-west-2",
		Table:  "cache-lock",
	}
}
