// internal/store/dynamodb/dynamodbconfig_test.go
package dynamodb

import (
	"testing"

	"github.com/avivl/cache-lock/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestDynamoDBConfig(t *testing.T) {
	var _ store.StoreConfig = (*DynamoDBConfig)(nil)

	t.Run("defaults", func(t *testing.T) {
		cfg := NewDynamoDBConfig()
		assert.Equal(t, "us-west-2", cfg.Region)
		assert.Equal(t, "cache-lock", cfg.GetTableName())
		assert.Empty(t, cfg.GetEndpoints())
		assert.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*DynamoDBConfig)
		wantErr string
	}{
		{"missing_region", func(c *DynamoDBConfig) { c.Region = "" }, "region is required"},
		{"missing_table", func(c *DynamoDBConfig) { c.Table = "" }, "table is required"},
		{"negative_database", func(c *DynamoDBConfig) { c.Database = -1 }, "database must be non-negative, got -1"},
		{"key_without_secret", func(c *DynamoDBConfig) { c.SecretAccessKey = "" }, "both access key and secret key must be provided together"},
		{"secret_without_key", func(c *DynamoDBConfig) { c.AccessKeyID = "" }, "both access key and secret key must be provided together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			assert.EqualError(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("partition_key", func(t *testing.T) {
		cfg := testConfig()
		assert.Equal(t, "3:cache_lock", cfg.partitionKey("cache_lock"))
		cfg.Database = 0
		assert.Equal(t, "0:cache_lock", cfg.partitionKey("cache_lock"))
	})
}
