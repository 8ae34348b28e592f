// internal/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"github.com/avivl/cache-lock/internal/store/dynamodb"
	"github.com/avivl/cache-lock/internal/store/redis"
	"github.com/avivl/cache-lock/internal/store/scylladb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
cache_lock:
  server: "127.0.0.1"
  port: "6379"
  database: 2
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:5050", cfg.ServerAddress)
	assert.Equal(t, BackendRedis, cfg.Backend.Type)
	assert.Equal(t, observability.LogLevelInfo, cfg.Logger.Level)
	assert.False(t, cfg.Observability.Enabled)
	assert.Equal(t, "cache-lock", cfg.Observability.ServiceName)

	cl := cfg.CacheLock
	assert.Equal(t, "127.0.0.1", cl.Server)
	assert.Equal(t, 6379, cl.Port)
	assert.Equal(t, 2, cl.Database)
	assert.Empty(t, cl.Password)
	assert.Zero(t, cl.TimeoutDuration())
	assert.False(t, cl.IsPersistent())
	assert.Equal(t, 10, cl.MaxAttempts)
	assert.Equal(t, int64(10000000), cl.RetryTime)
	assert.Equal(t, 10*time.Second, cl.RetryInterval())
	assert.Equal(t, "cache_lock", cl.CacheKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
serverAddress: "0.0.0.0:6000"
logger:
  level: "LOG_LEVELS_DEBUGLEVEL"
cache_lock:
  server: "redis.internal"
  port: 6380
  database: 5
  password: "secret"
  timeout: 2.5
  persistent: "cache-lock"
  max_attempts: 3
  retry_time: 500000
  cache_key: "warmup_lock"
`)

	// Directories resolve to the config file inside them.
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	cl := cfg.CacheLock
	assert.Equal(t, "0.0.0.0:6000", cfg.ServerAddress)
	assert.Equal(t, observability.LogLevelDebug, cfg.Logger.Level)
	assert.Equal(t, 3, cl.MaxAttempts)
	assert.Equal(t, int64(500000), cl.RetryTime)
	assert.Equal(t, 500*time.Millisecond, cl.RetryInterval())
	assert.Equal(t, "warmup_lock", cl.CacheKey)
	assert.Equal(t, 2500*time.Millisecond, cl.TimeoutDuration())
	assert.True(t, cl.IsPersistent())
	assert.Equal(t, "secret", cl.Password)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalConfig)

	t.Setenv("CACHELOCK_CACHE_LOCK_DATABASE", "7")
	t.Setenv("CACHELOCK_CACHE_LOCK_MAX_ATTEMPTS", "4")
	t.Setenv("CACHELOCK_SERVERADDRESS", "127.0.0.1:7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.CacheLock.Database)
	assert.Equal(t, 4, cfg.CacheLock.MaxAttempts)
	assert.Equal(t, "127.0.0.1:7070", cfg.ServerAddress)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing_required_keys",
			content: "cache_lock:\n  server: \"127.0.0.1\"\n",
			wantErr: "missing required keys: cache_lock.database, cache_lock.port",
		},
		{
			name:    "malformed_port",
			content: "cache_lock:\n  server: a\n  port: not-a-port\n  database: 0\n",
			wantErr: "unable to decode config",
		},
		{
			name:    "negative_retry_time",
			content: "cache_lock:\n  server: a\n  port: 1\n  database: 0\n  retry_time: -1\n",
			wantErr: "cache_lock.retry_time must not be negative",
		},
		{
			name:    "empty_cache_key",
			content: "cache_lock:\n  server: a\n  port: 1\n  database: 0\n  cache_key: \"\"\n",
			wantErr: "cache_lock.cache_key must not be empty",
		},
		{
			name:    "invalid_yaml",
			content: "cache_lock: [\n",
			wantErr: "error reading config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cfgErr *store.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		var cfgErr *store.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), "configuration file not found")
	})

	t.Run("empty_directory", func(t *testing.T) {
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "no config file found in directory")
	})
}

func TestStoreConfig(t *testing.T) {
	t.Run("redis", func(t *testing.T) {
		cfg := &GlobalConfig{
			Backend: BackendConfig{Type: "redis"},
			CacheLock: CacheLockConfig{
				Server: "redis.internal", Port: 6380, Database: 4,
				Password: "pw", Timeout: 0.25, Persistent: "1",
			},
		}

		sc, err := cfg.StoreConfig()
		require.NoError(t, err)
		rc, ok := sc.(*redis.RedisConfig)
		require.True(t, ok)
		assert.Equal(t, &redis.RedisConfig{
			Host: "redis.internal", Port: 6380, Password: "pw", DB: 4,
			Timeout: 250 * time.Millisecond, Persistent: true,
		}, rc)
	})

	t.Run("dynamodb", func(t *testing.T) {
		cfg := &GlobalConfig{
			Backend: BackendConfig{Type: "dynamo"},
			CacheLock: CacheLockConfig{
				Database: 9,
				DynamoDB: dynamodb.DynamoDBConfig{Region: "eu-west-1", Table: "locks"},
			},
		}

		sc, err := cfg.StoreConfig()
		require.NoError(t, err)
		dc := sc.(*dynamodb.DynamoDBConfig)
		assert.Equal(t, "eu-west-1", dc.Region)
		assert.Equal(t, 9, dc.GetDatabase())
		assert.Zero(t, cfg.CacheLock.DynamoDB.Database)
	})

	t.Run("scylladb", func(t *testing.T) {
		cfg := &GlobalConfig{
			Backend: BackendConfig{Type: "scylladb"},
			CacheLock: CacheLockConfig{
				Server: "scylla.internal", Port: 9042, Database: 1, Timeout: 3,
				ScyllaDB: *scylladb.NewScyllaDBConfig(),
			},
		}

		sc, err := cfg.StoreConfig()
		require.NoError(t, err)
		scfg := sc.(*scylladb.ScyllaDBConfig)
		assert.Equal(t, []string{"scylla.internal:9042"}, scfg.GetEndpoints())
		assert.Equal(t, 1, scfg.GetDatabase())
		assert.Equal(t, 3*time.Second, scfg.Timeout)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &GlobalConfig{Backend: BackendConfig{Type: "etcd"}}
		_, err := cfg.StoreConfig()
		var cfgErr *store.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), `unsupported backend "etcd"`)
	})
}

func TestLoadConfigDynamoDBSkipsContactPoint(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
backend:
  type: dynamodb
cache_lock:
  database: 0
  dynamodb:
    region: us-east-1
    table: flags
    endpoints: ["http://localhost:8000"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	sc, err := cfg.StoreConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:8000"}, sc.GetEndpoints())
	assert.NoError(t, sc.Validate())
}

func TestDefaultMatchesLoadedDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalConfig)
	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	def := Default()
	def.CacheLock.Server = "127.0.0.1"
	def.CacheLock.Port = 6379
	def.CacheLock.Database = 2
	// The loaded ScyllaDB section only carries the keys with defaults.
	def.CacheLock.ScyllaDB.Host = ""
	def.CacheLock.ScyllaDB.Port = 0

	assert.Equal(t, def, loaded)
}

func TestLoadTunables(t *testing.T) {
	t.Run("kept_when_contact_point_missing", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
cache_lock:
  database: 1
  max_attempts: 3
  retry_time: 500
  cache_key: "warmup"
`)
		_, err := LoadConfig(path)
		require.Error(t, err)

		cfg := LoadTunables(path)
		assert.Equal(t, 3, cfg.CacheLock.MaxAttempts)
		assert.Equal(t, int64(500), cfg.CacheLock.RetryTime)
		assert.Equal(t, "warmup", cfg.CacheLock.CacheKey)
	})

	t.Run("malformed_values_keep_defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
cache_lock:
  max_attempts: "many"
  retry_time: -5
`)
		cfg := LoadTunables(path)
		assert.Equal(t, DefaultMaxAttempts, cfg.CacheLock.MaxAttempts)
		assert.Equal(t, DefaultRetryTime, cfg.CacheLock.RetryTime)
		assert.Equal(t, DefaultCacheKey, cfg.CacheLock.CacheKey)
	})

	t.Run("missing_file", func(t *testing.T) {
		cfg := LoadTunables(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, Default(), cfg)
	})
}
