// internal/config/storeconfig.go
package config

import (
	"fmt"

	"github.com/avivl/cache-lock/internal/store"
	"github.com/avivl/cache-lock/internal/store/redis"
)

// Backend names, matching the names the stores register under.
const (
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendScyllaDB = "scylladb"
)

// BackendName returns the registered name of the configured backend.
func (c *GlobalConfig) BackendName() string {
	return normalizeBackendType(c.Backend.Type)
}

// StoreConfig builds the configuration of the selected backend.
// The database index of the cache_lock section always wins over the
// backend sub-section.
func (c *GlobalConfig) StoreConfig() (store.StoreConfig, error) {
	cl := c.CacheLock

	switch c.BackendName() {
	case BackendRedis:
		return &redis.RedisConfig{
			Host:       cl.Server,
			Port:       cl.Port,
			Password:   cl.Password,
			DB:         cl.Database,
			Timeout:    cl.TimeoutDuration(),
			Persistent: cl.IsPersistent(),
		}, nil

	case BackendDynamoDB:
		cfg := cl.DynamoDB
		cfg.Database = cl.Database
		return &cfg, nil

	case BackendScyllaDB:
		cfg := cl.ScyllaDB
		cfg.Host = cl.Server
		cfg.Port = cl.Port
		cfg.Database = cl.Database
		if cfg.Password == "" && cl.Password != "" {
			cfg.Password = cl.Password
		}
		if cfg.Timeout == 0 {
			cfg.Timeout = cl.TimeoutDuration()
		}
		return &cfg, nil

	default:
		return nil, &store.ConfigurationError{
			Source: "backend.type",
			Err:    fmt.Errorf("unsupported backend %q", c.Backend.Type),
		}
	}
}
