// internal/config/config.go
// Package config loads the cache lock configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"github.com/avivl/cache-lock/internal/store/dynamodb"
	"github.com/avivl/cache-lock/internal/store/scylladb"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CACHELOCK_CACHE_LOCK_SERVER.
	EnvPrefix = "CACHELOCK"

	DefaultMaxAttempts = 10
	// DefaultRetryTime is ten seconds expressed in microseconds.
	DefaultRetryTime int64 = 10000000
	DefaultCacheKey        = "cache_lock"
)

// GlobalConfig represents the complete application configuration
type GlobalConfig struct {
	ServerAddress string                     `mapstructure:"serverAddress" yaml:"serverAddress"`
	Backend       BackendConfig              `mapstructure:"backend" yaml:"backend"`
	CacheLock     CacheLockConfig            `mapstructure:"cache_lock" yaml:"cache_lock"`
	Logger        observability.LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Observability observability.Config       `mapstructure:"observability" yaml:"observability"`
}

// BackendConfig represents the backend configuration section
type BackendConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
}

// RootConfig is the minimal shape read by DetectBackendType.
type RootConfig struct {
	Backend BackendConfig `yaml:"backend"`
}

// CacheLockConfig is the cache_lock section.
// Timeout is in seconds and zero leaves the client default in place.
// Any non-empty Persistent value turns persistent connections on.
type CacheLockConfig struct {
	Server      string                  `mapstructure:"server" yaml:"server"`
	Port        int                     `mapstructure:"port" yaml:"port"`
	Database    int                     `mapstructure:"database" yaml:"database"`
	Password    string                  `mapstructure:"password" yaml:"password,omitempty"`
	Timeout     float64                 `mapstructure:"timeout" yaml:"timeout,omitempty"`
	Persistent  string                  `mapstructure:"persistent" yaml:"persistent,omitempty"`
	MaxAttempts int                     `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetryTime   int64                   `mapstructure:"retry_time" yaml:"retry_time"`
	CacheKey    string                  `mapstructure:"cache_key" yaml:"cache_key"`
	DynamoDB    dynamodb.DynamoDBConfig `mapstructure:"dynamodb" yaml:"dynamodb,omitempty"`
	ScyllaDB    scylladb.ScyllaDBConfig `mapstructure:"scylladb" yaml:"scylladb,omitempty"`
}

// TimeoutDuration converts the fractional seconds timeout to a duration.
func (c *CacheLockConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

// RetryInterval converts RetryTime from microseconds to a duration.
func (c *CacheLockConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryTime) * time.Microsecond
}

// IsPersistent reports whether the persistent flag is set.
func (c *CacheLockConfig) IsPersistent() bool {
	return c.Persistent != ""
}

// Default returns the configuration LoadConfig produces for a file that sets
// nothing but the required keys. Callers fill in the contact point.
func Default() *GlobalConfig {
	return &GlobalConfig{
		ServerAddress: "localhost:5050",
		Backend:       BackendConfig{Type: BackendRedis},
		CacheLock: CacheLockConfig{
			MaxAttempts: DefaultMaxAttempts,
			RetryTime:   DefaultRetryTime,
			CacheKey:    DefaultCacheKey,
			DynamoDB:    *dynamodb.NewDynamoDBConfig(),
			ScyllaDB:    *scylladb.NewScyllaDBConfig(),
		},
		Logger: observability.LoggerConfig{Level: observability.LogLevelInfo},
		Observability: observability.Config{
			ServiceName:    "cache-lock",
			ServiceVersion: "0.1.0",
			Environment:    "development",
			OTelEndpoint:   "localhost:4317",
		},
	}
}

// cacheLockKeys lists every cache_lock leaf so environment overrides
// work for keys absent from the file.
var cacheLockKeys = []string{
	"server", "port", "database", "password", "timeout", "persistent",
	"max_attempts", "retry_time", "cache_key",
}

// LoadConfig reads the configuration file at path, or the first known config
// file inside path when it is a directory, and applies environment overrides.
// Every failure is returned as a *store.ConfigurationError.
func LoadConfig(path string) (*GlobalConfig, error) {
	file, err := resolveConfigFilePath(path)
	if err != nil {
		return nil, &store.ConfigurationError{Source: path, Err: err}
	}

	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, &store.ConfigurationError{Source: file, Err: fmt.Errorf("error reading config file: %w", err)}
	}

	cfg, err := loadConfiguration(v)
	if err != nil {
		return nil, &store.ConfigurationError{Source: file, Err: err}
	}
	return cfg, nil
}

// LoadTunables returns Default() overlaid with the retry tunables and cache
// key that the file at path sets. The rest of the file is not validated, so a
// configuration that LoadConfig rejects still yields the tunables it carries.
// Values that are missing, malformed or negative keep their defaults.
func LoadTunables(path string) *GlobalConfig {
	cfg := Default()

	file, err := resolveConfigFilePath(path)
	if err != nil {
		return cfg
	}
	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return cfg
	}

	if n, err := cast.ToIntE(v.Get("cache_lock.max_attempts")); err == nil && n >= 0 {
		cfg.CacheLock.MaxAttempts = n
	}
	if n, err := cast.ToInt64E(v.Get("cache_lock.retry_time")); err == nil && n >= 0 {
		cfg.CacheLock.RetryTime = n
	}
	if key := v.GetString("cache_lock.cache_key"); key != "" {
		cfg.CacheLock.CacheKey = key
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range cacheLockKeys {
		_ = v.BindEnv("cache_lock." + key)
	}

	setDefaults(v)
	return v
}

func loadConfiguration(v *viper.Viper) (*GlobalConfig, error) {
	backend := normalizeBackendType(v.GetString("backend.type"))

	if err := checkRequired(v, backend); err != nil {
		return nil, err
	}

	config := &GlobalConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Backend.Type = backend

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// checkRequired verifies the keys that have no default.
// The contact point is only meaningful for the redis and scylladb backends.
func checkRequired(v *viper.Viper, backend string) error {
	required := []string{"cache_lock.database"}
	if backend != BackendDynamoDB {
		required = append(required, "cache_lock.server", "cache_lock.port")
	}

	var missing []string
	for _, key := range required {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// validateConfig validates all configuration sections
func validateConfig(cfg *GlobalConfig) error {
	var errs []error

	cl := cfg.CacheLock
	if cfg.Backend.Type != BackendDynamoDB && cl.Server == "" {
		errs = append(errs, errors.New("cache_lock.server must not be empty"))
	}
	if cl.Database < 0 {
		errs = append(errs, fmt.Errorf("cache_lock.database must be non-negative, got %d", cl.Database))
	}
	if cl.Timeout < 0 {
		errs = append(errs, fmt.Errorf("cache_lock.timeout must not be negative, got %v", cl.Timeout))
	}
	if cl.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("cache_lock.max_attempts must not be negative, got %d", cl.MaxAttempts))
	}
	if cl.RetryTime < 0 {
		errs = append(errs, fmt.Errorf("cache_lock.retry_time must not be negative, got %d", cl.RetryTime))
	}
	if cl.CacheKey == "" {
		errs = append(errs, errors.New("cache_lock.cache_key must not be empty"))
	}
	if cfg.ServerAddress == "" {
		errs = append(errs, errors.New("server address is required"))
	}

	return errors.Join(errs...)
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// OpenTelemetry defaults
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "cache-lock")
	v.SetDefault("observability.serviceVersion", "0.1.0")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.otelEndpoint", "localhost:4317")

	// Logger defaults
	v.SetDefault("logger.level", string(observability.LogLevelInfo))

	// Server defaults
	v.SetDefault("serverAddress", "localhost:5050")
	v.SetDefault("backend.type", BackendRedis)

	// Lock defaults
	v.SetDefault("cache_lock.max_attempts", DefaultMaxAttempts)
	v.SetDefault("cache_lock.retry_time", DefaultRetryTime)
	v.SetDefault("cache_lock.cache_key", DefaultCacheKey)

	dynamo := dynamodb.NewDynamoDBConfig()
	v.SetDefault("cache_lock.dynamodb.region", dynamo.Region)
	v.SetDefault("cache_lock.dynamodb.table", dynamo.Table)

	scylla := scylladb.NewScyllaDBConfig()
	v.SetDefault("cache_lock.scylladb.keyspace", scylla.Keyspace)
	v.SetDefault("cache_lock.scylladb.table", scylla.Table)
	v.SetDefault("cache_lock.scylladb.consistency", scylla.Consistency)
	v.SetDefault("cache_lock.scylladb.replication_factor", scylla.ReplicationFactor)
}
