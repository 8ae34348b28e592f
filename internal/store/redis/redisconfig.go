// internal/store/redis/redisconfig.go

package redis

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Timeout  time.Duration `yaml:"timeout"`
	// Persistent keeps the connection open instead of letting the pool reap it when idle.
	Persistent bool `yaml:"persistent"`
}

// NewRedisConfig creates a new Redis configuration with default values
func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host: "localhost",
		Port: 6379,
	}
}

// Validate ensures the Redis configuration is valid
func (c *RedisConfig) Validate() error {
	var errs []string

	if c.Host == "" {
		errs = append(errs, "host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.DB < 0 {
		errs = append(errs, "DB number must be non-negative")
	}

	if c.Timeout < 0 {
		errs = append(errs, "timeout must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("store validation failed: " + strings.Join(errs, "; "))
	}

	return nil
}

// String returns a string representation of the Redis configuration
func (c *RedisConfig) String() string {
	return fmt.Sprintf(
		"RedisConfig{Host: %s, Port: %d, DB: %d, Timeout: %s, Persistent: %t, Auth: %t}",
		c.Host,
		c.Port,
		c.DB,
		c.Timeout,
		c.Persistent,
		c.Password != "",
	)
}

// Clone creates a copy of the Redis configuration
func (c *RedisConfig) Clone() *RedisConfig {
	clone := *c
	return &clone
}

// GetEndpoints returns the Redis address
func (c *RedisConfig) GetEndpoints() []string {
	return []string{c.addr()}
}

// GetDatabase returns the logical database holding the flag
func (c *RedisConfig) GetDatabase() int {
	return c.DB
}

func (c *RedisConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// clientOptions maps the configuration onto go-redis options.
// A zero Timeout leaves the client default in place.
func (c *RedisConfig) clientOptions() *redis.Options {
	opts := &redis.Options{
		Addr:     c.addr(),
		Password: c.Password,
		DB:       c.DB,
	}

	if c.Timeout > 0 {
		opts.DialTimeout = c.Timeout
	}

	if c.Persistent {
		opts.MinIdleConns = 1
		opts.ConnMaxIdleTime = -1
	}

	return opts
}
