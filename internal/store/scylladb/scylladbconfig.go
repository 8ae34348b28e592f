// internal/store/scylladb/scylladbconfig.go
package scylladb

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ScyllaDBConfig configures the ScyllaDB flag backend.
// Database becomes the partition key of the flag rows.
type ScyllaDBConfig struct {
	Host              string        `yaml:"host" mapstructure:"host"`
	Port              int           `yaml:"port" mapstructure:"port"`
	Keyspace          string        `yaml:"keyspace" mapstructure:"keyspace"`
	Table             string        `yaml:"table" mapstructure:"table"`
	Consistency       string        `yaml:"consistency" mapstructure:"consistency"`
	ReplicationFactor int           `yaml:"replicationFactor" mapstructure:"replication_factor"`
	Username          string        `yaml:"username,omitempty" mapstructure:"username"`
	Password          string        `yaml:"password,omitempty" mapstructure:"password"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Database          int           `yaml:"database" mapstructure:"database"`
}

// NewScyllaDBConfig creates a new ScyllaDB configuration with default values
func NewScyllaDBConfig() *ScyllaDBConfig {
	return &ScyllaDBConfig{
		Host:              "localhost",
		Port:              9042,
		Keyspace:          "cache_lock",
		Table:             "flags",
		Consistency:       "CONSISTENCY_QUORUM",
		ReplicationFactor: 1,
	}
}

func (c *ScyllaDBConfig) GetTableName() string {
	return c.Table
}

func (c *ScyllaDBConfig) GetEndpoints() []string {
	return []string{net.JoinHostPort(c.Host, strconv.Itoa(c.Port))}
}

func (c *ScyllaDBConfig) GetDatabase() int {
	return c.Database
}

// Validate checks if the configuration is valid
func (c *ScyllaDBConfig) Validate() error {
	var errs []string

	if c.Host == "" {
		errs = append(errs, "host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.Keyspace == "" {
		errs = append(errs, "keyspace is required")
	}
	if c.Table == "" {
		errs = append(errs, "table is required")
	}
	if c.ReplicationFactor < 1 {
		errs = append(errs, "replication factor must be positive")
	}
	if c.Database < 0 {
		errs = append(errs, "database must be non-negative")
	}
	if c.Username == "" && c.Password != "" {
		errs = append(errs, "password requires a username")
	}

	if len(errs) > 0 {
		return errors.New("store validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *ScyllaDBConfig) fullTableName() string {
	return fmt.Sprintf(`"%s"."%s"`, c.Keyspace, c.Table)
}
