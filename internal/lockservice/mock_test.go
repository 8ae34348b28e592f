// internal/lockservice/mock_test.go
package lockservice

import (
	"context"
	"fmt"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
)

const testStoreName = "mock"

// MockConfig implements store.StoreConfig
type MockConfig struct {
	Endpoints []string
	Database  int
}

// Validate rejects negative database indexes
func (c *MockConfig) Validate() error {
	if c.Database < 0 {
		return fmt.Errorf("database must be non-negative, got %d", c.Database)
	}
	return nil
}

// GetEndpoints returns the endpoints
func (c *MockConfig) GetEndpoints() []string {
	return c.Endpoints
}

// GetDatabase returns the database index
func (c *MockConfig) GetDatabase() int {
	return c.Database
}

// newStore creates a new flag store based on the provided configuration.
func newStore(ctx context.Context, options Config, logger *observability.SLogger) (store.Store, error) {
	cfg, ok := options.(*MockConfig)
	if !ok {
		return nil, &store.InvalidConfigurationError{Store: testStoreName, Config: options}
	}

	return New(ctx, cfg)
}

// Mock is an in-memory store.Store used to exercise the registry.
type Mock struct {
	cfg    *MockConfig
	values map[string]string
}

// New creates a new Mock client.
func New(_ context.Context, cfg *MockConfig) (*Mock, error) {
	return &Mock{cfg: cfg, values: make(map[string]string)}, nil
}

// Set stores value under key
func (m *Mock) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

// Get reads key
func (m *Mock) Get(_ context.Context, key string) (store.ReadResult, error) {
	value, ok := m.values[key]
	return store.ReadResult{Selected: true, Value: value, Found: ok}, nil
}

// Close closes the Mock store
func (m *Mock) Close() {}

// GetConfig returns the current store configuration
func (m *Mock) GetConfig() store.StoreConfig {
	return m.cfg
}
