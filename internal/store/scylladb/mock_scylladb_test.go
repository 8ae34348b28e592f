// internal/store/scylladb/mock_scylladb_test.go
package scylladb

import (
	"context"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/stretchr/testify/mock"
)

// MockSession is a mock implementation of sessionInterface
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Close() {
	m.Called()
}

func (m *MockSession) Query(stmt string, values ...any) queryInterface {
	args := m.Called(stmt, values)
	return args.Get(0).(queryInterface)
}

// MockQuery is a mock implementation of queryInterface.
// A string first return value of Scan is copied into the destination.
type MockQuery struct {
	mock.Mock
}

func (m *MockQuery) Exec() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockQuery) Scan(dest ...any) error {
	args := m.Called(dest)
	if value, ok := args.Get(0).(string); ok && len(dest) > 0 {
		*dest[0].(*string) = value
	}
	return args.Error(1)
}

func (m *MockQuery) WithContext(ctx context.Context) queryInterface {
	m.Called(ctx)
	return m
}

func testConfig() *ScyllaDBConfig {
	cfg := NewScyllaDBConfig()
	cfg.Keyspace = "test_keyspace"
	cfg.Table = "test_table"
	cfg.Database = 2
	return cfg
}

// SetupStoreWithMocks builds a Store on a mocked session.
func SetupStoreWithMocks() (*Store, *MockSession) {
	session := new(MockSession)
	logger, _, _ := observability.NewTestLogger()
	return newWithSession(session, testConfig(), logger), session
}
