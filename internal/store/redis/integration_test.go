// internal/store/redis/integration_test.go
package redis

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestIntegration runs against a real Redis started in a container.
// Set CACHELOCK_INTEGRATION=1 to run it.
func TestIntegration(t *testing.T) {
	if os.Getenv("CACHELOCK_INTEGRATION") != "1" {
		t.Skip("Skipping integration tests. Set CACHELOCK_INTEGRATION=1 to run")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-bookworm",
			ExposedPorts: []string{"6379/tcp"},
			Cmd:          []string{"redis-server", "--requirepass", "secret"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &RedisConfig{Host: host, Port: port, Password: "secret", DB: 7, Timeout: 2 * time.Second}
	s := newTestStore(t, cfg)

	t.Run("round_trip", func(t *testing.T) {
		result, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.False(t, result.Found)

		require.NoError(t, s.Set(ctx, testKey, "1"))
		result, err = s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.True(t, result.Locked())

		require.NoError(t, s.Set(ctx, testKey, "0"))
		result, err = s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.False(t, result.Locked())
	})

	t.Run("database_out_of_range", func(t *testing.T) {
		bad := cfg.Clone()
		bad.DB = 0
		other := newTestStore(t, bad)
		other.config.DB = 1000

		result, err := other.Get(ctx, testKey)
		require.NoError(t, err)
		assert.False(t, result.Selected)
		assert.False(t, result.Locked())
	})
}
