// internal/config/watcher_test.go
package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig)

	initial, err := LoadConfig(path)
	require.NoError(t, err)

	w, err := Watch(dir, initial)
	require.NoError(t, err)
	defer w.Close()

	changes := make(chan *GlobalConfig, 4)
	w.AddWatcher(func(cfg *GlobalConfig) { changes <- cfg })

	assert.Same(t, initial, w.GetCurrentConfig())

	require.NoError(t, os.WriteFile(path, []byte(minimalConfig+"  max_attempts: 3\n"), 0644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 3, cfg.CacheLock.MaxAttempts)
	case <-time.After(5 * time.Second):
		t.Fatal("no configuration change reported")
	}

	// The snapshot handed out earlier is untouched.
	assert.Equal(t, 10, initial.CacheLock.MaxAttempts)
	assert.Equal(t, 3, w.GetCurrentConfig().CacheLock.MaxAttempts)
	assert.NoError(t, w.GetLastError())
}

func TestWatcherKeepsLastGoodConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig)

	initial, err := LoadConfig(path)
	require.NoError(t, err)

	w, err := Watch(path, initial)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("cache_lock:\n  server: a\n"), 0644))

	require.Eventually(t, func() bool { return w.GetLastError() != nil }, 5*time.Second, 20*time.Millisecond)
	assert.Same(t, initial, w.GetCurrentConfig())
}

func TestWatchMissingFile(t *testing.T) {
	_, err := Watch(t.TempDir()+"/missing.yaml", nil)
	assert.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalConfig)
	w, err := Watch(path, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
