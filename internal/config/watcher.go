// internal/config/watcher.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the configuration file and reports reloaded snapshots.
// It never mutates a configuration that is already in use.
type Watcher struct {
	configFile    string
	watcher       *fsnotify.Watcher
	watchers      []func(*GlobalConfig)
	watchersMutex sync.RWMutex
	mu            sync.RWMutex
	currentConfig *GlobalConfig
	lastError     error
	stopChan      chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

// Watch starts watching the configuration at configPath.
// current is the snapshot the process is running with.
func Watch(configPath string, current *GlobalConfig) (*Watcher, error) {
	configFile, err := resolveConfigFilePath(configPath)
	if err != nil {
		return nil, err
	}
	configFile, err = filepath.Abs(configFile)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are still seen.
	if err := fsWatcher.Add(filepath.Dir(configFile)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", configFile, err)
	}

	w := &Watcher{
		configFile:    configFile,
		watcher:       fsWatcher,
		currentConfig: current,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
	go w.watchConfig()

	return w, nil
}

// AddWatcher adds a function that will be called when the configuration changes
func (w *Watcher) AddWatcher(watcher func(*GlobalConfig)) {
	w.watchersMutex.Lock()
	defer w.watchersMutex.Unlock()
	w.watchers = append(w.watchers, watcher)
}

// GetCurrentConfig returns the latest successfully loaded configuration
func (w *Watcher) GetCurrentConfig() *GlobalConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

// GetLastError returns the last error encountered during config loading
func (w *Watcher) GetLastError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// Close stops watching and waits for the watch loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) watchConfig() {
	defer close(w.done)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.configFile {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.handleFileModification()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(fmt.Errorf("config watcher error: %w", err))
		}
	}
}

func (w *Watcher) handleFileModification() {
	w.waitForFileStability()

	newConfig, err := LoadConfig(w.configFile)
	if err != nil {
		w.handleError(err)
		return
	}

	w.updateConfig(newConfig)
}

// waitForFileStability waits until the file size stops changing.
func (w *Watcher) waitForFileStability() {
	var lastSize int64 = -1
	backoff := 10 * time.Millisecond
	for retries := 0; retries < 3; retries++ {
		size := getFileSize(w.configFile)
		if size == lastSize {
			return
		}
		lastSize = size
		time.Sleep(backoff)
		backoff *= 2
	}
}

func getFileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}

func (w *Watcher) handleError(err error) {
	w.mu.Lock()
	w.lastError = err
	w.mu.Unlock()
}

func (w *Watcher) updateConfig(newConfig *GlobalConfig) {
	w.mu.Lock()
	w.currentConfig = newConfig
	w.lastError = nil
	w.mu.Unlock()
	w.notifyWatchers(newConfig)
}

func (w *Watcher) notifyWatchers(newConfig *GlobalConfig) {
	w.watchersMutex.RLock()
	defer w.watchersMutex.RUnlock()
	for _, watcher := range w.watchers {
		watcher(newConfig)
	}
}
