// internal/lockservice/lockservice.go
// Package lockservice keeps the registry of flag store backends.
// Backends register a Constructor from init and are looked up by name.
package lockservice

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
)

var (
	constructorsMu sync.RWMutex
	constructors   = make(map[string]Constructor)
)

// Config is the backend specific configuration handed to a Constructor.
type Config any

// Constructor connects a flag store. It must return an
// *store.InvalidConfigurationError when options has the wrong type.
type Constructor func(ctx context.Context, options Config, logger *observability.SLogger) (store.Store, error)

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes a backend available under name. Names are case-insensitive.
// It panics on an empty name, a nil constructor or a duplicate name.
func Register(name string, cttr Constructor) {
	key := canonicalName(name)

	constructorsMu.Lock()
	defer constructorsMu.Unlock()

	if key == "" {
		panic("cache-lock: Register called with an empty store name")
	}
	if cttr == nil {
		panic("cache-lock: Register constructor is nil")
	}
	if _, dup := constructors[key]; dup {
		panic("cache-lock: Register called twice for constructor " + key)
	}

	constructors[key] = cttr
}

// Unregister removes a backend.
func Unregister(storeName string) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()

	delete(constructors, canonicalName(storeName))
}

// UnregisterAllConstructors empties the registry.
func UnregisterAllConstructors() {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()

	constructors = make(map[string]Constructor)
}

// Registered reports whether a backend is registered under name.
func Registered(name string) bool {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()

	_, ok := constructors[canonicalName(name)]
	return ok
}

// Constructors returns the sorted names of the registered backends.
func Constructors() []string {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()

	list := make([]string, 0, len(constructors))
	for name := range constructors {
		list = append(list, name)
	}
	sort.Strings(list)

	return list
}

// NewStore connects the backend registered under storeName.
// Options implementing store.StoreConfig are validated before the backend
// is contacted.
func NewStore(ctx context.Context, storeName string, options Config, logger *observability.SLogger) (store.Store, error) {
	name := canonicalName(storeName)

	constructorsMu.RLock()
	construct, ok := constructors[name]
	constructorsMu.RUnlock()

	if !ok {
		return nil, &store.UnknownConstructorError{Store: storeName}
	}

	if cfg, ok := options.(store.StoreConfig); ok {
		if err := cfg.Validate(); err != nil {
			return nil, &store.ConfigurationError{Source: name, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &store.ConnectionError{Store: name, Op: "connect", Err: err}
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return construct(ctx, options, logger)
}
