// internal/store/errors.go
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReachable is returned when the store cannot be reached for a flag operation.
	ErrNotReachable = errors.New("api not reachable")
	// ErrStoreDisabled is returned by every operation of a lock that failed to bootstrap.
	ErrStoreDisabled = errors.New("cannot connect to the cache lock store")
	// ErrKeyRequired is returned when a primitive is called without a key.
	ErrKeyRequired = errors.New("no key was specified")
	// ErrValueRequired is returned when a write is attempted without a value.
	ErrValueRequired = errors.New("no value was specified")
)

// ConfigurationError is returned when the configuration source is missing or malformed.
// It disables the lock permanently.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("cache lock configuration: %v", e.Err)
	}
	return fmt.Sprintf("cache lock configuration %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConnectionError wraps a transport or authentication failure.
type ConnectionError struct {
	Store string
	Op    string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Store, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// UsageError is returned when a primitive is called with missing arguments.
// The store is never contacted in that case.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// InvalidConfigurationError is thrown when the type of the configuration is not supported by a store.
type InvalidConfigurationError struct {
	Store  string
	Config any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration type: %T", e.Store, e.Config)
}

// UnknownConstructorError is thrown when a requested store is not register.
type UnknownConstructorError struct {
	Store string
}

func (e UnknownConstructorError) Error() string {
	return fmt.Sprintf("unknown constructor %q (forgotten import?)", e.Store)
}

// CheckKey validates the arguments of a read.
func CheckKey(op, key string) error {
	if key == "" {
		return &UsageError{Op: op, Err: ErrKeyRequired}
	}
	return nil
}

// CheckKeyValue validates the arguments of a write.
func CheckKeyValue(op, key, value string) error {
	if err := CheckKey(op, key); err != nil {
		return err
	}
	if value == "" {
		return &UsageError{Op: op, Err: ErrValueRequired}
	}
	return nil
}
