package store

import "context"

// ReadResult is the positional outcome of a pipelined select-then-read.
// Value is only meaningful when Selected is true; Found distinguishes an
// absent key from an empty value.
type ReadResult struct {
	Selected bool
	Value    string
	Found    bool
}

// Locked reports whether the result represents a held flag.
func (r ReadResult) Locked() bool {
	return r.Selected && r.Found && IsTruthy(r.Value)
}

// Store is a remote key-value store scoped to one logical database.
// Each call is a single network round trip.
type Store interface {
	// Set selects the configured database and writes value under key.
	Set(ctx context.Context, key, value string) error

	// Get selects the configured database and reads key.
	// A non-nil error means the whole exchange failed; a missing key is
	// reported as ReadResult{Selected: true, Found: false}.
	Get(ctx context.Context, key string) (ReadResult, error)

	// Close releases resources owned by the store
	Close()

	// GetConfig returns the current store configuration
	GetConfig() StoreConfig
}

// IsTruthy coerces a stored flag value to a boolean the way a loosely typed
// caller would: the empty string and "0" are false, everything else is true.
func IsTruthy(value string) bool {
	return value != "" && value != "0"
}
