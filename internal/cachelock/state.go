// internal/cachelock/state.go
package cachelock

import (
	"context"

	"github.com/avivl/cache-lock/internal/store"
)

// State tells apart the cases IsCacheLocked folds into false.
type State int

const (
	// StateUnknown means the flag could not be read or the database could not be selected.
	StateUnknown State = iota
	// StateAbsent means the key has never been written.
	StateAbsent
	StateUnlocked
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateUnlocked:
		return "unlocked"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// LockState reads the flag and reports which state it is in.
// IsCacheLocked(ctx) equals LockState(ctx) == StateLocked.
func (l *Lock) LockState(ctx context.Context) State {
	ctx, finish := l.observe(ctx, "state")
	result, ok := l.get(ctx, l.cacheKey)
	finish(ok)

	switch {
	case !ok || !result.Selected:
		return StateUnknown
	case !result.Found:
		return StateAbsent
	case store.IsTruthy(result.Value):
		return StateLocked
	default:
		return StateUnlocked
	}
}
