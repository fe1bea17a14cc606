package ratelimit

import (
	"context"
	"time"
)

// Entry is the failure state of one key.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Expired reports whether the block window has elapsed at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ResetAt)
}

// FailureStore holds per-key failure counters. Implementations must be safe
// for concurrent use. The in-memory store is per process; a Redis store is
// needed for limits that hold across instances.
type FailureStore interface {
	// Get returns the live entry for key. Expired entries are evicted and
	// reported as absent.
	Get(ctx context.Context, key string, now time.Time) (Entry, bool, error)

	// Incr adds one failure and moves the reset deadline to resetAt. An
	// expired entry restarts from zero.
	Incr(ctx context.Context, key string, now, resetAt time.Time) (Entry, error)

	// Clear drops key entirely.
	Clear(ctx context.Context, key string) error

	// Sweep evicts every entry expired at now and returns how many it removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
