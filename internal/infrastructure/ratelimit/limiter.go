// Package ratelimit slows brute-force probing of the device and IP bindings.
// A key accumulates failures; once it reaches MaxFailures it stays limited
// until BlockDuration passes without a new failure.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"licenseguard/internal/shared/biztime"
)

const (
	DefaultMaxFailures   = 5
	DefaultBlockDuration = 60 * time.Minute
)

// Config controls a FailureLimiter.
type Config struct {
	MaxFailures   int
	BlockDuration time.Duration
}

// FailureLimiter implements a block-duration failure counter over a
// FailureStore. Every failure pushes the reset deadline out again.
type FailureLimiter struct {
	store         FailureStore
	maxFailures   int
	blockDuration time.Duration
	now           biztime.Clock
}

func NewFailureLimiter(store FailureStore, cfg Config, clock biztime.Clock) *FailureLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = DefaultBlockDuration
	}
	if clock == nil {
		clock = biztime.NowUTC
	}
	return &FailureLimiter{
		store:         store,
		maxFailures:   cfg.MaxFailures,
		blockDuration: cfg.BlockDuration,
		now:           clock,
	}
}

// Key builds the limiter key for an (ip, device) pair. Either part may be empty.
func Key(ip, deviceID string) string {
	return strings.ToLower(ip) + "|" + strings.ToLower(deviceID)
}

// IsLimited is true while the key has at least MaxFailures failures and its
// reset deadline has not passed.
func (l *FailureLimiter) IsLimited(ctx context.Context, key string) (bool, Entry, error) {
	e, ok, err := l.store.Get(ctx, key, l.now())
	if err != nil {
		return false, Entry{}, fmt.Errorf("rate limit lookup: %w", err)
	}
	if !ok {
		return false, Entry{}, nil
	}
	return e.Count >= l.maxFailures, e, nil
}

// RecordFailure counts one failure. tripped is true only for the failure that
// brings the key to MaxFailures.
func (l *FailureLimiter) RecordFailure(ctx context.Context, key string) (entry Entry, tripped bool, err error) {
	now := l.now()
	entry, err = l.store.Incr(ctx, key, now, now.Add(l.blockDuration))
	if err != nil {
		return Entry{}, false, fmt.Errorf("rate limit record: %w", err)
	}
	return entry, entry.Count == l.maxFailures, nil
}

// Clear resets the key after a successful validation.
func (l *FailureLimiter) Clear(ctx context.Context, key string) error {
	if err := l.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("rate limit clear: %w", err)
	}
	return nil
}

// Sweep evicts expired entries.
func (l *FailureLimiter) Sweep(ctx context.Context) (int, error) {
	return l.store.Sweep(ctx, l.now())
}

func (l *FailureLimiter) MaxFailures() int {
	return l.maxFailures
}

func (l *FailureLimiter) BlockDuration() time.Duration {
	return l.blockDuration
}
