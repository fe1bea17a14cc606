package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(clock *fakeClock) (*FailureLimiter, *MemoryFailureStore) {
	store := NewMemoryFailureStore()
	return NewFailureLimiter(store, Config{MaxFailures: 5, BlockDuration: time.Hour}, clock.Now), store
}

func TestFailureLimiter_TripsAtMaxFailures(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)
	key := Key("203.0.113.9", "device-1")

	for i := 1; i <= 4; i++ {
		entry, tripped, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, i, entry.Count)
		assert.False(t, tripped)

		limited, _, err := limiter.IsLimited(ctx, key)
		require.NoError(t, err)
		assert.False(t, limited, "failure %d should not limit yet", i)
	}

	_, tripped, err := limiter.RecordFailure(ctx, key)
	require.NoError(t, err)
	assert.True(t, tripped)

	limited, entry, err := limiter.IsLimited(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited)
	assert.Equal(t, clock.Now().Add(time.Hour), entry.ResetAt)

	_, tripped, err = limiter.RecordFailure(ctx, key)
	require.NoError(t, err)
	assert.False(t, tripped, "only the failure reaching the limit trips")
}

func TestFailureLimiter_ClearResets(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, store := newTestLimiter(clock)
	key := Key("203.0.113.9", "device-1")

	for i := 0; i < 5; i++ {
		_, _, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
	}
	require.NoError(t, limiter.Clear(ctx, key))

	limited, entry, err := limiter.IsLimited(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited)
	assert.Zero(t, entry.Count)
	assert.Zero(t, store.Len())

	entry, _, err = limiter.RecordFailure(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Count)
}

func TestFailureLimiter_ExpiresWithoutClear(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, store := newTestLimiter(clock)
	key := Key("", "device-1")

	for i := 0; i < 5; i++ {
		_, _, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
	}

	clock.Advance(59 * time.Minute)
	limited, _, err := limiter.IsLimited(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited)

	clock.Advance(time.Minute)
	limited, _, err = limiter.IsLimited(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited)
	assert.Zero(t, store.Len(), "expired entry is evicted lazily")
}

func TestFailureLimiter_FailureExtendsDeadline(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)
	key := Key("203.0.113.9", "device-1")

	for i := 0; i < 5; i++ {
		_, _, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
	}
	clock.Advance(50 * time.Minute)
	_, _, err := limiter.RecordFailure(ctx, key)
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	limited, entry, err := limiter.IsLimited(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited, "new failure pushed the deadline out")
	assert.Equal(t, 6, entry.Count)
}

func TestFailureLimiter_ExpiredEntryRestartsCount(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)
	key := Key("203.0.113.9", "device-1")

	for i := 0; i < 3; i++ {
		_, _, err := limiter.RecordFailure(ctx, key)
		require.NoError(t, err)
	}
	clock.Advance(2 * time.Hour)

	entry, _, err := limiter.RecordFailure(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Count)
}

func TestFailureLimiter_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	limiter, store := newTestLimiter(clock)

	_, _, err := limiter.RecordFailure(ctx, "old")
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	_, _, err = limiter.RecordFailure(ctx, "fresh")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	removed, err := limiter.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestFailureLimiter_ConcurrentFailuresAreCounted(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryFailureStore()
	limiter := NewFailureLimiter(store, Config{MaxFailures: 1000, BlockDuration: time.Hour}, clock.Now)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _, _ = limiter.RecordFailure(ctx, "shared")
				_, _, _ = limiter.IsLimited(ctx, fmt.Sprintf("other-%d", i))
			}
		}()
	}
	wg.Wait()

	_, entry, err := limiter.IsLimited(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 400, entry.Count)
}

func TestNewFailureLimiter_Defaults(t *testing.T) {
	limiter := NewFailureLimiter(NewMemoryFailureStore(), Config{}, nil)
	assert.Equal(t, DefaultMaxFailures, limiter.MaxFailures())
	assert.Equal(t, DefaultBlockDuration, limiter.BlockDuration())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "203.0.113.9|abc", Key("203.0.113.9", "ABC"))
	assert.Equal(t, "|abc", Key("", "abc"))
}
