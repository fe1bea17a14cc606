package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func TestEvaluateGrace_NoExpiry(t *testing.T) {
	eval := EvaluateGrace(nil, 7, now)

	assert.False(t, eval.Expired)
	assert.False(t, eval.InGrace)
	assert.Nil(t, eval.GraceUntil)
	assert.Nil(t, eval.DaysInGrace)
	assert.Zero(t, eval.DaysRemaining)
}

func TestEvaluateGrace_NotExpired(t *testing.T) {
	eval := EvaluateGrace(ptrTime(now.Add(36*time.Hour)), 7, now)

	assert.False(t, eval.Expired)
	assert.False(t, eval.InGrace)
	require.NotNil(t, eval.GraceUntil)
	assert.Equal(t, now.Add(36*time.Hour+7*24*time.Hour), *eval.GraceUntil)
	assert.Nil(t, eval.DaysInGrace)
	assert.Equal(t, 2, eval.DaysRemaining)
}

func TestEvaluateGrace_InGrace(t *testing.T) {
	// expired three days ago with a seven day grace period
	eval := EvaluateGrace(ptrTime(now.Add(-72*time.Hour)), 7, now)

	assert.True(t, eval.Expired)
	assert.True(t, eval.InGrace)
	require.NotNil(t, eval.DaysInGrace)
	assert.Equal(t, 4, *eval.DaysInGrace)
	assert.Equal(t, 4, eval.DaysRemaining)
}

func TestEvaluateGrace_PastGrace(t *testing.T) {
	eval := EvaluateGrace(ptrTime(now.Add(-10*24*time.Hour)), 7, now)

	assert.True(t, eval.Expired)
	assert.False(t, eval.InGrace)
	assert.Nil(t, eval.DaysInGrace)
	assert.Zero(t, eval.DaysRemaining)
}

func TestEvaluateGrace_Boundaries(t *testing.T) {
	t.Run("exactly at expiry is not expired", func(t *testing.T) {
		eval := EvaluateGrace(ptrTime(now), 7, now)
		assert.False(t, eval.Expired)
		assert.Zero(t, eval.DaysRemaining)
	})

	t.Run("exactly at grace end is still in grace", func(t *testing.T) {
		eval := EvaluateGrace(ptrTime(now.Add(-7*24*time.Hour)), 7, now)
		assert.True(t, eval.InGrace)
		require.NotNil(t, eval.DaysInGrace)
		assert.Zero(t, *eval.DaysInGrace)
	})

	t.Run("zero day grace", func(t *testing.T) {
		eval := EvaluateGrace(ptrTime(now.Add(-time.Second)), 0, now)
		assert.True(t, eval.Expired)
		assert.False(t, eval.InGrace)
	})
}

func TestEvaluateGrace_Properties(t *testing.T) {
	offsets := []time.Duration{
		-30 * 24 * time.Hour, -8 * 24 * time.Hour, -7 * 24 * time.Hour, -1 * time.Hour,
		0, time.Minute, 3 * 24 * time.Hour, 400 * 24 * time.Hour,
	}
	for _, days := range []int{0, 1, 7, 30} {
		for _, off := range offsets {
			expiresAt := now.Add(off)
			eval := EvaluateGrace(&expiresAt, days, now)

			require.NotNil(t, eval.GraceUntil)
			assert.Equal(t, expiresAt.Add(time.Duration(days)*24*time.Hour), *eval.GraceUntil)
			if eval.InGrace {
				assert.True(t, eval.Expired, "in grace implies expired")
				require.NotNil(t, eval.DaysInGrace)
				assert.GreaterOrEqual(t, *eval.DaysInGrace, 0)
			}
			if !eval.Expired {
				assert.False(t, eval.InGrace, "not expired implies not in grace")
			}
			assert.GreaterOrEqual(t, eval.DaysRemaining, 0)
		}
	}
}
