package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLicense(t *testing.T) {
	_, err := NewLicense("  ", nil, 7, Unrestricted())
	assert.ErrorIs(t, err, ErrTenantIDRequired)

	_, err = NewLicense("t-1", nil, -1, Unrestricted())
	assert.ErrorIs(t, err, ErrInvalidGracePeriod)

	l, err := NewLicense("t-1", nil, 7, RestrictedTo("203.0.113.5"))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, l.Status())
	assert.True(t, l.AllowedIP().IsRestricted())
	assert.Zero(t, l.ID())
	require.NoError(t, l.SetID(9))
	assert.Error(t, l.SetID(10))
}

func TestLicense_GraceCaching(t *testing.T) {
	l, err := ReconstructLicense(Snapshot{
		ID:              1,
		TenantID:        "t-1",
		Status:          StatusExpired,
		ExpiresAt:       ptrTime(now.Add(-72 * time.Hour)),
		GracePeriodDays: 7,
	})
	require.NoError(t, err)

	grace, access := l.Evaluate(now)
	assert.Equal(t, AccessReadOnly, access.Level)
	assert.True(t, l.NeedsGraceUntil(grace))

	l.MarkGraceUntil(*grace.GraceUntil)
	assert.False(t, l.NeedsGraceUntil(grace))
}

func TestLicense_CheckinDue(t *testing.T) {
	l, err := ReconstructLicense(Snapshot{ID: 1, TenantID: "t-1", Status: StatusActive})
	require.NoError(t, err)

	assert.True(t, l.CheckinDue(now, time.Hour))
	l.MarkCheckedIn(now.Add(-30 * time.Minute))
	assert.False(t, l.CheckinDue(now, time.Hour))
	assert.True(t, l.CheckinDue(now.Add(31*time.Minute), time.Hour))
	assert.EqualValues(t, 1, l.ValidationCount())
}

func TestAllowedIP(t *testing.T) {
	assert.False(t, Unrestricted().IsRestricted())
	assert.Nil(t, Unrestricted().Nullable())
	assert.False(t, RestrictedTo("  ").IsRestricted())

	mapped := RestrictedTo("::ffff:203.0.113.5")
	ip, ok := mapped.IP()
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.5", ip)
	assert.Equal(t, "203.0.113.5", *mapped.Nullable())

	empty := ""
	assert.False(t, AllowedIPFromNullable(&empty).IsRestricted())
	assert.False(t, AllowedIPFromNullable(nil).IsRestricted())
}
