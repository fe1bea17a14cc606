package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "licenseguard/internal/shared/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Enforcement.RateLimit.MaxFailures)
	assert.Equal(t, 60*time.Minute, cfg.Enforcement.RateLimit.BlockDuration)
	assert.Equal(t, time.Hour, cfg.Enforcement.RateLimit.SweepInterval)
	assert.Equal(t, time.Hour, cfg.Enforcement.CheckinThrottle)
	assert.Equal(t, 5*time.Minute, cfg.Enforcement.DeviceSeenThrottle)
	assert.Equal(t, sharedConfig.RateLimitBackendMemory, cfg.Enforcement.RateLimit.Backend)
	assert.Equal(t, "lg_device_id", cfg.Enforcement.DeviceCookieName)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LICENSEGUARD_ENFORCEMENT_RATE_LIMIT_MAX_FAILURES", "3")
	t.Setenv("LICENSEGUARD_ENFORCEMENT_CHECKIN_THROTTLE", "30m")

	cfg, err := Load("production")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Enforcement.RateLimit.MaxFailures)
	assert.Equal(t, 30*time.Minute, cfg.Enforcement.CheckinThrottle)
	assert.Equal(t, "production", cfg.Server.Mode)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LICENSEGUARD_ENFORCEMENT_RATE_LIMIT_BACKEND", "memcached")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memcached")
}
