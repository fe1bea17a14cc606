package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/shared/config"
)

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "licenseguard.db"),
	}

	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	conn := Get()
	require.NotNil(t, conn)
	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	require.NoError(t, Close())
	assert.Nil(t, Get())
	assert.NoError(t, Close())
}

func TestOpen_RejectsBadConfig(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: config.DriverSQLite})
	assert.Error(t, err)

	_, err = Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
