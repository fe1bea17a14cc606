package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/shared/config"
)

func TestNewManager_StrategySelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"sqlite", config.DatabaseConfig{Driver: config.DriverSQLite, MigrationTool: config.MigrationToolGoose}, "gorm_auto_migrate"},
		{"mysql default", config.DatabaseConfig{Driver: config.DriverMySQL, MigrationTool: config.MigrationToolGolangMigrate}, "golang_migrate"},
		{"mysql goose", config.DatabaseConfig{Driver: config.DriverMySQL, MigrationTool: config.MigrationToolGoose}, "goose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewManager(&tt.cfg).StrategyName())
		})
	}
}

func TestManager_AutoMigrateSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	m := NewManager(&config.DatabaseConfig{Driver: config.DriverSQLite})

	status, err := m.Status(db)
	require.NoError(t, err)
	assert.Contains(t, status, "4 of 4 tables missing")

	require.NoError(t, m.Up(db))
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	status, err = m.Status(db)
	require.NoError(t, err)
	assert.Equal(t, "auto-migrate: schema present", status)

	assert.ErrorIs(t, m.Force(db, 1), ErrUnsupported)
	assert.ErrorIs(t, m.Down(db, 1), ErrUnsupported)
	assert.Error(t, m.Down(db, 0))
}

func TestEmbeddedScripts(t *testing.T) {
	entries, err := fs.ReadDir(scriptsFS, mysqlScriptsDir)
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
			down := strings.TrimSuffix(e.Name(), ".up.sql") + ".down.sql"
			_, err := fs.Stat(scriptsFS, mysqlScriptsDir+"/"+down)
			assert.NoError(t, err, "missing down script for %s", e.Name())
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	gooseEntries, err := fs.ReadDir(scriptsFS, gooseScriptsDir)
	require.NoError(t, err)
	require.Len(t, gooseEntries, ups)
	for _, e := range gooseEntries {
		raw, err := fs.ReadFile(scriptsFS, gooseScriptsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(raw), "-- +goose Up")
		assert.Contains(t, string(raw), "-- +goose Down")
	}
}

func TestEmbeddedScripts_CoverEveryTable(t *testing.T) {
	raw, err := fs.ReadFile(scriptsFS, mysqlScriptsDir+"/000001_create_license_tables.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"licenses", "device_registrations", "license_violations", "license_audit_logs"} {
		assert.Contains(t, string(raw), "`"+table+"`")
	}
	assert.Contains(t, string(raw), "UNIQUE KEY `uk_device_active_slot` (`tenant_id`, `active_slot`)")
}
