// Package migration applies the licenseguard schema. MySQL deployments use
// versioned SQL scripts; SQLite development databases use gorm AutoMigrate.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"licenseguard/internal/shared/config"
	"licenseguard/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for the configured driver and tool.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	var strategy Strategy
	switch {
	case cfg.Driver == config.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy()
	case cfg.MigrationTool == config.MigrationToolGoose:
		strategy = NewGooseStrategy()
	default:
		strategy = NewGolangMigrateStrategy(cfg.GetMigrateURL())
	}
	return NewManagerWithStrategy(strategy)
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	return m.strategy.MigrateDown(db, steps)
}

func (m *Manager) Force(db *gorm.DB, version int) error {
	return m.strategy.Force(db, version)
}

func (m *Manager) Status(db *gorm.DB) (string, error) {
	return m.strategy.Status(db)
}

func (m *Manager) StrategyName() string {
	return m.strategy.GetName()
}
