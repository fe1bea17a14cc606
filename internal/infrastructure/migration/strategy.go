package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"licenseguard/internal/infrastructure/persistence/models"
	"licenseguard/internal/shared/logger"
)

// ErrUnsupported is returned by strategies that have no version history.
var ErrUnsupported = errors.New("operation not supported by this migration strategy")

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Migrate(db *gorm.DB) error
	MigrateDown(db *gorm.DB, steps int) error
	Force(db *gorm.DB, version int) error
	// Status returns a one-line summary of the applied version.
	Status(db *gorm.DB) (string, error)
	GetName() string
}

// GormAutoMigrateStrategy syncs the schema from the gorm models. It is used
// for SQLite development databases and tests.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	all := models.All()
	s.logger.Infow("starting gorm auto migration", "models_count", len(all))

	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) MigrateDown(_ *gorm.DB, _ int) error {
	return ErrUnsupported
}

func (s *GormAutoMigrateStrategy) Force(_ *gorm.DB, _ int) error {
	return ErrUnsupported
}

func (s *GormAutoMigrateStrategy) Status(db *gorm.DB) (string, error) {
	missing := 0
	for _, m := range models.All() {
		if !db.Migrator().HasTable(m) {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Sprintf("auto-migrate: %d of %d tables missing", missing, len(models.All())), nil
	}
	return "auto-migrate: schema present", nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// GolangMigrateStrategy applies the embedded MySQL scripts with
// golang-migrate. It opens its own connection from databaseURL because the
// scripts need multiStatements.
type GolangMigrateStrategy struct {
	databaseURL string
	logger      logger.Interface
}

func NewGolangMigrateStrategy(databaseURL string) Strategy {
	return &GolangMigrateStrategy{
		databaseURL: databaseURL,
		logger:      logger.NewLogger().With("component", "migration.golang-migrate"),
	}
}

func (s *GolangMigrateStrategy) createMigrateInstance() (*migrate.Migrate, error) {
	src, err := iofs.New(scriptsFS, mysqlScriptsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded scripts: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, s.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func (s *GolangMigrateStrategy) Migrate(_ *gorm.DB) error {
	m, err := s.createMigrateInstance()
	if err != nil {
		return err
	}
	defer m.Close()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		s.logger.Warnw("database is in dirty state, run migrate force after fixing it")
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GolangMigrateStrategy) MigrateDown(_ *gorm.DB, steps int) error {
	m, err := s.createMigrateInstance()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("failed to run down migrations: %w", err)
	}

	s.logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func (s *GolangMigrateStrategy) Force(_ *gorm.DB, version int) error {
	m, err := s.createMigrateInstance()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}

	s.logger.Infow("force migration completed successfully", "version", version)
	return nil
}

func (s *GolangMigrateStrategy) Status(_ *gorm.DB) (string, error) {
	m, err := s.createMigrateInstance()
	if err != nil {
		return "", err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return "golang-migrate: no migrations applied", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return fmt.Sprintf("golang-migrate: version %d (dirty=%t)", version, dirty), nil
}

func (s *GolangMigrateStrategy) GetName() string {
	return "golang_migrate"
}

// GooseStrategy applies the embedded goose scripts through the gorm pool.
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy() Strategy {
	goose.SetBaseFS(scriptsFS)
	return &GooseStrategy{
		logger: logger.NewLogger().With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, gooseScriptsDir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}
	s.logger.Infow("migration completed successfully", "to_version", version)
	return nil
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, gooseScriptsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func (s *GooseStrategy) Force(_ *gorm.DB, _ int) error {
	return ErrUnsupported
}

func (s *GooseStrategy) Status(db *gorm.DB) (string, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return "", fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// goose prints the per-file table through its own logger
	if err := goose.Status(sqlDB, gooseScriptsDir); err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return fmt.Sprintf("goose: version %d", version), nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}
