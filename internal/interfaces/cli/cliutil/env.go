// Package cliutil holds the start-up steps every licenseguard command shares.
package cliutil

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"licenseguard/internal/infrastructure/config"
	"licenseguard/internal/infrastructure/database"
	"licenseguard/internal/shared/logger"
)

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagValue string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flagValue
}

// MapEnvToGinMode translates deployment environment names to gin modes.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Init loads configuration and the process logger.
func Init(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(MapEnvToGinMode(env))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// InitWithDatabase is Init plus the process-wide database connection. The
// returned cleanup closes the connection.
func InitWithDatabase(env string) (*config.Config, logger.Interface, *gorm.DB, func(), error) {
	cfg, log, err := Init(env)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		if err := database.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}
	return cfg, log, database.Get(), cleanup, nil
}
