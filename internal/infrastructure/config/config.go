package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "licenseguard/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Enforcement sharedConfig.EnforcementConfig `mapstructure:"enforcement"`
	Metrics     sharedConfig.MetricsConfig     `mapstructure:"metrics"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (when present) and LICENSEGUARD_* environment
// overrides on top of the defaults.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("LICENSEGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	rl := c.Enforcement.RateLimit
	if rl.MaxFailures <= 0 {
		return fmt.Errorf("enforcement.rate_limit.max_failures must be positive, got %d", rl.MaxFailures)
	}
	if rl.BlockDuration <= 0 {
		return fmt.Errorf("enforcement.rate_limit.block_duration must be positive, got %s", rl.BlockDuration)
	}
	switch rl.Backend {
	case sharedConfig.RateLimitBackendMemory, sharedConfig.RateLimitBackendRedis:
	default:
		return fmt.Errorf("unknown enforcement.rate_limit.backend %q", rl.Backend)
	}
	switch c.Database.Driver {
	case sharedConfig.DriverMySQL, sharedConfig.DriverSQLite:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	switch c.Database.MigrationTool {
	case sharedConfig.MigrationToolGolangMigrate, sharedConfig.MigrationToolGoose:
	default:
		return fmt.Errorf("unknown database.migration_tool %q", c.Database.MigrationTool)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", sharedConfig.DriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "licenseguard_dev")
	v.SetDefault("database.sqlite_path", "licenseguard.db")
	v.SetDefault("database.migration_tool", sharedConfig.MigrationToolGolangMigrate)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "licenseguard")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)
	v.SetDefault("auth.access_token_cookie", "access_token")
	v.SetDefault("auth.cookie.domain", "")
	v.SetDefault("auth.cookie.path", "/")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("enforcement.rate_limit.backend", sharedConfig.RateLimitBackendMemory)
	v.SetDefault("enforcement.rate_limit.max_failures", 5)
	v.SetDefault("enforcement.rate_limit.block_duration", "60m")
	v.SetDefault("enforcement.rate_limit.sweep_interval", "1h")
	v.SetDefault("enforcement.rate_limit.key_prefix", "licenseguard:ratelimit:")
	v.SetDefault("enforcement.checkin_throttle", "1h")
	v.SetDefault("enforcement.device_seen_throttle", "5m")
	v.SetDefault("enforcement.trust_remote_addr", true)
	v.SetDefault("enforcement.not_found_as_forbidden", false)
	v.SetDefault("enforcement.device_cookie_name", "lg_device_id")
	v.SetDefault("enforcement.device_cookie_max_age", 365*24*60*60)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "licenseguard")
}
