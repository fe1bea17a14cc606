package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	MigrationToolGolangMigrate = "golang-migrate"
	MigrationToolGoose         = "goose"
)

type DatabaseConfig struct {
	// Driver is "mysql" (default) or "sqlite" for local development.
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	Database   string `mapstructure:"database"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// MigrationTool is "golang-migrate" (default) or "goose". SQLite always
	// uses gorm AutoMigrate.
	MigrationTool   string `mapstructure:"migration_tool"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// GetMigrateURL returns the MySQL DSN in the form golang-migrate expects.
func (d *DatabaseConfig) GetMigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?multiStatements=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	// AccessExpMinutes only affects tokens minted by the dev "token" command.
	AccessExpMinutes int `mapstructure:"access_exp_minutes"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type AuthConfig struct {
	JWT    JWTConfig    `mapstructure:"jwt"`
	Cookie CookieConfig `mapstructure:"cookie"`
	// AccessTokenCookie is the cookie name checked before the Authorization header.
	AccessTokenCookie string `mapstructure:"access_token_cookie"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type RateLimitConfig struct {
	// Backend selects the failure store: "memory" is per instance, "redis" is shared.
	Backend       string        `mapstructure:"backend"`
	MaxFailures   int           `mapstructure:"max_failures"`
	BlockDuration time.Duration `mapstructure:"block_duration"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

type EnforcementConfig struct {
	RateLimit          RateLimitConfig `mapstructure:"rate_limit"`
	CheckinThrottle    time.Duration   `mapstructure:"checkin_throttle"`
	DeviceSeenThrottle time.Duration   `mapstructure:"device_seen_throttle"`
	// TrustRemoteAddr lets the middleware fall back to the TCP peer address
	// when no proxy header yields a public IP.
	TrustRemoteAddr bool `mapstructure:"trust_remote_addr"`
	// NotFoundAsForbidden reports a missing license as 403 instead of 404.
	NotFoundAsForbidden bool `mapstructure:"not_found_as_forbidden"`
	// RoutePolicyFile overrides the embedded read-only route policy.
	RoutePolicyFile string `mapstructure:"route_policy_file"`
	// PermissionModelFile overrides the embedded casbin model.
	PermissionModelFile string `mapstructure:"permission_model_file"`
	DeviceCookieName    string `mapstructure:"device_cookie_name"`
	DeviceCookieMaxAge  int    `mapstructure:"device_cookie_max_age"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}
