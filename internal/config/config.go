package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// Session store backends.
const (
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

// SessionConfig contains settings for the browsing session and the
// per-session study queue state.
type SessionConfig struct {
	Secret               string `mapstructure:"secret"                 validate:"required,min=32"`
	CookieName           string `mapstructure:"cookie_name"            validate:"required"`
	LifetimeMinutes      int    `mapstructure:"lifetime_minutes"       validate:"gt=0"`
	Store                string `mapstructure:"store"                  validate:"required,oneof=postgres memory"`
	SecureCookie         bool   `mapstructure:"secure_cookie"`
	SweepIntervalMinutes int    `mapstructure:"sweep_interval_minutes" validate:"gt=0"`
}

// Lifetime returns how long an idle session (and its study queues) is kept.
func (c SessionConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeMinutes) * time.Minute
}

// SweepInterval returns how often stale study queues are removed.
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}
