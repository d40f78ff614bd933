// Package config defines the environment-driven configuration of qrbadge.
package config

import (
	"log/slog"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - render.go: badge rendering and output
//   - database.go: run history database and document lock
//   - observability.go: metrics
//
// The job parameters themselves (file, size, margin, per-row) are not
// configuration; every submission supplies them.
type AppConfig struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Render RenderConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if _, ok := logLevels[c.LogLevel]; !ok {
		c.LogLevel = "info"
	}
	c.Render.Sanitize()
	c.Postgres.Sanitize()
	c.Redis.Sanitize()
	c.Observability.Sanitize()
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level.
func (c *AppConfig) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}
