package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: vars}))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parse(t, map[string]string{})

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	assert.Equal(t, "Source Han Sans CN", cfg.Render.LabelFont)
	assert.Equal(t, os.TempDir(), cfg.Render.TempDir)
	assert.Equal(t, "badges.svg", cfg.Render.Output)
	assert.Empty(t, cfg.Render.PayloadQuery)

	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "qrbadge", cfg.Postgres.Name)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, "qrbadge:lock:", cfg.Redis.LockPrefix)

	assert.False(t, cfg.Observability.Metrics.IsEnabled())
	assert.Equal(t, "qrbadge", cfg.Observability.Metrics.Prefix)
}

func TestAppConfig_FromEnvironment(t *testing.T) {
	cfg := parse(t, map[string]string{
		"LOG_LEVEL":                           "DEBUG",
		"RENDER_LABEL_FONT":                   "Noto Sans",
		"RENDER_OUTPUT":                       "out/page.svg",
		"RENDER_PAYLOAD_QUERY":                " items[].code ",
		"DB_ENABLED":                          "true",
		"DB_HOST":                             "postgres",
		"REDIS_ENABLED":                       "true",
		"REDIS_LOCK_TTL":                      "5m",
		"REDIS_SENTINEL_NODES":                "a:26379,b:26379",
		"OBSERVABILITY_METRICS_ENABLED":       "true",
		"OBSERVABILITY_METRICS_STATSD_ADDRESS": "statsd:8125",
	})

	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "Noto Sans", cfg.Render.LabelFont)
	assert.Equal(t, "out/page.svg", cfg.Render.Output)
	assert.Equal(t, "items[].code", cfg.Render.PayloadQuery)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "postgres", cfg.Postgres.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"a:26379", "b:26379"}, cfg.Redis.SentinelNodes)
	assert.True(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		LogLevel: "verbose",
		Render:   RenderConfig{LabelFont: "  ", Output: " "},
		Postgres: DBConfig{Port: -1},
		Redis:    RedisConfig{LockTTL: -time.Second},
		Observability: ObservabilityConfig{Metrics: ObservabilityMetricsConfig{
			Enabled: true, StatsdAddress: "  ",
		}},
	}
	cfg.Sanitize()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultLabelFont, cfg.Render.LabelFont)
	assert.Equal(t, defaultOutput, cfg.Render.Output)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, defaultLockTTL, cfg.Redis.LockTTL)
	assert.False(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, defaultMetricsPrefix, cfg.Observability.Metrics.Prefix)
}
