package config

import (
	"strings"
	"time"
)

const defaultLockTTL = 30 * time.Minute

// DBConfig contains PostgreSQL configuration for run history.
type DBConfig struct {
	// Enabled turns run history on. Without it runs are not recorded.
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"qrbadge"`
	Password string `env:"PASSWORD" envDefault:"qrbadge"`
	Name     string `env:"NAME"     envDefault:"qrbadge"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart applies migrations before the first run is recorded.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize normalises database settings.
func (c *DBConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Port <= 0 {
		c.Port = 5432
	}
	if c.SSLMode = strings.TrimSpace(c.SSLMode); c.SSLMode == "" {
		c.SSLMode = "disable"
	}
}

// RedisConfig contains Redis configuration for the cross-process document lock.
// URI names a standalone server unless UseSentinel selects a sentinel group.
type RedisConfig struct {
	Enabled            bool          `env:"ENABLED"              envDefault:"false"`
	URI                string        `env:"URI"                  envDefault:"localhost:6379"`
	Password           string        `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string      `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	LockTTL            time.Duration `env:"LOCK_TTL"             envDefault:"30m"`
	LockPrefix         string        `env:"LOCK_PREFIX"          envDefault:"qrbadge:lock:"`
}

// Sanitize normalises Redis settings.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.LockTTL <= 0 {
		c.LockTTL = defaultLockTTL
	}
	if strings.TrimSpace(c.LockPrefix) == "" {
		c.LockPrefix = "qrbadge:lock:"
	}
}
