package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/config"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for the run history database and the
// document lock store.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// postgresDSN builds the connection URL, escaping credentials.
func postgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectDB opens the run history database and verifies it answers.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", postgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open run history database: %w", err)
	}

	// One run writes at a time; the pool only needs headroom for listing.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, closeErr)
		}
		return nil, fmt.Errorf("ping run history database %s: %w", cfg.DBConfig.Host, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("run history database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}
	return db, nil
}

// ConnectRedis connects the document lock store. The lock lives under a single
// key, so a standalone server is enough; a sentinel group is supported so the
// lock survives a primary failover.
//
//nolint:ireturn // standalone and sentinel clients share redis.UniversalClient.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, err := lockStoreOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, closeErr)
		}
		return nil, fmt.Errorf("ping document lock store %s: %w", lockStoreAddr(opts), pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("document lock store connected",
			"addr", lockStoreAddr(opts),
			"prefix", cfg.RedisConfig.LockPrefix,
		)
	}
	return client, nil
}

// lockStoreOptions maps RedisConfig onto client options. With UseSentinel the
// options name a master group; otherwise URI is a redis:// URL or host:port.
func lockStoreOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	if cfg.UseSentinel {
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, errors.New("document lock store: sentinel mode requires at least one sentinel node")
		}
		if strings.TrimSpace(cfg.SentinelMasterName) == "" {
			return nil, errors.New("document lock store: sentinel mode requires a master name")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, nil
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("document lock store requires REDIS_URI")
	}
	if !isRedisURL(uri) {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password}, nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse document lock store url: %w", err)
	}
	opts := &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}
	if opts.Password == "" {
		opts.Password = cfg.Password
	}
	return opts, nil
}

// lockStoreAddr describes the store for logs without credentials.
func lockStoreAddr(opts *redis.UniversalOptions) string {
	addrs := strings.Join(opts.Addrs, ",")
	if opts.MasterName != "" {
		return "sentinel:" + opts.MasterName + "@" + addrs
	}
	return addrs
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// RunMigrations brings the run history schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("migrate run history schema: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "run history schema up to date")
	}

	return nil
}
