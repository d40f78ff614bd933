package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/config"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/adapters/payloadfile"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/adapters/qrcode"
	redisadapter "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/adapters/redis"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/adapters/svgdoc"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/data"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/observability/statsd"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/service"
)

// App holds the wired pipeline and the infrastructure it owns.
type App struct {
	Controller *service.Controller
	Document   *svgdoc.Document
	// History is nil when run history is disabled.
	History core.RunRepository

	db      *sql.DB
	redis   redis.UniversalClient
	metrics *statsd.Client
	logger  *slog.Logger
}

// AppDeps groups the inputs of NewApp. DB and Redis are optional and only
// consulted when enabled in Config.
type AppDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// NewApp wires the pipeline. It takes ownership of the given DB and Redis
// clients; Close releases them.
func NewApp(deps AppDeps) (*App, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{
		Document: svgdoc.New(svgdoc.WithName(cfg.Render.Output)),
		db:       deps.DB,
		redis:    deps.Redis,
		metrics:  buildMetrics(logger, cfg.Observability.Metrics),
		logger:   logger,
	}

	var sink statsd.Sink
	if app.metrics != nil {
		sink = app.metrics
	}

	composer, err := badge.NewComposer(badge.ComposerOptions{
		Encoder: qrcode.NewGenerator(qrcode.Options{}),
		Font:    cfg.Render.LabelFont,
	})
	if err != nil {
		return nil, err
	}
	orch, err := service.NewBatchOrchestrator(service.BatchOrchestratorOptions{
		Composer: composer,
		Placer:   service.NewPlacer(service.PlacerOptions{TempDir: cfg.Render.TempDir, Logger: logger}),
		Metrics:  sink,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}
	reader, err := payloadfile.NewReader(payloadfile.Options{Query: cfg.Render.PayloadQuery})
	if err != nil {
		return nil, fmt.Errorf("create payload reader: %w", err)
	}

	opts := service.ControllerOptions{
		Orchestrator: orch,
		Reader:       reader,
		Document:     app.Document,
		LockTTL:      cfg.Redis.LockTTL,
		Logger:       logger,
	}
	// Optional ports stay nil interfaces unless their backend is present.
	if cfg.Postgres.Enabled && deps.DB != nil {
		repo := data.NewRunRepo(deps.DB, nil)
		app.History = repo
		opts.History = repo
	}
	if cfg.Redis.Enabled && deps.Redis != nil {
		opts.Lock = redisadapter.NewRunLockWithPrefix(deps.Redis, cfg.Redis.LockPrefix)
	}

	app.Controller, err = service.NewController(opts)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	return app, nil
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// Open connects the enabled infrastructure, applies migrations when
// configured, and wires the App.
func Open(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	var (
		db          *sql.DB
		redisClient redis.UniversalClient
		err         error
	)
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	if cfg.Postgres.Enabled {
		if db, err = ConnectDB(dbCfg); err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if cfg.Postgres.RunMigrationsOnStart {
			if err = RunMigrations(ctx, db, logger); err != nil {
				return nil, errors.Join(err, db.Close())
			}
		}
	}
	if cfg.Redis.Enabled {
		if redisClient, err = ConnectRedis(dbCfg); err != nil {
			err = fmt.Errorf("connect redis: %w", err)
			if db != nil {
				err = errors.Join(err, db.Close())
			}
			return nil, err
		}
	}

	app, err := NewApp(AppDeps{Config: cfg, DB: db, Redis: redisClient, Logger: logger})
	if err != nil {
		return nil, errors.Join(err, closeAll(db, redisClient, nil))
	}
	return app, nil
}

// Close releases the infrastructure owned by the App.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return closeAll(a.db, a.redis, a.metrics)
}

func closeAll(db *sql.DB, redisClient redis.UniversalClient, metrics *statsd.Client) error {
	var errs []error
	if db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}
