package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Mallowslabby/shopee/internal/catalog"
	"github.com/Mallowslabby/shopee/internal/config"
	"github.com/Mallowslabby/shopee/internal/event"
	handler "github.com/Mallowslabby/shopee/internal/handler/http"
	redissession "github.com/Mallowslabby/shopee/internal/session/redis"
	postgresstore "github.com/Mallowslabby/shopee/internal/storage/postgres"
	"github.com/Mallowslabby/shopee/internal/wishlist"
	"github.com/Mallowslabby/shopee/pkg/database"
	"github.com/Mallowslabby/shopee/pkg/health"
	"github.com/Mallowslabby/shopee/pkg/httpclient"
	pkgkafka "github.com/Mallowslabby/shopee/pkg/kafka"
	"github.com/Mallowslabby/shopee/pkg/tracing"
)

// App wires together all dependencies and runs the wishlist service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	pool            *pgxpool.Pool
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	var tracingShutdown func(context.Context) error
	if cfg.TracingEnabled {
		tracingCfg := tracing.DefaultConfig("wishlist")
		tracingCfg.Environment = cfg.Environment
		tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
		tracingCfg.SampleRate = cfg.TracingSampleRate
		tracingCfg.Enabled = true

		shutdown, err := tracing.InitTracer(ctx, tracingCfg)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		tracingShutdown = shutdown
		logger.Info("tracing initialized", slog.String("endpoint", cfg.TracingEndpoint))
	}

	// Redis client for session-scoped wishlist content.
	redisCfg := cfg.Redis()
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", redisCfg.DB),
	)

	// Postgres pool for the durable wishlist store.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, postgresstore.Migrations(), logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, "wishlist")

	// Kafka producer for wishlist events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	repo := postgresstore.NewRepository(pool, cfg.StoreTable)
	notifier := event.NewKafkaNotifier(producer, logger)
	registry := wishlist.NewModelRegistry(cfg.ModelTypes...)
	managerCfg := wishlist.Config{
		DefaultTaxRate: cfg.TaxRate(),
		Format:         cfg.NumberFormat(),
	}
	sessionTTL := cfg.SessionTTL()

	factory := func(sessionID string) *wishlist.Manager {
		sess := redissession.New(rdb, sessionID, sessionTTL)
		return wishlist.NewManager(sess, repo, notifier, registry, managerCfg, logger, sessionID)
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, httpclient.DefaultConfig(), logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	wishlistHandler := handler.NewWishlistHandler(factory, catalogClient, logger)
	router := handler.NewRouter(wishlistHandler, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		pool:            pool,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
