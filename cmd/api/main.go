package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	"docvault/internal/events"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/logging"
	"docvault/internal/otel"
	"docvault/internal/repository"
	"docvault/internal/repository/memory"
	"docvault/internal/repository/postgres"
	"docvault/internal/resilience"
	"docvault/internal/service"
	"docvault/internal/storage"
	"docvault/internal/thumbnail"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	loc := logging.LoadLocation(cfg.Timezone)
	logger := logging.NewJSONLogger("docvault", cfg.LogLevel, loc)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	db, docRepo, wsRepo, err := openRecordStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	exec := resilience.NewExecutor(resilienceConfig(cfg.Resilience), logger)
	byteStore, err := openByteStore(cfg.Storage)
	if err != nil {
		return err
	}
	byteStore = storage.NewResilient(byteStore, exec)

	opts := []service.Option{service.WithLogger(logger)}
	if cfg.Thumbnail.CacheDir != "" {
		cache, err := thumbnail.NewCache(cfg.Thumbnail.CacheDir)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithThumbnailCache(cache))
	}
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, events.NATSOptions{
			Executor: exec,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, service.WithEvents(pub))
	}

	docSvc := service.NewDocumentService(byteStore, docRepo, opts...)
	wsSvc := service.NewWorkspaceService(wsRepo, docRepo, byteStore, opts...)

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(metrics.Handler())

	deps := handlers.Deps{
		Documents:       docSvc,
		Workspaces:      wsSvc,
		PrincipalHeader: cfg.Auth.PrincipalHeader,
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:         promhttp.Handler(),
	}
	// DB stays nil for the in-memory store; /health then reports healthy.
	if db != nil {
		deps.DB = db
	}
	handlers.RegisterRoutes(app, deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start",
			slog.String("addr", ":"+cfg.Port),
			slog.String("record_store", cfg.RecordStore),
			slog.String("storage_backend", cfg.Storage.Backend),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

func openRecordStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, repository.DocumentRepository, repository.WorkspaceRepository, error) {
	switch cfg.RecordStore {
	case "memory":
		logger.Warn("record_store_in_memory", slog.String("reason", "records are lost on restart"))
		return nil, memory.NewDocumentStore(), memory.NewWorkspaceStore(), nil
	case "postgres", "":
		db, err := database.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return db, postgres.NewDocumentPostgres(db), postgres.NewWorkspacePostgres(db), nil
	default:
		return nil, nil, nil, errors.New("unknown record store: " + cfg.RecordStore)
	}
}

func openByteStore(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Backend {
	case "local":
		return storage.NewLocal(cfg.LocalPath)
	case "minio", "":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, errors.New("unknown storage backend: " + cfg.Backend)
	}
}

func resilienceConfig(c config.ResilienceConfig) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = c.RetryMaxAttempts
	rc.RetryInitialBackoff = time.Duration(c.RetryInitialBackoffMS) * time.Millisecond
	rc.RetryMaxBackoff = time.Duration(c.RetryMaxBackoffMS) * time.Millisecond
	rc.BreakerEnabled = c.BreakerEnabled
	rc.BreakerOpenTimeout = time.Duration(c.BreakerOpenTimeoutSec) * time.Second
	return rc
}
