package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/facturador/internal/api"
	"github.com/Harshitk-cp/facturador/internal/buildconfig"
	"github.com/Harshitk-cp/facturador/internal/config"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/Harshitk-cp/facturador/internal/views"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if config.LogLevel() == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(config.LogLevel()); perr == nil {
			cfg.Level = lvl
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func main() {
	// Config first so LOG_LEVEL from .env applies to the logger.
	cfgErr := config.Load()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	if cfgErr != nil {
		logger.Fatal("failed to load config", zap.Error(cfgErr))
	}

	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	if config.MigrateOnStart() {
		if err := store.Migrate(ctx, pool); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	// View invalidation: always in-process, fanned out over NATS when configured.
	stale := views.NewStaleSet()
	var notifier views.Notifier = stale
	if url := config.NATSURL(); url != "" {
		conn, err := views.Connect(url, logger)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.String("url", url), zap.Error(err))
		}
		defer conn.Close()

		if _, err := views.Subscribe(conn, stale); err != nil {
			logger.Fatal("failed to subscribe to view invalidations", zap.Error(err))
		}
		notifier = views.Multi{stale, views.NewNATSNotifier(conn, logger)}
		logger.Info("view invalidation fan-out enabled", zap.String("subject", views.Subject))
	}

	app := api.NewApp(pool, notifier, logger)
	app.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.String("commit", buildconfig.Commit()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	app.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
