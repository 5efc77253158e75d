package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/database"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/logging"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/seed"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/server"
	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.IsProduction() && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required in production")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Seed data
	if cfg.SeedFile != "" {
		file, err := seed.Load(cfg.SeedFile)
		if err != nil {
			slog.Error("seed load failed", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		_, err = seed.Apply(ctx, db, file, cfg.BcryptCost)
		cancel()
		if err != nil {
			slog.Error("seed apply failed", "error", err)
			os.Exit(1)
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Shared limiter counters when Redis is configured
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		store, err := ratelimit.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			slog.Error("redis unavailable, rate limits stay in memory", "error", err)
		} else {
			limiterStorage = store
			defer store.Close()
		}
	}

	app := server.New(cfg, db, metrics.New(), server.Options{
		LimiterStorage: limiterStorage,
		AccessLog:      true,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
