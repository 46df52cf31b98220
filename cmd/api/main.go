// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Libris HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the catalog store (PostgreSQL pool or embedded SQLite file).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis when a search cache is configured.
//  6. Load the staff token verifier when a public key is configured.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/libris/internal/api"
	"github.com/taibuivan/libris/internal/core/search"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/migration"
	pgstore "github.com/taibuivan/libris/internal/platform/postgres"
	redisstore "github.com/taibuivan/libris/internal/platform/redis"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String(constants.FieldVersion, constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String(constants.FieldApp, constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	var checks []api.HealthCheck

	// ── 3-4. Catalog store and migrations ────────────────────────────────
	var stores api.Stores
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		stores = api.PostgresStores(pool)
		checks = append(checks, api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})

	case config.DriverSQLite:
		// Open applies the embedded migrations.
		db, err := sqlite.Open(startupCtx, cfg.SQLitePath, log)
		must(log, err, "open sqlite")
		defer func() {
			log.Info("closing sqlite database")
			if cerr := db.Close(); cerr != nil {
				log.Error("sqlite close error", slog.Any("error", cerr))
			}
		}()

		stores = api.SQLiteStores(db)
		checks = append(checks, api.HealthCheck{Name: "sqlite", Check: func(ctx context.Context) error {
			return sqlite.Ping(ctx, db)
		}})
	}

	// ── 5. Redis search cache (optional) ─────────────────────────────────
	var cache search.Cache
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		cache = search.NewRedisCache(rdb, cfg.SearchCacheTTL)
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	} else {
		log.Info("search_cache_disabled")
	}

	// ── 6. Staff token verifier (optional) ───────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		tokenService, err := sec.NewVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
		must(log, err, "initialize jwt verifier")
		verifier = tokenService
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	services, err := api.NewServices(stores, cache, api.Tuning{
		SearchTolerance:        cfg.SearchTolerance,
		CirculationMaxAttempts: cfg.CirculationMaxAttempts,
	}, log)
	must(log, err, "wire services")

	handlers := services.Handlers()
	handlers.Liveness, handlers.Readiness = api.NewHealthHandlers(checks, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Options{
		Port:     cfg.ServerPort,
		CORS:     cfg,
		Verifier: verifier,
	}, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
