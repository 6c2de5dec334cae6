// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the fruit logistics HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the storage driver (JSON document, or PostgreSQL + Redis with migrations).
//  4. Seed the first accounts when SEED_FILE is set and no user exists.
//  5. Wire services and HTTP handlers.
//  6. Start the optional purge schedule.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/fruitlog/internal/activity"
	"github.com/taibuivan/fruitlog/internal/api"
	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/internal/platform/config"
	"github.com/taibuivan/fruitlog/internal/platform/constants"
	"github.com/taibuivan/fruitlog/internal/platform/janitor"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/users/account"
	"github.com/taibuivan/fruitlog/internal/users/auth"
	"github.com/taibuivan/fruitlog/internal/users/seed"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("otp_debug_expose", cfg.OTPDebugExpose),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lifetime context for background workers (rate limiter eviction).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	store, err := openBackend(startupCtx, cfg, log)
	must(log, err, "open storage")
	defer store.close()

	// ── 4. Services ───────────────────────────────────────────────────────
	activityService := activity.NewService(store.activity, log)
	accountService := account.NewService(store.users, log)
	logisticsService := logistics.NewService(store.ledger, activityService, activityService, log)
	authService := auth.NewService(
		store.users,
		store.otps,
		store.sessions,
		sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer),
		auth.NewLogSender(log),
		log,
		auth.Options{ExposeDebugOTP: cfg.OTPDebugExpose},
	)

	// ── 5. Seed ───────────────────────────────────────────────────────────
	if cfg.SeedFile != "" {
		file, err := seed.Load(cfg.SeedFile)
		must(log, err, "load seed file")

		created, err := seed.Apply(startupCtx, accountService, file, log)
		must(log, err, "apply seed file")
		log.Info("seed_applied", slog.Int("created", created))
	}

	// ── 6. Purge Schedule ─────────────────────────────────────────────────
	if cfg.PurgeSchedule != "" {
		purge, err := janitor.New(cfg.PurgeSchedule, authService, log)
		must(log, err, "schedule purge")
		purge.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			purge.Stop(stopCtx)
		}()
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(store.checks, log)

	server := api.NewServer(appCtx, api.Options{Port: cfg.ServerPort, CORS: cfg}, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Sessions:  authService,
		Auth:      auth.NewHandler(authService),
		Users:     account.NewHandler(accountService, activityService),
		Logistics: logistics.NewHandler(logisticsService),
		Activity:  activity.NewHandler(activityService),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger every entry of which carries the app name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
