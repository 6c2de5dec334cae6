// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/fruitlog/internal/activity"
	"github.com/taibuivan/fruitlog/internal/api"
	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/internal/platform/config"
	"github.com/taibuivan/fruitlog/internal/platform/document"
	"github.com/taibuivan/fruitlog/internal/platform/migration"
	pgstore "github.com/taibuivan/fruitlog/internal/platform/postgres"
	redisstore "github.com/taibuivan/fruitlog/internal/platform/redis"
	"github.com/taibuivan/fruitlog/internal/users/account"
	"github.com/taibuivan/fruitlog/internal/users/auth"
)

// backend holds the repositories of the selected storage driver.
type backend struct {
	users    account.Repository
	otps     auth.OTPRepository
	sessions auth.SessionRepository
	ledger   logistics.Ledger
	activity activity.Repository

	// checks feed the /ready probe.
	checks []api.Check

	// close releases connections in reverse order of opening.
	close func()
}

// openBackend connects the storage selected by STORAGE_DRIVER.
func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.StorageDriver {
	case config.DriverDocument:
		return openDocument(cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openDocument(cfg *config.Config, log *slog.Logger) (*backend, error) {
	store, err := document.Open(cfg.DataFile, log)
	if err != nil {
		return nil, err
	}

	log.Info("document_store_opened", slog.String("path", store.Path()))

	return &backend{
		users:    account.NewDocumentRepository(store),
		otps:     auth.NewDocumentOTPRepository(store),
		sessions: auth.NewDocumentSessionRepository(store),
		ledger:   logistics.NewDocumentLedger(store),
		activity: activity.NewDocumentRepository(store),
		checks:   []api.Check{{Name: "document", Probe: store.Ping}},
		close:    func() {},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		_ = rdb.Close()
		pool.Close()
		return nil, err
	}

	return &backend{
		users:    account.NewPostgresRepository(pool),
		otps:     auth.NewRedisOTPRepository(rdb),
		sessions: auth.NewRedisSessionRepository(rdb),
		ledger:   logistics.NewPostgresLedger(pool),
		activity: activity.NewPostgresRepository(pool),
		checks: []api.Check{
			{Name: "postgres", Probe: pgstore.Probe(pool)},
			{Name: "redis", Probe: redisstore.Probe(rdb)},
		},
		close: func() {
			log.Info("closing_redis_client")
			if err := rdb.Close(); err != nil {
				log.Error("redis_close_failed", slog.Any("error", err))
			}
			log.Info("closing_postgres_pool")
			pool.Close()
		},
	}, nil
}
