// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package janitor runs the optional scheduled purge of expired credentials.
//
// Expiry is always enforced lazily when a code or session is used; the purge
// only reclaims storage from rows that can no longer be used. It is off unless
// PURGE_SCHEDULE holds a cron expression (for example "@hourly" or "*/15 * * * *").
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// purgeTimeout bounds one purge run.
const purgeTimeout = 30 * time.Second

// Purger removes expired OTP codes and sessions.
type Purger interface {
	PurgeExpired(ctx context.Context) (codes int, sessions int, err error)
}

// Janitor schedules [Purger.PurgeExpired].
type Janitor struct {
	scheduler *cron.Cron
	purger    Purger
	logger    *slog.Logger
}

// New validates schedule and registers the purge job. The job does not run until [Janitor.Start].
func New(schedule string, purger Purger, logger *slog.Logger) (*Janitor, error) {
	janitor := &Janitor{
		scheduler: cron.New(cron.WithLocation(time.UTC)),
		purger:    purger,
		logger:    logger,
	}

	if _, err := janitor.scheduler.AddFunc(schedule, janitor.RunOnce); err != nil {
		return nil, fmt.Errorf("janitor: invalid schedule %q: %w", schedule, err)
	}

	return janitor, nil
}

// Start runs the scheduler in its own goroutine.
func (janitor *Janitor) Start() {
	janitor.scheduler.Start()
	janitor.logger.Info("janitor_started", slog.Int("jobs", len(janitor.scheduler.Entries())))
}

// Stop halts the scheduler and waits for a running purge, up to ctx.
func (janitor *Janitor) Stop(ctx context.Context) {
	select {
	case <-janitor.scheduler.Stop().Done():
	case <-ctx.Done():
		janitor.logger.Warn("janitor_stop_timeout")
	}
}

// RunOnce performs a single purge. Failures are logged; the next tick retries.
func (janitor *Janitor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	codes, sessions, err := janitor.purger.PurgeExpired(ctx)
	if err != nil {
		janitor.logger.Error("janitor_purge_failed", slog.Any("error", err))
		return
	}

	janitor.logger.Info("janitor_purge_completed",
		slog.Int("otp_codes", codes),
		slog.Int("sessions", sessions),
	)
}
