// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler opens and closes elections at their window boundaries.
//
// It is optional: without it elections only change status through the
// administrative endpoint, and admission keeps trusting the stored status.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Advancer applies window boundaries at a point in time. catalog.Catalog
// implements it.
type Advancer interface {
	AdvanceSchedule(ctx context.Context, now time.Time) (opened, closed int64, err error)
}

type Scheduler struct {
	advancer Advancer
	interval time.Duration
	now      func() time.Time
}

func New(advancer Advancer, interval time.Duration) *Scheduler {
	return &Scheduler{advancer: advancer, interval: interval, now: time.Now}
}

// Run advances the schedule once immediately and then every interval until
// ctx is cancelled. Failures are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("election scheduler started", "interval", s.interval)
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("election scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs a single pass.
func (s *Scheduler) Tick(ctx context.Context) {
	opened, closed, err := s.advancer.AdvanceSchedule(ctx, s.now())
	if err != nil {
		slog.Error("failed to advance election schedule", "error", err)
		return
	}
	slog.Debug("election schedule checked", "opened", opened, "closed", closed)
}
