// Package worker runs the budget check on a fixed interval.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Checker performs one budget check at the given local time.
type Checker interface {
	RunOnce(ctx context.Context, now time.Time) (bool, error)
}

// Runner invokes the checker immediately on start and then on every tick
// until the context is cancelled. Calendar math is done in the configured
// location so month boundaries match the user's clock.
type Runner struct {
	checker  Checker
	interval time.Duration
	location *time.Location
}

func NewRunner(checker Checker, interval time.Duration, location *time.Location) *Runner {
	if location == nil {
		location = time.Local
	}
	return &Runner{
		checker:  checker,
		interval: interval,
		location: location,
	}
}

// Run blocks until ctx is cancelled. A failed check is logged and the
// loop keeps going; transient provider errors should not kill the worker.
func (r *Runner) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Budget check loop started",
		"interval", r.interval,
		"timezone", r.location.String())

	r.check(ctx, time.Now().In(r.location))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Budget check loop stopping", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			r.check(ctx, now.In(r.location))
		}
	}
}

func (r *Runner) check(ctx context.Context, now time.Time) {
	sent, err := r.checker.RunOnce(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Budget check failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Budget check complete",
		"notified", sent,
		"next_check", now.Add(r.interval).Format("15:04:05"))
}
