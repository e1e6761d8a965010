// Package services coordinates one budget check from fetch to delivery.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetwatch/internal/core"
	"budgetwatch/internal/notify"
	"budgetwatch/internal/report"
)

// CategorySource fetches budgets and categories from the budget provider.
type CategorySource interface {
	GetBudgetByName(ctx context.Context, name string) (core.Budget, error)
	GetCategories(ctx context.Context, budgetID string, includeHidden bool) ([]core.Category, error)
}

// RunState remembers which budget snapshot was last notified.
type RunState interface {
	LastModified(ctx context.Context, budgetID string) (time.Time, bool, error)
	MarkNotified(ctx context.Context, budgetID, subject string, lastModified, notifiedAt time.Time) error
}

// NotifierConfig holds the per-run settings of the notifier.
type NotifierConfig struct {
	// BudgetName is the display name of the budget to check.
	BudgetName string

	// Watchlist selects which category groups and categories to report on.
	Watchlist core.Watchlist

	// IncludeHidden also considers hidden categories when selecting.
	IncludeHidden bool

	// Breakdown controls thresholds and pacing for the report rows.
	Breakdown core.BreakdownOptions

	// Force sends a notification even when the budget is unchanged.
	Force bool
}

// Notifier runs the budget check: fetch categories, select the watched
// ones, build the breakdown, render it and hand it to the sender. A run
// is skipped when the budget has not changed since the last notification.
type Notifier struct {
	source CategorySource
	state  RunState
	sender notify.Sender
	config NotifierConfig
}

func NewNotifier(source CategorySource, state RunState, sender notify.Sender, config NotifierConfig) *Notifier {
	return &Notifier{
		source: source,
		state:  state,
		sender: sender,
		config: config,
	}
}

// RunOnce performs a single check at the given time. It returns true when
// a notification was sent.
func (n *Notifier) RunOnce(ctx context.Context, now time.Time) (bool, error) {
	budget, err := n.source.GetBudgetByName(ctx, n.config.BudgetName)
	if err != nil {
		return false, fmt.Errorf("look up budget %q: %w", n.config.BudgetName, err)
	}

	var (
		categories []core.Category
		lastSeen   time.Time
		seen       bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = n.source.GetCategories(gctx, budget.ID, n.config.IncludeHidden)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lastSeen, seen, err = n.state.LastModified(gctx, budget.ID)
		if err != nil {
			return fmt.Errorf("read run state: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	unchanged := seen && !budget.LastModifiedOn.IsZero() && !budget.LastModifiedOn.After(lastSeen)
	if unchanged && !n.config.Force {
		slog.InfoContext(ctx, "Budget unchanged since last notification, skipping",
			"budget", budget.Name,
			"last_modified", budget.LastModifiedOn)
		return false, nil
	}

	selection := core.Select(categories, n.config.Watchlist)
	if len(selection.Categories) == 0 {
		slog.WarnContext(ctx, "Watchlist selected no categories, skipping notification",
			"budget", budget.Name,
			"categories_fetched", len(categories))
		return false, nil
	}

	breakdown := core.BuildBreakdown(selection.Categories, selection.Monitor, now, n.config.Breakdown)

	text, html, err := report.Render(breakdown, now)
	if err != nil {
		return false, fmt.Errorf("render report: %w", err)
	}
	subject := report.Subject(now)

	if err := n.sender.Send(ctx, notify.Notification{
		BudgetID: budget.ID,
		Subject:  subject,
		Text:     text,
		HTML:     html,
	}); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	if err := n.state.MarkNotified(ctx, budget.ID, subject, budget.LastModifiedOn, now); err != nil {
		// The notification went out; losing the marker only risks a
		// duplicate on the next run.
		slog.WarnContext(ctx, "Failed to record notification",
			"budget", budget.Name,
			"error", err)
	}

	slog.InfoContext(ctx, "Sent budget notification",
		"budget", budget.Name,
		"subject", subject,
		"categories", len(selection.Categories),
		"days_remaining", breakdown.DaysRemaining)

	return true, nil
}
