// Package storage persists run state between scheduled runs: the budget
// last-modified timestamp we last notified about, plus a small history of
// sent notifications. This is the only state the service keeps; the
// computation core itself is stateless.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type RunStateRepository struct {
	db *sql.DB
}

func NewRunStateRepository(dbPath string) (*RunStateRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &RunStateRepository{db: db}, nil
}

func (r *RunStateRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LastModified returns the budget last-modified timestamp recorded by the
// most recent notified run, or found=false when the budget has never been
// notified about (the first-run case).
func (r *RunStateRepository) LastModified(ctx context.Context, budgetID string) (lastModified time.Time, found bool, err error) {
	var raw string
	err = r.db.QueryRowContext(ctx,
		`SELECT last_modified FROM run_state WHERE budget_id = ?`, budgetID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query run state: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse stored last-modified %q: %w", raw, err)
	}
	return t, true, nil
}

// MarkNotified records that a notification went out for the given budget
// snapshot, updating the run state and appending to the notification
// history.
func (r *RunStateRepository) MarkNotified(ctx context.Context, budgetID, subject string, lastModified, notifiedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO run_state (budget_id, last_modified, notified_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (budget_id) DO UPDATE SET
		   last_modified = excluded.last_modified,
		   notified_at = excluded.notified_at`,
		budgetID, lastModified.UTC().Format(time.RFC3339Nano), notifiedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert run state: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notifications (budget_id, subject, sent_at) VALUES (?, ?, ?)`,
		budgetID, subject, notifiedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert notification history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run state: %w", err)
	}

	slog.InfoContext(ctx, "Run state recorded",
		"budget_id", budgetID,
		"last_modified", lastModified.UTC().Format(time.RFC3339Nano))
	return nil
}

// NotificationRecord is one row of the sent-notification history.
type NotificationRecord struct {
	ID       int64
	BudgetID string
	Subject  string
	SentAt   time.Time
}

// RecentNotifications returns up to limit history entries, newest first.
func (r *RunStateRepository) RecentNotifications(ctx context.Context, limit int) ([]NotificationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, budget_id, subject, sent_at FROM notifications ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var records []NotificationRecord
	for rows.Next() {
		var rec NotificationRecord
		var sentAt string
		if err := rows.Scan(&rec.ID, &rec.BudgetID, &rec.Subject, &sentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if rec.SentAt, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
			return nil, fmt.Errorf("parse sent-at %q: %w", sentAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
