// Package core contains the category selection and pacing computation
// engine: pure functions that turn a snapshot of budget categories plus a
// user watchlist into enriched, decision-ready rows. Nothing in this
// package performs I/O beyond warning logs for unmatched watchlist
// entries; all inputs are passed in explicitly and outputs are freshly
// allocated, so calls are independent and safe to run concurrently.
package core

import (
	"time"
)

type (
	// Milliunits is the integer currency representation used by the
	// budget source: 1000 milliunits = one major currency unit.
	Milliunits int64

	// Budget identifies one budget at the source, along with the
	// last-modified timestamp used for the send-once-per-change decision.
	Budget struct {
		ID             string
		Name           string
		LastModifiedOn time.Time
	}

	// Category is an immutable snapshot of one budget category as fetched
	// from the source. Monetary fields are milliunits; Activity is
	// negative for spending.
	Category struct {
		ID        string
		Name      string
		GroupID   string
		GroupName string
		Hidden    bool
		Deleted   bool
		Budgeted  Milliunits
		Activity  Milliunits
		Available Milliunits
	}
)
