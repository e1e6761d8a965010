package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakdownOptions carries the per-run knobs for row building. The zero
// value is not useful; use DefaultBreakdownOptions as a starting point.
type BreakdownOptions struct {
	SoftWarnThreshold decimal.Decimal
	PacingEnabled     bool
	Thresholds        PacingThresholds
}

// DefaultBreakdownOptions returns the documented defaults with pacing
// enabled.
func DefaultBreakdownOptions() BreakdownOptions {
	return BreakdownOptions{
		SoftWarnThreshold: DefaultSoftWarnThreshold,
		PacingEnabled:     true,
		Thresholds:        DefaultPacingThresholds(),
	}
}

// CategoryRow is one decision-ready output record per selected category.
// All monetary fields are converted decimals; the renderer must not
// re-derive any status or pacing decision from them.
type CategoryRow struct {
	ID        string
	Group     string
	Name      string
	Budgeted  decimal.Decimal
	Activity  decimal.Decimal
	Available decimal.Decimal
	// Weekly is floor(available / weeks remaining) to cents.
	Weekly decimal.Decimal
	// AvailabilityStatus reflects the balance alone; Status additionally
	// folds in pacing.
	AvailabilityStatus Status
	AvailabilityIcon   string
	Status             Status
	StatusIcon         string
	Monitor            bool
	Pacing             PacingResult
	PacingIcon         string
}

// Breakdown is the full per-run output consumed by the renderer.
type Breakdown struct {
	Rows           []CategoryRow
	DaysRemaining  int
	WeeksRemaining decimal.Decimal
}

// BuildBreakdown computes one row per selected category, in selection
// order. Monitor defaults to true for ids absent from the monitor map
// (including a nil map). When pacing is disabled every row carries the
// neutral no-target pacing result rather than omitting the fields.
func BuildBreakdown(selected []Category, monitor map[string]bool, today time.Time, opts BreakdownOptions) Breakdown {
	days, weeks := DaysAndWeeksRemaining(today)
	elapsed := ElapsedFraction(today)

	rows := make([]CategoryRow, 0, len(selected))
	for _, c := range selected {
		budgeted := MilliunitsToDecimal(c.Budgeted)
		activity := MilliunitsToDecimal(c.Activity)
		available := MilliunitsToDecimal(c.Available)

		pacing := NoTargetPacing()
		if opts.PacingEnabled {
			pacing = ComputePacing(budgeted, activity, elapsed, opts.Thresholds)
		}

		availStatus := StatusForAvailable(available, opts.SoftWarnThreshold)
		combined := CombinedStatus(available, pacing.Status)

		monitored, ok := monitor[c.ID]
		if !ok {
			monitored = true
		}

		rows = append(rows, CategoryRow{
			ID:                 c.ID,
			Group:              c.GroupName,
			Name:               c.Name,
			Budgeted:           budgeted,
			Activity:           activity,
			Available:          available,
			Weekly:             WeeklyAllowance(available, days),
			AvailabilityStatus: availStatus,
			AvailabilityIcon:   availStatus.Icon(),
			Status:             combined,
			StatusIcon:         combined.Icon(),
			Monitor:            monitored,
			Pacing:             pacing,
			PacingIcon:         pacing.Status.Icon(),
		})
	}

	return Breakdown{
		Rows:           rows,
		DaysRemaining:  days,
		WeeksRemaining: weeks,
	}
}
