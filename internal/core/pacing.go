package core

import (
	"github.com/shopspring/decimal"
)

// PacingStatus classifies cumulative spend against the time-prorated
// target for the month.
type PacingStatus string

const (
	// PacingNoTarget means the category has no positive budget, so pacing
	// is meaningless.
	PacingNoTarget PacingStatus = "no_target"
	// PacingBehind means spending faster than pace (over the target by
	// more than the upper threshold).
	PacingBehind PacingStatus = "behind"
	// PacingAhead means spending slower than pace; there is room to
	// spend more.
	PacingAhead PacingStatus = "ahead"
	// PacingOnTrack means spend is within the thresholds around target.
	PacingOnTrack PacingStatus = "on_track"
)

// Icon returns the display symbol for the pacing status.
func (s PacingStatus) Icon() string {
	switch s {
	case PacingBehind:
		return "⚠️"
	case PacingAhead:
		return "💰"
	case PacingOnTrack:
		return "✅"
	default:
		return "➖"
	}
}

// Default pacing thresholds: 10% over pace reads as behind, 10% under
// pace reads as ahead.
var (
	DefaultUpperOverPct  = decimal.RequireFromString("0.10")
	DefaultLowerUnderPct = decimal.RequireFromString("0.10")
)

// PacingThresholds carries the configurable tolerance band around the
// prorated target. Zero values are honored as-is; use
// DefaultPacingThresholds for the documented defaults.
type PacingThresholds struct {
	UpperOverPct  decimal.Decimal
	LowerUnderPct decimal.Decimal
}

// DefaultPacingThresholds returns the 10%/10% defaults.
func DefaultPacingThresholds() PacingThresholds {
	return PacingThresholds{
		UpperOverPct:  DefaultUpperOverPct,
		LowerUnderPct: DefaultLowerUnderPct,
	}
}

// PacingResult is the outcome of one pacing computation. DeltaPct is nil
// when the target is zero.
type PacingResult struct {
	Target   decimal.Decimal
	Delta    decimal.Decimal
	DeltaPct *decimal.Decimal
	Status   PacingStatus
}

// NoTargetPacing returns the neutral verdict used when a category has no
// positive budget or pacing is disabled. Callers can always read pacing
// fields; they are never omitted.
func NoTargetPacing() PacingResult {
	return PacingResult{Status: PacingNoTarget}
}

// ComputePacing compares cumulative spend against a linear time-prorated
// target. The source reports spend as negative activity; it is negated
// here so spent is a positive amount. With a non-positive budget the
// no-target verdict is returned regardless of activity or elapsed
// fraction. Pure function; exact decimal arithmetic throughout.
func ComputePacing(budgeted, activity, elapsed decimal.Decimal, thresholds PacingThresholds) PacingResult {
	if budgeted.LessThanOrEqual(decimal.Zero) {
		return NoTargetPacing()
	}

	spent := activity.Neg()
	target := budgeted.Mul(elapsed)
	delta := spent.Sub(target)

	result := PacingResult{
		Target: target,
		Delta:  delta,
		Status: PacingOnTrack,
	}

	if target.GreaterThan(decimal.Zero) {
		pct := delta.DivRound(target, 4)
		result.DeltaPct = &pct

		upper := target.Mul(decimal.NewFromInt(1).Add(thresholds.UpperOverPct))
		lower := target.Mul(decimal.NewFromInt(1).Sub(thresholds.LowerUnderPct))
		switch {
		case spent.GreaterThan(upper):
			result.Status = PacingBehind
		case spent.LessThan(lower):
			result.Status = PacingAhead
		}
	}

	return result
}
