package core

import (
	"github.com/shopspring/decimal"
)

// Status is the traffic-light classification for a category.
type Status string

const (
	StatusRed   Status = "red"
	StatusAmber Status = "amber"
	StatusGreen Status = "green"
)

// Icon returns the display symbol for the status.
func (s Status) Icon() string {
	switch s {
	case StatusRed:
		return "❗"
	case StatusAmber:
		return "⚠️"
	default:
		return "✅"
	}
}

// DefaultSoftWarnThreshold is the balance below which a category reads as
// amber rather than green.
var DefaultSoftWarnThreshold = decimal.RequireFromString("10.00")

// StatusForAvailable classifies the available balance alone: red below
// zero, amber below softWarn, green otherwise. The amber boundary is
// exclusive: a balance exactly at softWarn is green.
func StatusForAvailable(available, softWarn decimal.Decimal) Status {
	if available.IsNegative() {
		return StatusRed
	}
	if available.LessThan(softWarn) {
		return StatusAmber
	}
	return StatusGreen
}

// CombinedStatus folds pacing into the primary display status. A negative
// balance dominates and always shows red; with a non-negative balance a
// behind-pace category shows amber even when the balance itself is
// healthy, and everything else shows green.
func CombinedStatus(available decimal.Decimal, pacing PacingStatus) Status {
	if available.IsNegative() {
		return StatusRed
	}
	if pacing == PacingBehind {
		return StatusAmber
	}
	return StatusGreen
}
