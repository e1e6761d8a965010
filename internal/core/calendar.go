package core

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	seven = decimal.NewFromInt(7)

	// minWeeksRemaining guards downstream divisions: even on the last day
	// of the month weeks remaining never drops below this.
	minWeeksRemaining = decimal.RequireFromString("0.0001")
)

// daysInMonth returns the number of calendar days in the month of t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DaysAndWeeksRemaining returns the days and 7-day periods left in today's
// month, inclusive of today. On the last day of a month days remaining is 1.
// Weeks remaining is floored at 0.0001 so it is always safe to divide by.
// The caller supplies an already-localized date; no timezone logic here.
func DaysAndWeeksRemaining(today time.Time) (int, decimal.Decimal) {
	days := daysInMonth(today) - today.Day() + 1
	weeks := decimal.NewFromInt(int64(days)).DivRound(seven, 4)
	if weeks.LessThan(minWeeksRemaining) {
		weeks = minWeeksRemaining
	}
	return days, weeks
}

// WeeklyAllowance is floor(available / weeks remaining) at cents, computed
// as available*7/days so the rounding of the weeks figure cannot perturb
// exact-cent results. Days remaining from the calendar is always at least
// 1; the guard here mirrors the weeks floor.
func WeeklyAllowance(available decimal.Decimal, daysRemaining int) decimal.Decimal {
	if daysRemaining < 1 {
		daysRemaining = 1
	}
	days := decimal.NewFromInt(int64(daysRemaining))
	return available.Mul(seven).DivRound(days, 6).RoundFloor(2)
}

// ElapsedFraction returns how far through the month today is, inclusive of
// today: day-of-month divided by days in the month, rounded to 4 decimal
// places.
func ElapsedFraction(today time.Time) decimal.Decimal {
	day := decimal.NewFromInt(int64(today.Day()))
	total := decimal.NewFromInt(int64(daysInMonth(today)))
	return day.DivRound(total, 4)
}
