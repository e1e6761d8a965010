package core

import (
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// MilliunitsToDecimal converts milliunits to a currency amount with exactly
// two fractional digits. Rounding is always toward negative infinity, so
// -1 milliunit becomes -0.01 rather than 0.00. Any integer is valid input.
func MilliunitsToDecimal(mu Milliunits) decimal.Decimal {
	return decimal.NewFromInt(int64(mu)).DivRound(thousand, 4).RoundFloor(2)
}
