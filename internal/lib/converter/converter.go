// Package converter translates between the decimal amounts used by
// settlement and the integer cents stored in MySQL.
package converter

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
