// Package money holds the single rounding policy for all payouts.
package money

import "github.com/shopspring/decimal"

// PayoutScale is the number of fractional digits every settled amount
// carries. Payouts are rounded exactly once, at computation, and never
// re-rounded downstream.
const PayoutScale = 2

// Payout multiplies the stake by a total-return multiplier and rounds
// half-up to PayoutScale. A multiplier of zero is a loss, one is a push.
func Payout(amount, multiplier decimal.Decimal) decimal.Decimal {
	return amount.Mul(multiplier).Round(PayoutScale)
}

// Profit is what the round changed the balance by: payout minus stake.
func Profit(payout, amount decimal.Decimal) decimal.Decimal {
	return payout.Sub(amount)
}

// IsWin reports whether the payout exceeds the stake. A push (payout
// equal to stake) is not a win.
func IsWin(payout, amount decimal.Decimal) bool {
	return payout.GreaterThan(amount)
}

// FromFloat builds a multiplier from a payout-table constant.
func FromFloat(multiplier float64) decimal.Decimal {
	return decimal.NewFromFloat(multiplier)
}
