// Package money is the canonical fixed-precision representation for every
// monetary value that crosses a persistence boundary. All arithmetic runs on
// decimal.Decimal; everything written to the store goes through String2 so
// that repeated recomputation converges instead of drifting.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// String2 renders the canonical 2-decimal fixed-point form, e.g. "150.00".
// This is the only form persisted for monetary columns.
func String2(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// FromString parses a decimal amount from its textual form.
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FromFloat converts a binary float into its nearest decimal, for inputs that
// arrive with binary rounding error. The result still must pass Round2 before
// persistence.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
