// Package money provides exact two-decimal-place monetary arithmetic for the
// pipeline, backed by decimal.Decimal so that arithmetic invariants like
// subtotal + tax == billing never drift from float rounding.
package money

import "github.com/shopspring/decimal"

// Amount is a monetary value. It is a plain decimal.Decimal: arithmetic on it
// does not round; Round2 and Equal2 round to two decimal places.
type Amount = decimal.Decimal

// Zero is the additive identity.
var Zero = decimal.Zero

// FromFloat builds an Amount from a float64, such as a configured threshold
// or a fixed tolerance.
func FromFloat(f float64) Amount {
	return decimal.NewFromFloat(f)
}

// Round2 rounds a to two decimal places using banker's-rounding-free
// half-away-from-zero, matching the "to two decimals" wording throughout
// the spec's invariants.
func Round2(a Amount) Amount {
	return a.Round(2)
}

// Equal2 reports whether a and b are equal once both are rounded to two
// decimal places.
func Equal2(a, b Amount) bool {
	return Round2(a).Equal(Round2(b))
}

// WithinCents reports whether a and b differ by no more than the given
// number of cents (expressed as an Amount, e.g. 0.01).
func WithinCents(a, b, tolerance Amount) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// Sum adds a slice of amounts.
func Sum(amounts []Amount) Amount {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
