// Package money holds the fixed-point decimal conventions shared by the
// pricing engine and the billing records: two fractional digits, rounded
// half-up after every arithmetic step that produces a stored amount.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on every stored amount.
const Places = 2

var (
	// Zero is 0.00.
	Zero = decimal.Zero

	// Hundred is the divisor converting a 0-100 percentage into a factor.
	Hundred = decimal.NewFromInt(100)
)

// Quantize rounds d to the cent using round-half-up. shopspring's Round is
// half-away-from-zero, which matches half-up for the non-negative amounts
// this system deals in.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// FromString parses an exact decimal string such as "16.00".
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// MustFromString is FromString for trusted literals (seed data, tests).
func MustFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// String renders d with exactly two fractional digits, e.g. "116.00".
// Amounts cross serialization boundaries in this form, never as floats.
func String(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Factor converts a 0-100 scale percentage into a multiplicative factor:
// 1+value/100 when increase is true (tax, surcharge), 1-value/100 otherwise
// (discount).
func Factor(value decimal.Decimal, increase bool) decimal.Decimal {
	frac := value.Div(Hundred)
	if increase {
		return decimal.NewFromInt(1).Add(frac)
	}
	return decimal.NewFromInt(1).Sub(frac)
}
