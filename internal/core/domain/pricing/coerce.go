package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order items arrive from the edit form as loosely-typed records:
// fields may be missing, blank, or string-encoded numbers. These
// helpers apply the documented lenient policy — invalid input falls
// back to a safe default instead of raising an error.

// CoerceQuantity parses a quantity field. Missing, blank, or
// unparseable input defaults to 1, as does anything below 1.
// Fractional input is truncated towards zero before the floor check.
func CoerceQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 1
	}
	qty := int(d.IntPart())
	if qty < 1 {
		return 1
	}
	return qty
}

// CoerceAmount parses a monetary field. Missing, blank, unparseable,
// or negative input defaults to zero.
func CoerceAmount(raw string) decimal.Decimal {
	d := CoercePercent(raw)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoercePercent parses a percentage field. Missing, blank, or
// unparseable input defaults to zero; the value is otherwise passed
// through untouched.
func CoercePercent(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
