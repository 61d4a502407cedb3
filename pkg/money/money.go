// Package money converts between major-unit amounts (pounds) and integer
// minor units (pence). Exact arithmetic happens in pence; pounds are only
// produced at the boundary.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a pound amount to pence, rounding to the nearest
// penny (halves away from zero).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * constants.MinorUnitsPerMajor))
}

// FromMinorUnits converts pence back to pounds. No rounding is applied.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / constants.MinorUnitsPerMajor
}

// RoundMinorUnits rounds a fractional pence quantity, typically the product
// of a pence amount and a rate, to whole pence.
func RoundMinorUnits(value float64) int64 {
	return int64(math.Round(value))
}

// ParseAmount parses a user supplied amount such as "5000", "£1,234.56" or
// " 99.999 " into pounds rounded to the penny. Negative amounts are rejected.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, constants.CurrencySymbol)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", raw)
	}

	pence := d.Shift(2).Round(0).IntPart()
	return FromMinorUnits(pence), nil
}
