package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/divvyplan/pkg/constants"
)

// Plain renders an amount with the currency symbol and two decimals and no
// grouping (e.g., "£1234.50"). Summary text uses this form.
func Plain(amount float64) string {
	return constants.CurrencySymbol + fmt.Sprintf("%.2f", amount)
}

// GBP renders an amount with the currency symbol and thousands separators
// (e.g., "-£1,234.56").
func GBP(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Percent renders a fraction as a percentage with two decimals (0.0875 -> "8.75%").
func Percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*constants.PercentageMultiplier)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
