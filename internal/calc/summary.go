package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/iwvelando/divvyplan/pkg/money"
)

// SummaryDisclaimer closes every summary.
const SummaryDisclaimer = "Note: This is a planning estimate only, not tax advice."

// FormatSummary renders a plain-text report of a computed deal. The layout is
// fixed, including the blank separator lines.
func FormatSummary(input DealInput, result DealResult, settings Settings, tier DividendRateTier) string {
	breakdown := result.Breakdown
	rate := ResolveRate(tier, settings)

	lines := []string{
		"DivvyPlan Summary",
		"================",
		"",
		"Deal Amount: " + money.Plain(money.FromMinorUnits(money.ToMinorUnits(input.DealAmount))),
		"VAT Registered: " + yesNo(input.VATRegistered),
	}
	if input.VATRegistered {
		treatment := "Excludes VAT"
		if input.IncludesVAT {
			treatment = "Includes VAT"
		}
		lines = append(lines, "VAT Treatment: "+treatment)
	}

	lines = append(lines,
		"",
		"Breakdown:",
		"  Net (ex VAT): "+money.Plain(breakdown.Net),
		"  VAT: "+money.Plain(breakdown.VAT),
	)
	if money.ToMinorUnits(input.DealExpenses) > 0 {
		lines = append(lines,
			"  Expenses: "+money.Plain(breakdown.Expenses),
			"  Profit: "+money.Plain(breakdown.Profit),
		)
	}
	lines = append(lines,
		fmt.Sprintf("  Corporation Tax (%s%%): %s", wholePercent(settings.CorpTaxRate), money.Plain(breakdown.CorpTax)),
		"  Dividend Pool: "+money.Plain(breakdown.DividendPool),
		"",
		fmt.Sprintf("Directors (%s dividend tax):", money.Percent(rate)),
	)
	for _, d := range result.Directors {
		lines = append(lines, fmt.Sprintf("  %s: %s dividend → %s tax → %s take-home",
			d.Name, money.Plain(d.DividendShare), money.Plain(d.PersonalDividendTax), money.Plain(d.TakeHome)))
	}

	lines = append(lines,
		"",
		"Totals:",
		"  Total Dividend Tax: "+money.Plain(result.TotalPersonalTax),
		"  Total Take-Home: "+money.Plain(result.TotalTakeHome),
		"",
		SummaryDisclaimer,
	)

	return strings.Join(lines, "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// wholePercent rounds halves up, e.g. 0.125 -> "13".
func wholePercent(rate float64) string {
	return fmt.Sprintf("%.0f", math.Round(rate*constants.PercentageMultiplier))
}
