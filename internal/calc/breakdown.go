package calc

import (
	"github.com/iwvelando/divvyplan/pkg/money"
)

// ComputeBreakdown derives net, VAT, profit, corporation tax and the dividend
// pool for a deal. All intermediate values are whole pence.
//
// When the deal amount includes VAT the VAT is the residual of the rounded
// net figure, so net + VAT always reconstructs the deal amount exactly.
// Expenses are deducted from net before corporation tax; profit never goes
// below zero.
func ComputeBreakdown(input DealInput, settings Settings) DealBreakdown {
	dealPence := money.ToMinorUnits(input.DealAmount)

	var netPence, vatPence int64
	switch {
	case !input.VATRegistered:
		netPence = dealPence
	case input.IncludesVAT:
		netPence = money.RoundMinorUnits(float64(dealPence) / (1 + settings.VATRate))
		vatPence = dealPence - netPence
	default:
		netPence = dealPence
		vatPence = money.RoundMinorUnits(float64(dealPence) * settings.VATRate)
	}

	expensesPence := money.ToMinorUnits(input.DealExpenses)
	profitPence := netPence - expensesPence
	if profitPence < 0 {
		profitPence = 0
	}

	corpTaxPence := money.RoundMinorUnits(float64(profitPence) * settings.CorpTaxRate)
	poolPence := profitPence - corpTaxPence

	return DealBreakdown{
		Net:          money.FromMinorUnits(netPence),
		VAT:          money.FromMinorUnits(vatPence),
		Expenses:     money.FromMinorUnits(expensesPence),
		Profit:       money.FromMinorUnits(profitPence),
		CorpTax:      money.FromMinorUnits(corpTaxPence),
		DividendPool: money.FromMinorUnits(poolPence),
	}
}
