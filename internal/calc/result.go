package calc

import (
	"github.com/iwvelando/divvyplan/pkg/money"
)

// ComputeDirectorResults splits the pool and applies the tier's dividend tax
// rate to every director's share. Tax is rounded to the penny and take-home
// is the residual, so tax + take-home always equals the share.
func ComputeDirectorResults(pool float64, directors []Director, method SplitMethod, tier DividendRateTier, settings Settings) []DirectorResult {
	shares, corrected := splitPool(money.ToMinorUnits(pool), directors, method)
	rate := ResolveRate(tier, settings)

	results := make([]DirectorResult, len(directors))
	for i, director := range directors {
		sharePence := shares[i]
		taxPence := money.RoundMinorUnits(float64(sharePence) * rate)
		takeHomePence := sharePence - taxPence

		splitPercent := director.SplitPercent
		if method == SplitEqual {
			splitPercent = 1 / float64(len(directors))
		}

		results[i] = DirectorResult{
			ID:                  director.ID,
			Name:                director.Name,
			SplitPercent:        splitPercent,
			DividendShare:       money.FromMinorUnits(sharePence),
			AppliedRate:         rate,
			PersonalDividendTax: money.FromMinorUnits(taxPence),
			TakeHome:            money.FromMinorUnits(takeHomePence),
			AdjustedByPenny:     corrected && i == len(directors)-1,
		}
	}
	return results
}

// ComputeDealResult runs the full calculation for one deal.
func ComputeDealResult(input DealInput, directors []Director, method SplitMethod, tier DividendRateTier, settings Settings) DealResult {
	breakdown := ComputeBreakdown(input, settings)
	directorResults := ComputeDirectorResults(breakdown.DividendPool, directors, method, tier, settings)

	// Totals are summed in pence; each addend is already a whole number of pence.
	var taxPence, takeHomePence int64
	for _, d := range directorResults {
		taxPence += money.ToMinorUnits(d.PersonalDividendTax)
		takeHomePence += money.ToMinorUnits(d.TakeHome)
	}

	return DealResult{
		Breakdown:        breakdown,
		Directors:        directorResults,
		TotalPersonalTax: money.FromMinorUnits(taxPence),
		TotalTakeHome:    money.FromMinorUnits(takeHomePence),
	}
}
