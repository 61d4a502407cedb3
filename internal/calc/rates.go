package calc

import "fmt"

// ResolveRate returns the dividend tax rate for a tier. The custom tier uses
// the user's custom rate; every other tier reads the active preset.
//
// Tiers are a closed set and are validated by callers; an unknown tier is a
// programming error and panics.
func ResolveRate(tier DividendRateTier, settings Settings) float64 {
	if tier == TierCustom {
		return settings.CustomDividendRate
	}

	rates := settings.PresetRates[settings.DividendPreset]
	switch tier {
	case TierBasic:
		return rates.Basic
	case TierHigher:
		return rates.Higher
	case TierAdditional:
		return rates.Additional
	default:
		panic(fmt.Sprintf("calc: unknown dividend rate tier %q", tier))
	}
}
