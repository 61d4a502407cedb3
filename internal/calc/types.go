// Package calc is the deal calculation engine: it turns a deal amount into a
// VAT, corporation tax and dividend breakdown, splits the dividend pool
// between directors without creating or losing a penny, and applies personal
// dividend tax to each share.
//
// Every function here is pure. Callers validate input first (see Validate and
// ValidateDirectors); the calculations themselves never fail.
package calc

// DividendRatePreset names a table of dividend tax rates.
type DividendRatePreset string

// Known presets.
const (
	PresetCurrent   DividendRatePreset = "current"
	PresetApril2026 DividendRatePreset = "april2026"
)

// Presets lists the presets in display order.
var Presets = []DividendRatePreset{PresetCurrent, PresetApril2026}

// DividendRateTier is the dividend tax band applied to a whole deal.
type DividendRateTier string

// Known tiers. TierCustom uses Settings.CustomDividendRate.
const (
	TierBasic      DividendRateTier = "basic"
	TierHigher     DividendRateTier = "higher"
	TierAdditional DividendRateTier = "additional"
	TierCustom     DividendRateTier = "custom"
)

// Tiers lists the tiers in display order.
var Tiers = []DividendRateTier{TierBasic, TierHigher, TierAdditional, TierCustom}

// SplitMethod selects how the dividend pool is divided between directors.
type SplitMethod string

// Known split methods.
const (
	SplitEqual  SplitMethod = "equal"
	SplitCustom SplitMethod = "custom"
)

// PresetRates holds the dividend tax rate for each band of one preset.
type PresetRates struct {
	Basic      float64 `json:"basic" yaml:"basic" validate:"gte=0,lte=1"`
	Higher     float64 `json:"higher" yaml:"higher" validate:"gte=0,lte=1"`
	Additional float64 `json:"additional" yaml:"additional" validate:"gte=0,lte=1"`
}

// Settings holds the tax rates used by every calculation.
type Settings struct {
	VATRate              float64                            `json:"vatRate" yaml:"vatRate" validate:"gte=0,lte=1"`
	CorpTaxRate          float64                            `json:"corpTaxRate" yaml:"corpTaxRate" validate:"gte=0,lte=1"`
	DividendPreset       DividendRatePreset                 `json:"dividendPreset" yaml:"dividendPreset" validate:"oneof=current april2026"`
	PresetRates          map[DividendRatePreset]PresetRates `json:"presetRates" yaml:"presetRates" validate:"required,dive"`
	CustomDividendRate   float64                            `json:"customDividendRate" yaml:"customDividendRate" validate:"gte=0,lte=1"`
	DefaultIncludesVAT   bool                               `json:"defaultIncludesVAT" yaml:"defaultIncludesVAT"`
	DefaultVATRegistered bool                               `json:"defaultVATRegistered" yaml:"defaultVATRegistered"`
}

// DefaultSettings returns a fresh copy of the built-in rates.
func DefaultSettings() Settings {
	return Settings{
		VATRate:        0.20,
		CorpTaxRate:    0.25,
		DividendPreset: PresetCurrent,
		PresetRates: map[DividendRatePreset]PresetRates{
			PresetCurrent: {
				Basic:      0.0875,
				Higher:     0.3375,
				Additional: 0.3935,
			},
			PresetApril2026: {
				Basic:      0.1075,
				Higher:     0.3575,
				Additional: 0.3935,
			},
		},
		CustomDividendRate:   0.125,
		DefaultIncludesVAT:   true,
		DefaultVATRegistered: true,
	}
}

// Clone returns a deep copy so callers can edit rates without aliasing the map.
func (s Settings) Clone() Settings {
	out := s
	out.PresetRates = make(map[DividendRatePreset]PresetRates, len(s.PresetRates))
	for k, v := range s.PresetRates {
		out.PresetRates[k] = v
	}
	return out
}

// Director is one recipient of the dividend pool. SplitPercent is a fraction
// in [0,1] and only matters for the custom split method.
type Director struct {
	ID           string  `json:"id" yaml:"id" validate:"required"`
	Name         string  `json:"name" yaml:"name"`
	SplitPercent float64 `json:"splitPercent" yaml:"splitPercent" validate:"gte=0,lte=1"`
}

// DealInput describes one deal. IncludesVAT only matters when VATRegistered.
type DealInput struct {
	DealAmount    float64 `json:"dealAmount" yaml:"dealAmount" validate:"gte=0"`
	DealExpenses  float64 `json:"dealExpenses" yaml:"dealExpenses" validate:"gte=0"`
	IncludesVAT   bool    `json:"includesVAT" yaml:"includesVAT"`
	VATRegistered bool    `json:"vatRegistered" yaml:"vatRegistered"`
}

// DealBreakdown is the company-level view of a deal.
type DealBreakdown struct {
	Net          float64 `json:"net" yaml:"net"`
	VAT          float64 `json:"vat" yaml:"vat"`
	Expenses     float64 `json:"expenses" yaml:"expenses"`
	Profit       float64 `json:"profit" yaml:"profit"`
	CorpTax      float64 `json:"corpTax" yaml:"corpTax"`
	DividendPool float64 `json:"dividendPool" yaml:"dividendPool"`
}

// DirectorResult is one director's share of the pool after personal tax.
// SplitPercent is the fraction actually applied (1/N for equal splits).
type DirectorResult struct {
	ID                  string  `json:"id" yaml:"id"`
	Name                string  `json:"name" yaml:"name"`
	SplitPercent        float64 `json:"splitPercent" yaml:"splitPercent"`
	DividendShare       float64 `json:"dividendShare" yaml:"dividendShare"`
	AppliedRate         float64 `json:"appliedRate" yaml:"appliedRate"`
	PersonalDividendTax float64 `json:"personalDividendTax" yaml:"personalDividendTax"`
	TakeHome            float64 `json:"takeHome" yaml:"takeHome"`
	AdjustedByPenny     bool    `json:"adjustedByPenny" yaml:"adjustedByPenny"`
}

// DealResult bundles the breakdown with the per-director results and totals.
type DealResult struct {
	Breakdown        DealBreakdown    `json:"breakdown" yaml:"breakdown"`
	Directors        []DirectorResult `json:"directors" yaml:"directors"`
	TotalPersonalTax float64          `json:"totalPersonalTax" yaml:"totalPersonalTax"`
	TotalTakeHome    float64          `json:"totalTakeHome" yaml:"totalTakeHome"`
}
