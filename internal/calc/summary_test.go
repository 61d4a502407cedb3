package calc

import (
	"strings"
	"testing"
)

func TestFormatSummary(t *testing.T) {
	input := DealInput{DealAmount: 5000, VATRegistered: true, IncludesVAT: true}
	directors := []Director{
		{ID: "1", Name: "Director A", SplitPercent: 0.5},
		{ID: "2", Name: "Director B", SplitPercent: 0.5},
	}
	settings := DefaultSettings()
	result := ComputeDealResult(input, directors, SplitEqual, TierBasic, settings)

	expected := strings.Join([]string{
		"DivvyPlan Summary",
		"================",
		"",
		"Deal Amount: £5000.00",
		"VAT Registered: Yes",
		"VAT Treatment: Includes VAT",
		"",
		"Breakdown:",
		"  Net (ex VAT): £4166.67",
		"  VAT: £833.33",
		"  Corporation Tax (25%): £1041.67",
		"  Dividend Pool: £3125.00",
		"",
		"Directors (8.75% dividend tax):",
		"  Director A: £1562.50 dividend → £136.72 tax → £1425.78 take-home",
		"  Director B: £1562.50 dividend → £136.72 tax → £1425.78 take-home",
		"",
		"Totals:",
		"  Total Dividend Tax: £273.44",
		"  Total Take-Home: £2851.56",
		"",
		"Note: This is a planning estimate only, not tax advice.",
	}, "\n")

	if got := FormatSummary(input, result, settings, TierBasic); got != expected {
		t.Errorf("FormatSummary() mismatch\n--- got ---\n%s\n--- expected ---\n%s", got, expected)
	}
}

func TestFormatSummaryVariants(t *testing.T) {
	settings := DefaultSettings()
	directors := makeDirectors(1)

	tests := []struct {
		name       string
		input      DealInput
		tier       DividendRateTier
		contains   []string
		notContain []string
	}{
		{
			name:       "Not VAT registered omits treatment",
			input:      DealInput{DealAmount: 1000, IncludesVAT: true},
			tier:       TierBasic,
			contains:   []string{"VAT Registered: No\n\nBreakdown:", "  VAT: £0.00"},
			notContain: []string{"VAT Treatment"},
		},
		{
			name:     "Excludes VAT",
			input:    DealInput{DealAmount: 1000, VATRegistered: true},
			tier:     TierHigher,
			contains: []string{"VAT Treatment: Excludes VAT", "Directors (33.75% dividend tax):"},
		},
		{
			name:     "Expenses shown before corporation tax",
			input:    DealInput{DealAmount: 5000, DealExpenses: 1000, VATRegistered: true},
			tier:     TierCustom,
			contains: []string{"  VAT: £1000.00\n  Expenses: £1000.00\n  Profit: £4000.00\n  Corporation Tax (25%): £1000.00", "(12.50% dividend tax)"},
		},
		{
			name:       "No expenses lines without expenses",
			input:      DealInput{DealAmount: 5000},
			tier:       TierBasic,
			notContain: []string{"Expenses", "Profit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeDealResult(tt.input, directors, SplitEqual, tt.tier, settings)
			summary := FormatSummary(tt.input, result, settings, tt.tier)
			for _, want := range tt.contains {
				if !strings.Contains(summary, want) {
					t.Errorf("summary missing %q:\n%s", want, summary)
				}
			}
			for _, unwanted := range tt.notContain {
				if strings.Contains(summary, unwanted) {
					t.Errorf("summary unexpectedly contains %q:\n%s", unwanted, summary)
				}
			}
			if !strings.HasSuffix(summary, SummaryDisclaimer) {
				t.Errorf("summary should end with the disclaimer")
			}
		})
	}
}

func TestFormatSummaryCorporationTaxPercentRoundsHalfUp(t *testing.T) {
	settings := DefaultSettings()
	settings.CorpTaxRate = 0.125
	input := DealInput{DealAmount: 100}
	result := ComputeDealResult(input, makeDirectors(1), SplitEqual, TierBasic, settings)

	if summary := FormatSummary(input, result, settings, TierBasic); !strings.Contains(summary, "Corporation Tax (13%)") {
		t.Errorf("expected 13%% corporation tax label:\n%s", summary)
	}
}

func TestFormatSummaryDealAmountRoundsLikeBreakdown(t *testing.T) {
	// 5000.125 is exact in binary; %.2f alone would print 5000.12.
	input := DealInput{DealAmount: 5000.125}
	settings := DefaultSettings()
	result := ComputeDealResult(input, makeDirectors(1), SplitEqual, TierBasic, settings)
	summary := FormatSummary(input, result, settings, TierBasic)

	for _, want := range []string{"Deal Amount: £5000.13", "  Net (ex VAT): £5000.13"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}
