package datetime

import (
	"testing"
	"time"
)

func TestTaxYear(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{name: "Day before new tax year", date: "2026-04-05", expected: "2025/26"},
		{name: "First day of tax year", date: "2026-04-06", expected: "2026/27"},
		{name: "New year's day", date: "2027-01-01", expected: "2026/27"},
		{name: "Century rollover", date: "2099-12-31", expected: "2099/00"},
		{name: "Leading zero", date: "2008-05-01", expected: "2008/09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaxYear(MustParseTime(DateLayout, tt.date))
			if got != tt.expected {
				t.Errorf("TaxYear(%s) = %s, expected %s", tt.date, got, tt.expected)
			}
		})
	}
}

func TestTaxYearStart(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	got := TaxYearStart(time.Date(2026, time.March, 1, 12, 0, 0, 0, loc))
	expected := time.Date(2025, time.April, 6, 0, 0, 0, 0, loc)
	if !got.Equal(expected) {
		t.Errorf("TaxYearStart() = %v, expected %v", got, expected)
	}
	if got.Location() != loc {
		t.Errorf("TaxYearStart() changed location to %v", got.Location())
	}
}

func TestMustParseTime(t *testing.T) {
	got := MustParseTime(DateLayout, "2026-04-06")
	if got.Year() != 2026 || got.Month() != time.April || got.Day() != 6 {
		t.Errorf("MustParseTime() = %v", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseTime() expected panic on invalid date")
		}
	}()
	MustParseTime(DateLayout, "not-a-date")
}
