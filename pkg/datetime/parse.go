// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the date format used in reports.
	DateLayout = "2006-01-02"

	taxYearStartMonth = time.April
	taxYearStartDay   = 6
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// TaxYearStart returns 6 April of the UK tax year containing t, in t's location.
func TaxYearStart(t time.Time) time.Time {
	start := time.Date(t.Year(), taxYearStartMonth, taxYearStartDay, 0, 0, 0, 0, t.Location())
	if t.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start
}

// TaxYear labels the UK tax year containing t, e.g. "2026/27".
func TaxYear(t time.Time) string {
	start := TaxYearStart(t).Year()
	return fmt.Sprintf("%d/%02d", start, (start+1)%100)
}
