// Package testutil provides common utility functions for testing.
package testutil

import (
	"strconv"

	"github.com/iwvelando/divvyplan/internal/calc"
)

// FindDirector finds a director result by id.
// Returns a pointer to the result if found, nil otherwise.
func FindDirector(results []calc.DirectorResult, id string) *calc.DirectorResult {
	for i := range results {
		if results[i].ID == id {
			return &results[i]
		}
	}
	return nil
}

// Directors builds n directors with ids "1".."n", names "Director 1".."Director n"
// and the given split fractions. Missing fractions default to zero.
func Directors(n int, splits ...float64) []calc.Director {
	directors := make([]calc.Director, n)
	for i := range directors {
		directors[i] = calc.Director{
			ID:   strconv.Itoa(i + 1),
			Name: "Director " + strconv.Itoa(i+1),
		}
		if i < len(splits) {
			directors[i].SplitPercent = splits[i]
		}
	}
	return directors
}
