package calc

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/iwvelando/divvyplan/pkg/money"
)

func makeDirectors(splits ...float64) []Director {
	directors := make([]Director, len(splits))
	for i, s := range splits {
		directors[i] = Director{
			ID:           fmt.Sprintf("%d", i+1),
			Name:         fmt.Sprintf("Director %d", i+1),
			SplitPercent: s,
		}
	}
	return directors
}

func equalSplits(n int) []float64 {
	splits := make([]float64, n)
	for i := range splits {
		splits[i] = 1 / float64(n)
	}
	return splits
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func TestSplitPool(t *testing.T) {
	tests := []struct {
		name      string
		pool      float64
		directors []Director
		method    SplitMethod
		expected  []int64
	}{
		{"Equal thirds remainder to first", 100, makeDirectors(equalSplits(3)...), SplitEqual, []int64{3334, 3333, 3333}},
		{"Equal remainder two pennies", 100.02, makeDirectors(equalSplits(4)...), SplitEqual, []int64{2501, 2501, 2500, 2500}},
		{"Equal ignores stored splits", 10, makeDirectors(0.9, 0.1), SplitEqual, []int64{500, 500}},
		{"Equal single director", 3125, makeDirectors(1), SplitEqual, []int64{312500}},
		{"Custom exact", 1000, makeDirectors(0.6, 0.4), SplitCustom, []int64{60000, 40000}},
		{"Custom thirds correction on last", 100, makeDirectors(equalSplits(3)...), SplitCustom, []int64{3333, 3333, 3334}},
		{"Custom under-allocated fractions", 100, makeDirectors(0.5, 0.25), SplitCustom, []int64{5000, 5000}},
		{"Zero pool", 0, makeDirectors(0.5, 0.5), SplitCustom, []int64{0, 0}},
		{"No directors", 100, nil, SplitEqual, []int64{}},
		{"No directors custom", 100, []Director{}, SplitCustom, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitPool(tt.pool, tt.directors, tt.method)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitPool() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

// adversarialSplits returns split sets that sum to 100% but round awkwardly.
func adversarialSplits(n int) [][]float64 {
	sets := [][]float64{equalSplits(n)}
	if n == 1 {
		return append(sets, []float64{1.0})
	}

	// Everything on the first director, then on the last.
	first := make([]float64, n)
	first[0] = 1
	last := make([]float64, n)
	last[n-1] = 1
	sets = append(sets, first, last)

	// Uneven weights normalised to one: 1, 4, 8, 12, ...
	weighted := make([]float64, n)
	var total float64
	for i := range weighted {
		weighted[i] = float64(4*i + 1)
		if i > 0 {
			weighted[i]--
		}
		total += weighted[i]
	}
	for i := range weighted {
		weighted[i] /= total
	}
	sets = append(sets, weighted)

	// Every split just over a half penny of the pool.
	skewed := make([]float64, n)
	remaining := 1.0
	for i := 0; i < n-1; i++ {
		skewed[i] = 0.00005 + float64(i)*0.05
		remaining -= skewed[i]
	}
	skewed[n-1] = remaining
	sets = append(sets, skewed)

	return sets
}

func TestSplitPoolConservation(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for _, splits := range adversarialSplits(n) {
			directors := makeDirectors(splits...)
			for poolPence := int64(0); poolPence <= 50000; poolPence += 37 {
				pool := money.FromMinorUnits(poolPence)
				for _, method := range []SplitMethod{SplitEqual, SplitCustom} {
					shares := SplitPool(pool, directors, method)
					if len(shares) != n {
						t.Fatalf("expected %d shares, got %d", n, len(shares))
					}
					if got := sum(shares); got != poolPence {
						t.Fatalf("n=%d method=%s splits=%v pool=%d: shares %v sum to %d",
							n, method, splits, poolPence, shares, got)
					}
				}
			}
		}
	}
}

func TestSplitPoolEqualSharesDifferByAtMostOnePenny(t *testing.T) {
	for n := 1; n <= 6; n++ {
		directors := makeDirectors(equalSplits(n)...)
		for poolPence := int64(0); poolPence <= 10000; poolPence++ {
			shares := SplitPool(money.FromMinorUnits(poolPence), directors, SplitEqual)
			for i := 1; i < len(shares); i++ {
				if shares[i] > shares[i-1] || shares[0]-shares[i] > 1 {
					t.Fatalf("n=%d pool=%d: unexpected ordering %v", n, poolPence, shares)
				}
			}
		}
	}
}

func TestSplitPoolLargePool(t *testing.T) {
	directors := makeDirectors(equalSplits(6)...)
	pool := 98765432.17
	for _, method := range []SplitMethod{SplitEqual, SplitCustom} {
		if got := sum(SplitPool(pool, directors, method)); got != money.ToMinorUnits(pool) {
			t.Errorf("%s split of %v lost pennies: %d", method, pool, got)
		}
	}
}
