package calc

import (
	"github.com/iwvelando/divvyplan/pkg/money"
)

// SplitPool divides a dividend pool between directors and returns each
// director's share in pence, in input order. The shares always sum to the
// pool's pence value.
//
// Equal splits give every director floor(pool/N) and hand the remainder out
// one penny at a time from the front of the list. Custom splits round each
// director's proportional share and put any difference on the last director.
func SplitPool(pool float64, directors []Director, method SplitMethod) []int64 {
	shares, _ := splitPool(money.ToMinorUnits(pool), directors, method)
	return shares
}

// splitPool also reports whether the custom split needed a correction on the
// last director.
func splitPool(poolPence int64, directors []Director, method SplitMethod) ([]int64, bool) {
	count := int64(len(directors))
	if count == 0 {
		return []int64{}, false
	}

	shares := make([]int64, count)

	if method == SplitEqual {
		base := poolPence / count
		remainder := poolPence - base*count
		for i := range shares {
			shares[i] = base
			if int64(i) < remainder {
				shares[i]++
			}
		}
		return shares, false
	}

	var total int64
	for i, director := range directors {
		shares[i] = money.RoundMinorUnits(float64(poolPence) * director.SplitPercent)
		total += shares[i]
	}

	diff := poolPence - total
	if diff != 0 {
		shares[count-1] += diff
	}
	return shares, diff != 0
}
