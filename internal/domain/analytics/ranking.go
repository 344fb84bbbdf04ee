// internal/domain/analytics/ranking.go
package analytics

import (
	"github.com/shopspring/decimal"
)

// rankDescending assigns standard competition ranks to values already sorted
// in descending order. Tied values share a rank and the next distinct value's
// rank equals its 1-based position, so the sequence may skip values after a
// tie (1, 1, 3).
func rankDescending(values []float64) []int {
	ranks := make([]int, len(values))
	for i := range values {
		if i > 0 && values[i] == values[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// round2 rounds a monetary or percentage value to 2 decimal places, ties
// away from zero.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
