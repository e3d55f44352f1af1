package accounts

import (
	"time"

	"github.com/shopspring/decimal"
)

// now is a fixed "current instant" for tests, noon to keep clear of day boundaries.
var now = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

// ago returns the instant d before now.
func ago(d time.Duration) time.Time { return now.Add(-d) }

// D is a helper for test to create decimal from const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// op is a helper for test to create an operation from const.
func op(on time.Time, amount float64) Operation { return NewOperation(on, amount, "") }

// values returns the history values as float64 for easy comparison.
func values(h BalanceHistory) []float64 {
	v := make([]float64, len(h))
	for i, p := range h {
		v[i] = p.Value.InexactFloat64()
	}
	return v
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
