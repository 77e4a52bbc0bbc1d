package generator

import (
	"math/rand/v2"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// pickOne returns a uniformly chosen element, or nil for an empty pool.
func pickOne(rng *rand.Rand, pool []domain.Activity) *domain.Activity {
	if len(pool) == 0 {
		return nil
	}
	a := pool[rng.IntN(len(pool))]
	return &a
}

// sampleDistinct draws up to n distinct elements using a partial
// Fisher-Yates shuffle over a copy of the pool.
func sampleDistinct(rng *rand.Rand, pool []domain.Activity, n int) []domain.Activity {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]domain.Activity, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}
