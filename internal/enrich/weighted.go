package enrich

import "math/rand/v2"

// choice pairs a value with its sampling weight.
type choice[T any] struct {
	value  T
	weight float64
}

// weightedChoice samples one value proportionally to weight: draw r
// uniformly in [0, sum(weights)), walk options in declared order and return
// the first whose cumulative weight reaches r. The declared order and the
// last-option fallback guard floating-point edge cases and must not change,
// or seeded runs stop being reproducible.
func weightedChoice[T any](rng *rand.Rand, choices []choice[T]) T {
	var total float64
	for _, c := range choices {
		total += c.weight
	}

	r := rng.Float64() * total

	var cum float64
	for _, c := range choices {
		cum += c.weight
		if r <= cum {
			return c.value
		}
	}
	return choices[len(choices)-1].value
}
