package rotation

import "fmt"

// Sample draws k distinct candidates from dist without replacement.
//
// Each draw picks u in [0, sum of remaining weights) and walks the remaining
// candidates in order, subtracting weights until the remainder drops to zero
// or below. The drawn candidate is removed before the next draw. Returned
// weights are the ones the candidates carried in dist, not renormalized; the
// result is sorted highest weight first.
func Sample(dist []Candidate, k int, rng RandomSource) ([]Candidate, error) {
	if k < 0 {
		return nil, fmt.Errorf("sample size %d: %w", k, ErrInsufficientCandidates)
	}
	if k > len(dist) {
		return nil, fmt.Errorf("want %d maps, have %d: %w", k, len(dist), ErrInsufficientCandidates)
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	remaining := append([]Candidate(nil), dist...)
	drawn := make([]Candidate, 0, k)
	seen := make(map[uint16]bool, k)

	for len(drawn) < k {
		idx := pick(remaining, rng.Float64())
		c := remaining[idx]
		if seen[c.Map.ID] {
			return nil, fmt.Errorf("map %d: %w", c.Map.ID, ErrDuplicateDraw)
		}
		seen[c.Map.ID] = true
		drawn = append(drawn, c)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	sortDesc(drawn)
	return drawn, nil
}

// pick returns the index selected by the uniform value r in [0, 1).
func pick(remaining []Candidate, r float64) int {
	var sum float64
	for _, c := range remaining {
		sum += c.Weight
	}
	u := r * sum
	if sum <= 0 {
		u = 0
	}
	for i, c := range remaining {
		u -= c.Weight
		if u <= 0 {
			return i
		}
	}
	// floating residue left u a hair above zero
	return len(remaining) - 1
}
