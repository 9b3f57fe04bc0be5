package rotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/maprotation/internal/catalog"
)

func weighted(t *testing.T, weights ...float64) []Candidate {
	t.Helper()
	specs := make([]mapSpec, len(weights))
	for i := range weights {
		specs[i] = mapSpec{id: uint16(i + 1), gid: uint16(i + 1), mode: catalog.TD, players: 16}
	}
	c := buildCatalog(t, specs...)
	out := make([]Candidate, len(weights))
	for i, w := range weights {
		out[i] = Candidate{Weight: w, Map: mustMap(t, c, uint16(i+1))}
	}
	return out
}

func TestSampleWalk(t *testing.T) {
	dist := weighted(t, 0.5, 0.3, 0.2)

	// 0 selects the first candidate; then u = 0.99*0.5 walks past B into C
	got, err := Sample(dist, 2, &fixedRNG{vals: []float64{0, 0.99}})
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 3}, ids(got))
	assert.Equal(t, 0.5, got[0].Weight)
	assert.Equal(t, 0.2, got[1].Weight, "weights are not renormalized")
}

func TestSampleSortsByWeight(t *testing.T) {
	dist := weighted(t, 0.5, 0.3, 0.2)

	// draw C first, then A, then B
	got, err := Sample(dist, 3, &fixedRNG{vals: []float64{0.95, 0.1, 0}})
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2, 3}, ids(got))
}

func TestSampleDoesNotModifyInput(t *testing.T) {
	dist := weighted(t, 0.5, 0.3, 0.2)
	before := append([]Candidate(nil), dist...)
	_, err := Sample(dist, 3, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, before, dist)
}

func TestSampleWithoutReplacement(t *testing.T) {
	dist := weighted(t, 0.4, 0.3, 0.15, 0.1, 0.05)
	rng := NewSeededRNG(99)
	for i := 0; i < 2000; i++ {
		got, err := Sample(dist, 3, rng)
		require.NoError(t, err)
		require.Len(t, got, 3)
		seen := map[uint16]bool{}
		for _, c := range got {
			assert.False(t, seen[c.Map.ID], "map %d drawn twice", c.Map.ID)
			seen[c.Map.ID] = true
		}
	}
}

func TestSampleWholeSet(t *testing.T) {
	dist := weighted(t, 0.25, 0.25, 0.25, 0.25)
	got, err := Sample(dist, 4, NewSeededRNG(4))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint16{1, 2, 3, 4}, ids(got))
}

func TestSampleBounds(t *testing.T) {
	dist := weighted(t, 0.6, 0.4)

	got, err := Sample(dist, 0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Sample(dist, 3, NewSeededRNG(1))
	assert.True(t, errors.Is(err, ErrInsufficientCandidates))

	_, err = Sample(dist, -1, NewSeededRNG(1))
	assert.True(t, errors.Is(err, ErrInsufficientCandidates))

	_, err = Sample(nil, 1, nil)
	assert.True(t, errors.Is(err, ErrInsufficientCandidates))
}

func TestPickEdgeCases(t *testing.T) {
	zero := weighted(t, 0, 0, 0)
	assert.Equal(t, 0, pick(zero, 0.7), "zero total selects the first candidate")

	// r = 1 cannot come from a RandomSource, but it leaves residue after the walk
	tenths := weighted(t, 0.1, 0.1, 0.1)
	assert.Equal(t, 2, pick(tenths, 1.0))
}

func TestSampleFrequency(t *testing.T) {
	const n = 100000
	dist := weighted(t, 0.7, 0.2, 0.1)
	rng := NewSeededRNG(42)
	hits := map[uint16]int{}
	for i := 0; i < n; i++ {
		got, err := Sample(dist, 1, rng)
		require.NoError(t, err)
		hits[got[0].Map.ID]++
	}
	assert.InDelta(t, 0.7, float64(hits[1])/n, 0.01)
	assert.InDelta(t, 0.2, float64(hits[2])/n, 0.01)
	assert.InDelta(t, 0.1, float64(hits[3])/n, 0.01)
}

func TestSeededRNGIsReproducible(t *testing.T) {
	a, b := NewSeededRNG(123), NewSeededRNG(123)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	v := DefaultRNG().Float64()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
