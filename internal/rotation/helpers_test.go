package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/maprotation/internal/catalog"
)

// fixedRNG replays a fixed sequence of values, repeating the last one.
type fixedRNG struct {
	vals []float64
	i    int
}

func (f *fixedRNG) Float64() float64 {
	v := f.vals[min(f.i, len(f.vals)-1)]
	f.i++
	return v
}

type mapSpec struct {
	id, gid uint16
	mode    catalog.Mode
	players uint16
}

func buildCatalog(t *testing.T, specs ...mapSpec) *catalog.Catalog {
	t.Helper()
	var groups []catalog.Group
	seen := map[uint16]bool{}
	maps := make([]catalog.Map, 0, len(specs))
	for _, s := range specs {
		if !seen[s.gid] {
			seen[s.gid] = true
			groups = append(groups, catalog.Group{ID: s.gid, BaseName: "g"})
		}
		maps = append(maps, catalog.Map{ID: s.id, GroupID: s.gid, Nickname: "m", Mode: s.mode, Players: s.players})
	}
	c, err := catalog.New(groups, maps)
	require.NoError(t, err)
	return c
}

func mustMap(t *testing.T, c *catalog.Catalog, id uint16) *catalog.Map {
	t.Helper()
	m, ok := c.Map(id)
	require.True(t, ok, "map %d", id)
	return m
}

func ids(cs []Candidate) []uint16 {
	out := make([]uint16, len(cs))
	for i, c := range cs {
		out[i] = c.Map.ID
	}
	return out
}

// rotationCatalog has three maps per mode at 16 players; every group holds
// one map of two different modes.
func rotationCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var specs []mapSpec
	id := uint16(1)
	for i, mode := range catalog.Modes() {
		for j := 0; j < 3; j++ {
			gid := uint16(100 + (i/2)*3 + j)
			specs = append(specs, mapSpec{id: id, gid: gid, mode: mode, players: 16})
			id++
		}
	}
	return buildCatalog(t, specs...)
}

func randomHistory(c *catalog.Catalog, rng RandomSource, n int) []*catalog.Map {
	maps := c.Maps()
	h := make([]*catalog.Map, n)
	for i := range h {
		h[i] = maps[int(rng.Float64()*float64(len(maps)))]
	}
	return h
}
