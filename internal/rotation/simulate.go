package rotation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/xtding233/maprotation/internal/catalog"
)

// SimParams describes one simulated run of sessions.
type SimParams struct {
	Rounds    int          // number of maps played; <= 0 means DefaultSimRounds
	Players   uint16       // player count used for every round
	StartMode catalog.Mode // mode of the first round
	Choices   int          // maps offered per round; <= 0 means DefaultChoices
}

const (
	DefaultSimRounds  = 10_000
	DefaultSimPlayers = 16
)

func DefaultSimParams() SimParams {
	return SimParams{
		Rounds:    DefaultSimRounds,
		Players:   DefaultSimPlayers,
		StartMode: catalog.TD,
		Choices:   DefaultChoices,
	}
}

// Stats summarizes how often the maps of one mode were played.
type Stats struct {
	Maps   int // eligible maps of the mode
	Plays  int
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
}

// SimResult is the outcome of Simulate.
type SimResult struct {
	History []*catalog.Map
	Counts  map[uint16]int // plays per map id
	ByMode  map[catalog.Mode]Stats
}

// Simulate plays p.Rounds rounds: each round it asks rec for p.Choices maps,
// always commits the highest weighted one to the history and moves on to the
// next mode. A mode with fewer maps than p.Choices offers all of them.
func Simulate(rec *Recommender, p SimParams) (SimResult, error) {
	if p.Rounds <= 0 {
		p.Rounds = DefaultSimRounds
	}
	if p.Choices <= 0 {
		p.Choices = DefaultChoices
	}

	res := SimResult{
		History: make([]*catalog.Map, 0, p.Rounds),
		Counts:  make(map[uint16]int),
		ByMode:  make(map[catalog.Mode]Stats),
	}
	mode := p.StartMode
	for i := 0; i < p.Rounds; i++ {
		picks, err := rec.Recommend(res.History, mode, p.Players, p.Choices)
		if errors.Is(err, ErrInsufficientCandidates) {
			picks, err = rec.AllCandidates(res.History, mode, p.Players)
		}
		if err != nil {
			return SimResult{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		m := picks[0].Map
		res.History = append(res.History, m)
		res.Counts[m.ID]++
		mode = mode.Next()
	}

	for _, mode := range catalog.Modes() {
		eligible := Eligible(rec.Catalog().Maps(), mode, p.Players, rec.Params())
		if len(eligible) == 0 {
			continue
		}
		counts := make([]int, len(eligible))
		for i, m := range eligible {
			counts[i] = res.Counts[m.ID]
		}
		st := calcStats(counts)
		st.Maps = len(eligible)
		res.ByMode[mode] = st
	}
	return res, nil
}

// calcStats summarizes per-map play counts. Variance is the population
// variance; percentiles interpolate linearly between ranks.
func calcStats(counts []int) Stats {
	if len(counts) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(counts)
	slices.Sort(sorted)

	st := Stats{}
	for _, c := range sorted {
		st.Plays += c
	}
	n := float64(len(sorted))
	st.Mean = float64(st.Plays) / n
	for _, c := range sorted {
		d := float64(c) - st.Mean
		st.Var += d * d / n
	}
	st.StdDev = math.Sqrt(st.Var)
	st.P50 = quantile(sorted, 0.50)
	st.P90 = quantile(sorted, 0.90)
	st.P99 = quantile(sorted, 0.99)
	return st
}

// quantile reads q in [0,1] off an ascending slice.
func quantile(sorted []int, q float64) float64 {
	last := len(sorted) - 1
	pos := q * float64(last)
	lo := int(math.Floor(pos))
	if lo >= last {
		return float64(sorted[last])
	}
	if lo < 0 {
		return float64(sorted[0])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
