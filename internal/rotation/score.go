package rotation

import (
	"math"
	"sort"

	"github.com/xtding233/maprotation/internal/catalog"
)

// Candidate is a map with its weight. After Rank the weights of a candidate
// set sum to 1.
type Candidate struct {
	Weight float64
	Map    *catalog.Map
}

// Breakdown is one candidate's state after the whole history has been folded
// into it. Score is clamped but not normalized.
type Breakdown struct {
	Map          *catalog.Map
	Age          int     // rounds since this exact map was played, capped
	Penalty      float64 // same-mode group penalty
	CrossPenalty float64 // cross-mode sibling penalty
	Score        float64
}

// Eligible filters maps down to those of the given mode that support at
// least players players, keeping catalog order.
func Eligible(maps []*catalog.Map, mode catalog.Mode, players uint16, p Params) []*catalog.Map {
	var out []*catalog.Map
	for _, m := range maps {
		if m.Mode != mode || m.Players < players {
			continue
		}
		if (p.SkipDisabled && m.Disabled) || (p.SkipGag && m.Gag) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Evaluate lets every candidate see the history, oldest first, and returns
// the resulting breakdowns in candidate order.
func Evaluate(history, candidates []*catalog.Map, p Params) ([]Breakdown, error) {
	disc, crossDisc := p.RoundDiscount(), p.CrossRoundDiscount()

	out := make([]Breakdown, 0, len(candidates))
	for _, m := range candidates {
		b := Breakdown{Map: m, Age: p.AgeCap, Penalty: 1.0, CrossPenalty: 1.0}
		for _, h := range history {
			b.played(h, p, disc, crossDisc)
		}
		if err := b.finalize(p); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (b *Breakdown) played(other *catalog.Map, p Params, disc, crossDisc float64) {
	b.Penalty *= disc
	b.CrossPenalty *= crossDisc
	b.Age = min(p.AgeCap, b.Age+1)

	if other.ID == b.Map.ID {
		b.Age = 1
	}

	if other.GroupID != b.Map.GroupID {
		return
	}
	if other.Mode == b.Map.Mode {
		b.Penalty += p.RoundPenalty
	} else {
		// sibling in another mode: cheaper, and decays faster
		b.CrossPenalty += b.Map.Mode.Discount(other.Mode) * p.RoundPenalty
	}
}

func (b *Breakdown) finalize(p Params) error {
	combined := b.Penalty + b.CrossPenalty
	s := 1000.0 / math.Pow(combined, p.PenaltyNonlinearity)
	s *= math.Pow(float64(b.Age), p.AgePow)
	// NaN would survive the clamp
	if math.IsNaN(s) || combined <= 0 {
		return &NumericInvariantError{MapID: b.Map.ID, Age: b.Age, Penalty: b.Penalty, CrossPenalty: b.CrossPenalty, Score: s}
	}
	b.Score = min(max(s, p.MinScore), p.MaxScore)
	return nil
}

// Normalize scales weights so they sum to 1.
func Normalize(scores []Candidate) []Candidate {
	var sum float64
	for _, s := range scores {
		sum += s.Weight
	}
	out := make([]Candidate, len(scores))
	for i, s := range scores {
		out[i] = Candidate{Weight: s.Weight / sum, Map: s.Map}
	}
	return out
}

// sortDesc orders candidates by weight, highest first, keeping the existing
// order among equal weights.
func sortDesc(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Weight > c[j].Weight })
}

// Rank scores every eligible map against history and returns the normalized
// distribution, highest weight first.
func Rank(history, maps []*catalog.Map, mode catalog.Mode, players uint16, p Params) ([]Candidate, error) {
	_, dist, err := rank(history, maps, mode, players, p)
	return dist, err
}

// rank is Rank that also returns the raw breakdowns, in catalog order.
func rank(history, maps []*catalog.Map, mode catalog.Mode, players uint16, p Params) ([]Breakdown, []Candidate, error) {
	eligible := Eligible(maps, mode, players, p)
	if len(eligible) == 0 {
		return nil, nil, ErrEmptyCandidates
	}
	breakdowns, err := Evaluate(history, eligible, p)
	if err != nil {
		return nil, nil, err
	}
	return breakdowns, distribution(breakdowns), nil
}

func distribution(breakdowns []Breakdown) []Candidate {
	raw := make([]Candidate, len(breakdowns))
	for i, b := range breakdowns {
		raw[i] = Candidate{Weight: b.Score, Map: b.Map}
	}
	scores := Normalize(raw)
	sortDesc(scores)
	return scores
}
