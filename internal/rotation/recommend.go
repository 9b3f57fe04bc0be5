package rotation

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xtding233/maprotation/internal/catalog"
)

// DefaultChoices is how many maps a recommendation offers.
const DefaultChoices = 3

// Recommender picks the next maps to offer from a catalog. It keeps no state
// between calls apart from its random source; history is always passed in.
type Recommender struct {
	cat    *catalog.Catalog
	params Params
	rng    RandomSource
	log    zerolog.Logger
}

type Option func(*Recommender)

func WithParams(p Params) Option { return func(r *Recommender) { r.params = p } }

func WithRNG(rng RandomSource) Option { return func(r *Recommender) { r.rng = rng } }

func WithLogger(l zerolog.Logger) Option { return func(r *Recommender) { r.log = l } }

// New creates a Recommender over cat.
func New(cat *catalog.Catalog, opts ...Option) (*Recommender, error) {
	r := &Recommender{
		cat:    cat,
		params: DefaultParams(),
		rng:    DefaultRNG(),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	if err := r.params.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recommender) Catalog() *catalog.Catalog { return r.cat }

func (r *Recommender) Params() Params { return r.params }

// AllCandidates returns the full distribution over maps of mode that support
// players, highest weight first, without sampling.
func (r *Recommender) AllCandidates(history []*catalog.Map, mode catalog.Mode, players uint16) ([]Candidate, error) {
	breakdowns, dist, err := rank(history, r.cat.Maps(), mode, players, r.params)
	if errors.Is(err, ErrEmptyCandidates) {
		return nil, fmt.Errorf("%s for %d players: %w", mode, players, err)
	}
	if err != nil {
		return nil, err
	}
	for _, b := range breakdowns {
		r.log.Debug().
			Str("map", b.Map.Info()).
			Int("age", b.Age).
			Float64("penalty", b.Penalty).
			Float64("cross_penalty", b.CrossPenalty).
			Float64("score", b.Score).
			Msg("raw score")
	}
	r.log.Debug().
		Str("mode", mode.String()).
		Uint16("players", players).
		Int("history", len(history)).
		Int("candidates", len(dist)).
		Msg("ranked maps")
	return dist, nil
}

// Recommend offers k distinct maps of mode for players, drawn by weight.
// The returned weights are each map's share of the full distribution.
func (r *Recommender) Recommend(history []*catalog.Map, mode catalog.Mode, players uint16, k int) ([]Candidate, error) {
	dist, err := r.AllCandidates(history, mode, players)
	if err != nil {
		return nil, err
	}
	picks, err := Sample(dist, k, r.rng)
	if err != nil {
		return nil, fmt.Errorf("%s for %d players: %w", mode, players, err)
	}
	for _, p := range picks {
		r.log.Debug().Str("map", p.Map.Info()).Float64("weight", p.Weight).Msg("offered")
	}
	return picks, nil
}

// DefaultMode is the mode to start a session in: the one after the last
// played map, or TD for an empty history.
func DefaultMode(history []*catalog.Map) catalog.Mode {
	if len(history) == 0 {
		return catalog.TD
	}
	return history[len(history)-1].Mode.Next()
}
