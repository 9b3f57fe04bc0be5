package rotation

import (
	"fmt"
	"math"
	"strings"
)

// Default scoring constants.
const (
	DefaultAgeCap              = 200
	DefaultRoundPenalty        = 1000.0
	DefaultHalfLife            = 64.0  // rounds for a same-mode group penalty to halve
	DefaultCrossHalfLife       = 12.0  // rounds for a cross-mode sibling penalty to halve
	DefaultPenaltyNonlinearity = 1.4   // penalty raised to this power before inverting
	DefaultAgePow              = 0.6   // age raised to this power before multiplying
	DefaultMinScore            = 0.001 // clamp bounds for the raw score
	DefaultMaxScore            = 100000.0
)

// Params tunes the scoring engine. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	AgeCap              int
	RoundPenalty        float64
	HalfLife            float64
	CrossHalfLife       float64
	PenaltyNonlinearity float64
	AgePow              float64
	MinScore            float64
	MaxScore            float64

	// Eligibility switches. Both off means only mode and player count
	// decide eligibility.
	SkipDisabled bool
	SkipGag      bool
}

func DefaultParams() Params {
	return Params{
		AgeCap:              DefaultAgeCap,
		RoundPenalty:        DefaultRoundPenalty,
		HalfLife:            DefaultHalfLife,
		CrossHalfLife:       DefaultCrossHalfLife,
		PenaltyNonlinearity: DefaultPenaltyNonlinearity,
		AgePow:              DefaultAgePow,
		MinScore:            DefaultMinScore,
		MaxScore:            DefaultMaxScore,
	}
}

// RoundDiscount is the per-round decay of the same-mode penalty, 2^(-1/HalfLife).
func (p Params) RoundDiscount() float64 { return math.Pow(2, -1/p.HalfLife) }

// CrossRoundDiscount is the per-round decay of the cross-mode penalty.
func (p Params) CrossRoundDiscount() float64 { return math.Pow(2, -1/p.CrossHalfLife) }

// Validate checks that every constant keeps the score finite and positive.
func (p Params) Validate() error {
	var errs []string
	positive := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be a positive number", name))
		}
	}
	if p.AgeCap < 1 {
		errs = append(errs, "age_cap must be >= 1")
	}
	positive("round_penalty", p.RoundPenalty)
	positive("half_life", p.HalfLife)
	positive("cross_half_life", p.CrossHalfLife)
	positive("penalty_nonlinearity", p.PenaltyNonlinearity)
	positive("min_score", p.MinScore)
	positive("max_score", p.MaxScore)
	if math.IsNaN(p.AgePow) || math.IsInf(p.AgePow, 0) || p.AgePow < 0 {
		errs = append(errs, "age_pow must be >= 0")
	}
	if p.MinScore > p.MaxScore {
		errs = append(errs, "min_score must be <= max_score")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(errs, "; "))
	}
	return nil
}
