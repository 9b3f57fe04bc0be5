package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCandidates means no map matched the requested mode and player
	// count. Callers must never ask for an empty set.
	ErrEmptyCandidates = errors.New("no eligible maps")

	// ErrInsufficientCandidates means fewer maps matched than were requested.
	ErrInsufficientCandidates = errors.New("not enough eligible maps")

	// ErrDuplicateDraw means the sampler picked the same map twice in one call.
	ErrDuplicateDraw = errors.New("map drawn twice")

	ErrInvalidParams = errors.New("invalid scoring params")
)

// NumericInvariantError carries the intermediate values of a score that came
// out non-finite.
type NumericInvariantError struct {
	MapID        uint16
	Age          int
	Penalty      float64
	CrossPenalty float64
	Score        float64
}

func (e *NumericInvariantError) Error() string {
	return fmt.Sprintf("score for map %d is not finite: score=%v age=%d penalty=%v cross_penalty=%v",
		e.MapID, e.Score, e.Age, e.Penalty, e.CrossPenalty)
}
