package rotation

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
)

// RandomSource supplies uniform values in [0, 1). Sample takes one value
// per drawn map.
type RandomSource interface {
	Float64() float64
}

// DefaultRNG returns a ChaCha8 stream keyed from crypto/rand, for
// interactive use. It is not safe for concurrent use.
func DefaultRNG() RandomSource {
	var key [32]byte
	_, _ = cryptorand.Read(key[:])
	return rand.New(rand.NewChaCha8(key))
}

// NewSeededRNG returns a reproducible source (simulations, tests, --seed).
// Equal seeds give equal sequences.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
