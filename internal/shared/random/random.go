package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
)

// Source supplies the randomness consumed by battle, stealth, and siege
// resolution. Implementations must be safe for single-goroutine use only;
// callers hold one Source per request.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Uniform returns a value in [lo, hi).
	Uniform(lo, hi float64) float64
	// IntBetween returns an integer in [lo, hi] inclusive.
	IntBetween(lo, hi int) int
}

type source struct {
	rng *mrand.Rand
}

// NewSeed generates a cryptographically random seed value.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a Source with a crypto-generated seed. It falls through to a
// deterministic seed only if the system entropy source fails.
func New() Source {
	seed, err := NewSeed()
	if err != nil {
		seed = 1
	}
	return NewSeeded(seed)
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &source{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *source) Float64() float64 {
	return s.rng.Float64()
}

func (s *source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *source) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
