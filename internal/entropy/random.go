// Package entropy provides the seedable random source threaded through every
// stochastic stage of the simulation. Falls back to crypto/rand for seeding
// when no seed is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is a deterministic random stream. Not safe for concurrent use; the
// tick pipeline is single-threaded.
type Source struct {
	seed int64
	rng  *mrand.Rand
}

// New creates a source from seed. A zero seed draws one from crypto/rand.
func New(seed int64) *Source {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return &Source{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 { return s.seed }

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 { return s.rng.Float64() }

// Uniform returns a uniform float64 in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Normal returns a normally distributed float64.
func (s *Source) Normal(mean, stddev float64) float64 {
	return mean + s.rng.NormFloat64()*stddev
}

// Intn returns a uniform int in [0, n). n <= 0 yields 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// WeightedPick selects an index with probability proportional to its integer
// weight. A draw d is taken uniformly from [0, total) and the first index
// whose cumulative weight reaches d wins. Returns -1 for an empty slice.
func (s *Source) WeightedPick(weights []int) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0
	cumulative := make([]int, len(weights))
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	draw := s.Intn(total)
	for i, c := range cumulative {
		if c >= draw {
			return i
		}
	}
	return len(weights) - 1
}

// CryptoSeed generates a non-zero seed using crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but return a fixed seed as a safe default.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
