package systems

import (
	"math/rand"
	"time"
)

// Rand is the random source the simulation draws from.
// *rand.Rand satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64 // Uniform in [0, 1)
	Intn(n int) int   // Uniform in [0, n)
}

// NewRand returns a time-seeded source.
func NewRand() *rand.Rand {
	return NewSeededRand(time.Now().UnixNano())
}

// NewSeededRand returns a source that replays the same draws for the same seed.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
