package t2048

import (
	"math/rand"
	"time"
)

// Rand is the only source of randomness used by the engine.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func defaultRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}
