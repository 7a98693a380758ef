package world

import "golang.org/x/exp/rand"

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewSource(seed))
}
