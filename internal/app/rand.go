package app

import (
	"hash/maphash"
	"math/rand/v2"
)

// createRand returns a generator seeded with seed when seeded is true and
// with random state otherwise.
func createRand(seed uint64, seeded bool) *rand.Rand {
	if seeded {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}
