package cpu

import (
	"math/rand/v2"
)

// Random is a seeded generator, so runs with the same seed repeat.
// The idle peripheral and the emulator console both draw from one.
type Random struct {
	Seed uint64

	rng *rand.Rand
}

// Reset restarts the sequence from Seed.
func (rnd *Random) Reset() {
	rnd.rng = rand.New(rand.NewPCG(rnd.Seed, rnd.Seed^0x9e3779b97f4a7c15))
}

// Next returns a uniform value in [0, bound].
func (rnd *Random) Next(bound uint16) uint16 {
	if rnd.rng == nil {
		rnd.Reset()
	}
	return uint16(rnd.rng.IntN(int(bound) + 1))
}
