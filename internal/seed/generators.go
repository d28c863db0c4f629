package seed

import (
	"errors"
	mrand "math/rand"
	"math/rand/v2"
)

// ErrAlreadySeeded is returned when a Generators set is seeded twice.
var ErrAlreadySeeded = errors.New("generators already seeded")

// Generators is the set of pseudo-random sources a run draws from. It is
// passed explicitly to whatever needs randomness instead of living in
// package state, so several runs can coexist in one process.
type Generators struct {
	pcg *rand.PCG

	// Pipeline is the run's own generator.
	Pipeline *rand.Rand

	// Legacy serves code written against math/rand.
	Legacy *mrand.Rand

	seeded bool
}

// NewGenerators returns an unseeded generator set.
func NewGenerators() *Generators {
	pcg := rand.NewPCG(0, 0)
	return &Generators{
		pcg:      pcg,
		Pipeline: rand.New(pcg),
		Legacy:   mrand.New(mrand.NewSource(0)),
	}
}

// Seed seeds every generator with v. It may be called once.
func (g *Generators) Seed(v uint64) error {
	if g.seeded {
		return ErrAlreadySeeded
	}
	g.pcg.Seed(v, v)
	g.Legacy.Seed(int64(v))
	g.seeded = true
	return nil
}

// Seeded reports whether Seed has been called.
func (g *Generators) Seeded() bool {
	return g.seeded
}
