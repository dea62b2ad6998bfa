package physics

import "math/rand/v2"

// RandomGenerator is a seedable source for spawn positions, velocities and
// spin. Two generators with the same seed produce the same sequence.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator creates a generator seeded with seed.
func NewRandomGenerator(seed uint64) *RandomGenerator {
	g := &RandomGenerator{}
	g.Seed(seed)
	return g
}

// Seed resets the generator to the start of the sequence for seed.
func (g *RandomGenerator) Seed(seed uint64) {
	g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomFloat draws a value in [min,max] quantized to 1/precision steps.
// A non-positive precision is treated as 1.
func (g *RandomGenerator) RandomFloat(min, max float64, precision int) float64 {
	if precision <= 0 {
		precision = 1
	}
	if max <= min {
		return min
	}
	steps := int((max - min) * float64(precision))
	n := g.rng.IntN(steps + 1)
	return float64(n)/float64(precision) + min
}

// RandomInt draws an integer in [min,max].
func (g *RandomGenerator) RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	return g.rng.IntN(max-min+1) + min
}

// RandomPosition draws a point inside the play field.
func (g *RandomGenerator) RandomPosition() Vector2D {
	p := Vector2D{
		X: g.RandomFloat(0, WorldWidth, 1000),
		Y: g.RandomFloat(0, WorldHeight, 1000),
	}
	// The inclusive upper bound is the one value outside the field.
	return Wrap(p)
}
