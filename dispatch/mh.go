package dispatch

import (
	"fmt"
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/cwbudde/autoeq/objective"
)

// floatGenome adapts a box-constrained real vector to eaopt's Genome
// interface: Gaussian mutation with per-gene clamping back into bounds,
// and SBX crossover, the library's own documented real-valued recipe.
type floatGenome struct {
	x            []float64
	lower, upper []float64
	fitness      func([]float64) float64
}

func (g *floatGenome) Evaluate() (float64, error) {
	return g.fitness(g.x), nil
}

func (g *floatGenome) Mutate(rng *rand.Rand) {
	eaopt.MutNormalFloat64(g.x, 0.8, rng)
	for i := range g.x {
		g.x[i] = clampf(g.x[i], g.lower[i], g.upper[i])
	}
}

func (g *floatGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	o := other.(*floatGenome)
	eaopt.CrossSBX(g.x, o.x, 1, rng)
	for i := range g.x {
		g.x[i] = clampf(g.x[i], g.lower[i], g.upper[i])
		o.x[i] = clampf(o.x[i], o.lower[i], o.upper[i])
	}
}

func (g *floatGenome) Clone() eaopt.Genome {
	return &floatGenome{
		x:       append([]float64(nil), g.x...),
		lower:   g.lower,
		upper:   g.upper,
		fitness: g.fitness,
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// optimizeFiltersMH runs one of the mh:* algorithm names through eaopt's
// generic genetic-algorithm engine. eaopt has no distinct DE/PSO/RGA/TLBO/
// Firefly implementations the way the reference metaheuristics_nature
// crate does (see DESIGN.md); the mh_name suffix is accepted for
// compatibility and recorded in the status string, but every mh:* entry
// currently runs the same eaopt.GA backend, matching the original's own
// "falls back to De::default()" behavior for unrecognized suffixes.
func optimizeFiltersMH(x, lower, upper []float64, data objective.Data, mhName string, population, maxeval int) (string, float64, error) {
	n := len(x)

	penalized := data
	penalized.PenaltyWCeiling = 1e4
	if data.SpacingWeight > 0 {
		penalized.PenaltyWSpacing = data.SpacingWeight * 1e3
	}
	penalized.PenaltyWMinGain = 1e3

	popSize := population
	if popSize < 1 {
		popSize = 1
	}
	generations := (maxeval + popSize - 1) / popSize

	cfg := eaopt.NewDefaultGAConfig()
	cfg.NPops = 1
	cfg.PopSize = uint(popSize)
	cfg.NGenerations = uint(generations)

	ga, err := cfg.NewGA()
	if err != nil {
		return "", 0, err
	}

	x0 := append([]float64(nil), x...)
	first := true

	newGenome := func(rng *rand.Rand) eaopt.Genome {
		vec := make([]float64, n)
		if first {
			copy(vec, x0)
			first = false
		} else {
			for i := range vec {
				vec[i] = lower[i] + rng.Float64()*(upper[i]-lower[i])
			}
		}
		return &floatGenome{x: vec, lower: lower, upper: upper, fitness: penalized.ComputeFitnessPenalties}
	}

	if err := ga.Minimize(newGenome); err != nil {
		return "", 0, err
	}

	best := ga.HallOfFame[0].Genome.(*floatGenome)
	copy(x, best.x)
	fBest, _ := ga.HallOfFame[0].Evaluate()

	return fmt.Sprintf("eaopt(%s)", mhName), fBest, nil
}
