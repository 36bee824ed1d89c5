package de

// population is a flat [popSize][nDim] matrix of decision vectors.
type population [][]float64

func mutantBest1(i int, pop population, bestIdx int, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 2, i, bestIdx)
	r1, r2 := idx[0], idx[1]
	return addScaled(pop[bestIdx], diff(pop[r1], pop[r2]), f)
}

func mutantRand1(i int, pop population, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 3, i)
	r0, r1, r2 := idx[0], idx[1], idx[2]
	return addScaled(pop[r0], diff(pop[r1], pop[r2]), f)
}

func mutantRand2(i int, pop population, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 5, i)
	r0, r1, r2, r3, r4 := idx[0], idx[1], idx[2], idx[3], idx[4]
	v := addScaled(pop[r0], diff(pop[r1], pop[r2]), f)
	return addScaled(v, diff(pop[r3], pop[r4]), f)
}

func mutantCurrentToBest1(i int, pop population, bestIdx int, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 2, i, bestIdx)
	r1, r2 := idx[0], idx[1]
	v := addScaled(pop[i], diff(pop[bestIdx], pop[i]), f)
	return addScaled(v, diff(pop[r1], pop[r2]), f)
}

func mutantBest2(i int, pop population, bestIdx int, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 4, i, bestIdx)
	r1, r2, r3, r4 := idx[0], idx[1], idx[2], idx[3]
	v := addScaled(pop[bestIdx], diff(pop[r1], pop[r2]), f)
	return addScaled(v, diff(pop[r3], pop[r4]), f)
}

func mutantRandToBest1(i int, pop population, bestIdx int, f float64, rng *rngSource) []float64 {
	idx := rng.distinctIndices(len(pop), 3, i, bestIdx)
	r0, r1, r2 := idx[0], idx[1], idx[2]
	v := addScaled(pop[r0], diff(pop[bestIdx], pop[r0]), f)
	return addScaled(v, diff(pop[r1], pop[r2]), f)
}

// mutantAdaptive draws pBest from the top currentW fraction of the population
// by energy (SAM-style dynamic sampling). The top set always holds at least
// one member; when i is its only member, pBest is i itself.
func mutantAdaptive(i int, pop population, energies []float64, currentW, f float64, rng *rngSource) []float64 {
	n := len(pop)
	topN := int(currentW * float64(n))
	if topN < 1 {
		topN = 1
	}

	order := rankByEnergy(energies)
	top := order[:topN]

	pick := func(exclude ...int) int {
		excluded := map[int]bool{}
		for _, e := range exclude {
			excluded[e] = true
		}
		for {
			idx := top[rng.IntN(len(top))]
			if !excluded[idx] {
				return idx
			}
			if len(excluded) >= len(top) {
				return idx
			}
		}
	}

	pBest := pick(i)
	idx := rng.distinctIndices(n, 2, i, pBest)
	r1, r2 := idx[0], idx[1]
	v := addScaled(pop[i], diff(pop[pBest], pop[i]), f)
	return addScaled(v, diff(pop[r1], pop[r2]), f)
}

func rankByEnergy(energies []float64) []int {
	order := make([]int, len(energies))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && energies[order[j]] < energies[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func diff(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

func addScaled(base, delta []float64, scale float64) []float64 {
	out := make([]float64, len(base))
	for i := range out {
		out[i] = base[i] + scale*delta[i]
	}
	return out
}
