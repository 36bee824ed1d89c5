package de

// initLatinHypercube builds an npop x n population via per-dimension
// stratified sampling: each dimension's [lower,upper] range is split into
// npop equal strata, one sample is drawn per stratum, and the per-dimension
// orderings are independently shuffled so strata pair up randomly across
// dimensions.
func initLatinHypercube(n, npop int, lower, upper []float64, rng *rngSource) population {
	pop := make(population, npop)
	for i := range pop {
		pop[i] = make([]float64, n)
	}

	for dim := 0; dim < n; dim++ {
		if upper[dim]-lower[dim] == 0 {
			for i := 0; i < npop; i++ {
				pop[i][dim] = lower[dim]
			}
			continue
		}

		perm := rng.permutation(npop)
		step := (upper[dim] - lower[dim]) / float64(npop)
		for i := 0; i < npop; i++ {
			stratum := perm[i]
			offset := rng.Float64()
			pop[i][dim] = lower[dim] + step*(float64(stratum)+offset)
		}
	}

	return pop
}

// initRandom draws each coordinate uniformly from [lower,upper].
func initRandom(n, npop int, lower, upper []float64, rng *rngSource) population {
	pop := make(population, npop)
	for i := range pop {
		row := make([]float64, n)
		for dim := 0; dim < n; dim++ {
			if upper[dim] == lower[dim] {
				row[dim] = lower[dim]
				continue
			}
			row[dim] = lower[dim] + rng.Float64()*(upper[dim]-lower[dim])
		}
		pop[i] = row
	}
	return pop
}

func (s *rngSource) permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
