package de

// binomialCrossover builds the trial vector by taking each coordinate from
// mutant with probability cr, always including at least one forced
// coordinate (chosen uniformly) so the trial never equals the target.
func binomialCrossover(target, mutant []float64, cr float64, rng *rngSource) []float64 {
	n := len(target)
	trial := make([]float64, n)
	jRand := rng.IntN(n)

	for j := 0; j < n; j++ {
		if j == jRand || rng.Float64() < cr {
			trial[j] = mutant[j]
		} else {
			trial[j] = target[j]
		}
	}
	return trial
}

// exponentialCrossover copies a contiguous run of coordinates (starting at a
// random index, wrapping around) from mutant into the trial, of random
// length governed by cr, then fills the remainder from target.
func exponentialCrossover(target, mutant []float64, cr float64, rng *rngSource) []float64 {
	n := len(target)
	trial := make([]float64, n)
	copy(trial, target)

	start := rng.IntN(n)
	l := 0
	for {
		idx := (start + l) % n
		trial[idx] = mutant[idx]
		l++
		if l >= n || rng.Float64() >= cr {
			break
		}
	}
	return trial
}
