package de

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
)

// ObjectiveFunc is the base (unpenalized) fitness function being minimized.
type ObjectiveFunc func(x []float64) float64

// Solver runs Differential Evolution over box-constrained parameters
// [Lower[i], Upper[i]].
type Solver struct {
	Func         ObjectiveFunc
	Lower, Upper []float64
	Config       Config
}

// NewSolver constructs a Solver with DefaultConfig; callers mutate
// s.Config before calling Solve.
func NewSolver(fn ObjectiveFunc, lower, upper []float64) *Solver {
	return &Solver{Func: fn, Lower: lower, Upper: upper, Config: DefaultConfig()}
}

// energy evaluates the base objective plus the configured penalty terms.
func (s *Solver) energy(x []float64) float64 {
	base := s.Func(x)
	var p float64
	for _, pf := range s.Config.PenaltyIneq {
		v := math.Max(0, pf.Fn(x))
		p += pf.Weight * v * v
	}
	for _, pf := range s.Config.PenaltyEq {
		v := pf.Fn(x)
		p += pf.Weight * v * v
	}
	return base + p
}

// evaluateParallel evaluates every row of pop via s.energy, fanning out
// across a bounded goroutine pool joined with a sync.WaitGroup.
func (s *Solver) evaluateParallel(pop population) []float64 {
	n := len(pop)
	out := make([]float64, n)

	workers := s.Config.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i, x := range pop {
			out[i] = s.energy(x)
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = s.energy(pop[i])
			}
		}()
	}
	for i := range pop {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// minDonorPool returns the smallest population size a strategy's mutation
// rule can draw distinct donors from: distinctIndices(n, k, excludes...)
// needs n >= k+len(excludes), and every strategy excludes at least {i} (plus
// bestIdx for the *Best*/*ToBest* rules).
func minDonorPool(strategy Strategy) int {
	switch strategy {
	case Rand2Bin, Rand2Exp:
		return 6 // distinctIndices(n, 5, i): n >= 6
	case Best2Bin, Best2Exp:
		return 6 // distinctIndices(n, 4, i, bestIdx): n >= 6
	case RandToBest1Bin, RandToBest1Exp:
		return 5 // distinctIndices(n, 3, i, bestIdx): n >= 5
	default:
		return 4 // Best1/Rand1/CurrentToBest1/Adaptive all need n >= 4
	}
}

// Solve runs the optimizer to completion (convergence, max iterations, or
// an early callback stop) and returns a Report. It returns an error without
// running if the configured population would be too small for the
// configured mutation Strategy to draw distinct donor vectors from.
func (s *Solver) Solve() (Report, error) {
	n := len(s.Lower)
	cfg := s.Config

	nFree := 0
	for i := 0; i < n; i++ {
		if s.Upper[i]-s.Lower[i] != 0 {
			nFree++
		}
	}

	if nFree == 0 {
		x := append([]float64(nil), s.Lower...)
		f := s.energy(x)
		return Report{
			X: x, Fun: f, Success: true, Message: "all variables fixed by bounds",
			Iterations: 0, FuncEvals: 1,
			Population: population{x}, PopulationEnergies: []float64{f},
		}, nil
	}

	npop := cfg.PopSize * nFree
	if npop < 4 {
		return Report{}, fmt.Errorf("de: population size %d (PopSize=%d * %d free params) is below the minimum of 4", npop, cfg.PopSize, nFree)
	}
	if need := minDonorPool(cfg.Strategy); npop < need {
		return Report{}, fmt.Errorf("de: population size %d is too small for strategy %v, which needs at least %d members to draw distinct donor vectors", npop, cfg.Strategy, need)
	}

	rngMain := newRNG(cfg.Seed, 0, 0)

	var pop population
	switch cfg.Init {
	case Random:
		pop = initRandom(n, npop, s.Lower, s.Upper, rngMain)
	default:
		pop = initLatinHypercube(n, npop, s.Lower, s.Upper, rngMain)
	}

	energies := s.evaluateParallel(pop)
	nfev := npop

	if len(cfg.X0) == n {
		x0 := make([]float64, n)
		for i := range x0 {
			x0[i] = clamp(cfg.X0[i], s.Lower[i], s.Upper[i])
		}
		f0 := s.energy(x0)
		nfev++
		bestIdx, _ := argmin(energies)
		pop[bestIdx] = x0
		energies[bestIdx] = f0
	}

	bestIdx, bestF := argmin(energies)
	bestX := append([]float64(nil), pop[bestIdx]...)

	var adaptive *adaptiveState
	if cfg.Strategy.isAdaptive() || cfg.AdaptiveMutation {
		adaptive = newAdaptiveState(cfg.Adaptive)
	}

	success := false
	message := ""
	nit := 0

	for iter := 1; iter <= cfg.MaxIter; iter++ {
		nit = iter

		trials := make(population, npop)
		trialF := make([]float64, npop)
		trialCR := make([]float64, npop)

		var wg sync.WaitGroup
		workers := cfg.Parallelism
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		sem := make(chan struct{}, workers)
		for i := 0; i < npop; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()

				rng := newRNG(cfg.Seed, iter, i)

				var f, cr float64
				if adaptive != nil {
					f = adaptive.sampleF(rng)
					cr = adaptive.sampleCR(rng)
				} else {
					f = cfg.Mutation.sample(rng)
					cr = cfg.CR
				}

				mutant := generateMutant(cfg.Strategy, i, pop, bestIdx, energies, adaptive, f, rng)

				var trial []float64
				if cfg.Strategy.isExponential() {
					trial = exponentialCrossover(pop[i], mutant, cr, rng)
				} else {
					trial = binomialCrossover(pop[i], mutant, cr, rng)
				}

				for j := range trial {
					trial[j] = clamp(trial[j], s.Lower[j], s.Upper[j])
				}

				trials[i] = trial
				trialF[i] = f
				trialCR[i] = cr
			}(i)
		}
		wg.Wait()

		trialEnergies := s.evaluateParallel(trials)
		nfev += npop

		for i := 0; i < npop; i++ {
			if trialEnergies[i] <= energies[i] {
				pop[i] = trials[i]
				energies[i] = trialEnergies[i]
				if adaptive != nil {
					adaptive.recordSuccess(trialF[i], trialCR[i])
				}
			}
		}

		if adaptive != nil {
			adaptive.update(iter, cfg.MaxIter)
		}

		newBestIdx, newBestF := argmin(energies)
		if newBestF < bestF {
			bestIdx = newBestIdx
			bestF = newBestF
			bestX = append([]float64(nil), pop[bestIdx]...)
		}

		mean, std := meanStd(energies)
		threshold := cfg.ATol + cfg.Tol*math.Abs(mean)

		if cfg.Callback != nil {
			action := cfg.Callback(Intermediate{X: bestX, Fun: bestF, Convergence: std, Iter: iter})
			if action == Stop {
				success = true
				message = "optimization stopped by callback"
				break
			}
		}

		if std <= threshold {
			success = true
			message = fmt.Sprintf("converged: std(pop_f)=%.3e <= threshold=%.3e", std, threshold)
			break
		}
	}

	if !success {
		message = fmt.Sprintf("maximum iterations reached: %d", cfg.MaxIter)
	}

	finalX, finalF, polishEvals := bestX, bestF, 0
	if cfg.Polish.Enabled {
		finalX, finalF, polishEvals = s.polish(bestX)
	}

	return Report{
		X: finalX, Fun: finalF, Success: success, Message: message,
		Iterations: nit, FuncEvals: nfev + polishEvals,
		Population: pop, PopulationEnergies: energies,
	}, nil
}

func generateMutant(strategy Strategy, i int, pop population, bestIdx int, energies []float64, adaptive *adaptiveState, f float64, rng *rngSource) []float64 {
	switch strategy {
	case Best1Bin, Best1Exp:
		return mutantBest1(i, pop, bestIdx, f, rng)
	case Rand1Bin, Rand1Exp:
		return mutantRand1(i, pop, f, rng)
	case Rand2Bin, Rand2Exp:
		return mutantRand2(i, pop, f, rng)
	case CurrentToBest1Bin, CurrentToBest1Exp:
		return mutantCurrentToBest1(i, pop, bestIdx, f, rng)
	case Best2Bin, Best2Exp:
		return mutantBest2(i, pop, bestIdx, f, rng)
	case RandToBest1Bin, RandToBest1Exp:
		return mutantRandToBest1(i, pop, bestIdx, f, rng)
	case AdaptiveBin, AdaptiveExp:
		if adaptive != nil {
			return mutantAdaptive(i, pop, energies, adaptive.currentW, f, rng)
		}
		return mutantRand1(i, pop, f, rng)
	default:
		return mutantCurrentToBest1(i, pop, bestIdx, f, rng)
	}
}

func argmin(v []float64) (int, float64) {
	bestI, bestV := 0, v[0]
	for i, x := range v {
		if x < bestV {
			bestV = x
			bestI = i
		}
	}
	return bestI, bestV
}

func meanStd(v []float64) (mean, std float64) {
	n := float64(len(v))
	for _, x := range v {
		mean += x
	}
	mean /= n

	var ss float64
	for _, x := range v {
		d := x - mean
		ss += d * d
	}
	std = math.Sqrt(ss / n)
	return mean, std
}

// sortedEnergiesIndex is exposed for diagnostics/tests that want population
// members ranked best-to-worst without mutating the solver's own slices.
func sortedEnergiesIndex(energies []float64) []int {
	idx := make([]int, len(energies))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return energies[idx[a]] < energies[idx[b]] })
	return idx
}
