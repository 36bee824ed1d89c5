package de

import (
	"gonum.org/v1/gonum/optimize"
)

// polish runs a Nelder-Mead local search seeded at x0, clamping every
// candidate point back into the solver's bounds before evaluating it so the
// refinement never escapes the DE search box.
func (s *Solver) polish(x0 []float64) (x []float64, f float64, evals int) {
	n := len(x0)

	clampedEnergy := func(x []float64) float64 {
		clamped := make([]float64, n)
		for i := range x {
			clamped[i] = clamp(x[i], s.Lower[i], s.Upper[i])
		}
		return s.energy(clamped)
	}

	problem := optimize.Problem{Func: clampedEnergy}

	settings := &optimize.Settings{}
	if s.Config.Polish.MaxEval > 0 {
		settings.MajorIterations = s.Config.Polish.MaxEval
		settings.FuncEvaluations = s.Config.Polish.MaxEval
	}

	result, err := optimize.Minimize(problem, append([]float64(nil), x0...), settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return append([]float64(nil), x0...), s.energy(x0), 1
	}

	best := make([]float64, n)
	for i := range best {
		best[i] = clamp(result.X[i], s.Lower[i], s.Upper[i])
	}
	bestF := s.energy(best)

	if bestF > result.F {
		return best, bestF, result.Stats.FuncEvaluations + 1
	}
	return best, bestF, result.Stats.FuncEvaluations
}
