package dispatch

import (
	"fmt"

	"github.com/cwbudde/autoeq/constraint"
	"github.com/cwbudde/autoeq/de"
	"github.com/cwbudde/autoeq/objective"
	"github.com/cwbudde/autoeq/peq"
)

// setupDECommon derives the DE solver's population size and iteration
// budget from the caller's (population, maxeval) pair, matching
// optim_de.rs's setup_de_common: pop_size is at least 15, and max_iter
// never exceeds ten generations per population member.
func setupDECommon(population, maxeval int) (popSize, maxIter int) {
	popSize = population
	if popSize < 15 {
		popSize = 15
	}
	maxIter = maxeval
	if cap := popSize * 10; maxIter > cap {
		maxIter = cap
	}
	return popSize, maxIter
}

// optimizeFiltersAutoEQ runs the in-tree Differential Evolution solver
// with AutoEQ-native nonlinear constraints (ceiling/min-gain/spacing
// registered as penalty terms at the dispatch-branch-specific override
// weight, not objective.Data's own zeroed-by-default weights) per
// optim_de.rs's create_de_objective/NonlinearConstraintHelper wiring.
func optimizeFiltersAutoEQ(x, lower, upper []float64, data objective.Data, population, maxeval int, callback func(de.Intermediate) de.CallbackAction) (string, float64, error) {
	popSize, maxIter := setupDECommon(population, maxeval)

	// optim_de.rs registers native nonlinear constraints instead of penalty
	// terms, so the shared objective.Data penalty weights are zeroed here;
	// the equivalent penalties are supplied to the DE solver directly below
	// at weight 1e3/1e3, matching NonlinearConstraintHelper.apply_to.
	unpenalized := data
	unpenalized.PenaltyWCeiling = 0
	unpenalized.PenaltyWSpacing = 0
	unpenalized.PenaltyWMinGain = 0

	hpFamily := data.Model == peq.HpPk || data.Model == peq.HpPkLp
	ceiling := constraint.Ceiling{
		Freqs: data.Freqs, SampleRate: data.SampleRate, MaxDB: data.MaxDB,
		Model: data.Model, Active: hpFamily && data.MaxDB > 0,
	}
	minGain := constraint.MinGain{
		MinDB: data.MinDB, Model: data.Model,
	}
	spacing := constraint.Spacing{MinOctaves: data.MinSpacingOct}

	solver := de.NewSolver(unpenalized.ComputeFitnessPenalties, lower, upper)
	solver.Config.PopSize = popSize
	solver.Config.MaxIter = maxIter
	solver.Config.X0 = append([]float64(nil), x...)

	// The optim_de.rs call site overrides the library's own adaptive
	// defaults (w_max=0.9/w_min=0.1/f_m=0.5/cr_m=0.6) with a narrower,
	// faster-converging schedule specific to this dispatch branch.
	solver.Config.Adaptive.WMax = 0.8
	solver.Config.Adaptive.WMin = 0.2
	solver.Config.Adaptive.FM = 0.6
	solver.Config.Adaptive.CrM = 0.5

	if solver.Config.Strategy.IsAdaptive() {
		solver.Config.Tol *= 10
	}

	solver.Config.PenaltyIneq = []de.PenaltyFunc{
		{Weight: 1e3, Fn: ceiling.Hard},
		{Weight: 1e3, Fn: minGain.Hard},
		{Weight: 1e3, Fn: spacing.Hard},
	}

	if callback != nil {
		solver.Config.Callback = callback
	}

	report, err := solver.Solve()
	if err != nil {
		return "", 0, err
	}
	copy(x, report.X)

	status := "converged"
	if !report.Success {
		status = report.Message
	}
	return fmt.Sprintf("AutoEQDE(%s)", status), report.Fun, nil
}
