package dispatch

import (
	"fmt"
	"strings"

	"github.com/go-nlopt/nlopt"

	"github.com/cwbudde/autoeq/constraint"
	"github.com/cwbudde/autoeq/objective"
	"github.com/cwbudde/autoeq/peq"
)

// nloptAlgoFor maps the "nlopt:*" suffix to the underlying NLopt
// algorithm constant, per optim_nlopt.rs's Algorithm dispatch.
func nloptAlgoFor(suffix string) (nlopt.Algorithm, bool) {
	switch strings.ToLower(suffix) {
	case "isres":
		return nlopt.GN_ISRES, true
	case "ags":
		return nlopt.GN_AGS, true
	case "origdirect":
		return nlopt.GN_ORIG_DIRECT, true
	case "crs2lm":
		return nlopt.GN_CRS2_LM, true
	case "direct":
		return nlopt.GN_DIRECT, true
	case "directl":
		return nlopt.GN_DIRECT_L, true
	case "gmlsl":
		return nlopt.GN_MLSL, true
	case "gmlsllds":
		return nlopt.GN_MLSL_LDS, true
	case "sbplx":
		return nlopt.LN_SBPLX, true
	case "slsqp":
		return nlopt.LD_SLSQP, true
	case "stogo":
		return nlopt.GD_STOGO, true
	case "stogorand":
		return nlopt.GD_STOGO_RAND, true
	case "bobyqa":
		return nlopt.LN_BOBYQA, true
	case "cobyla":
		return nlopt.LN_COBYLA, true
	case "neldermead":
		return nlopt.LN_NELDERMEAD, true
	default:
		return 0, false
	}
}

// usesPenalties lists the algorithms that lack native nonlinear-constraint
// support, per optim_nlopt.rs's use_penalties match arm — deliberately
// copied as-is, including its inclusion/omission choices (e.g. bobyqa is
// NOT in this list in the original despite not supporting nonlinear
// constraints in the catalog metadata; fidelity to the reference behavior
// is kept over "fixing" that apparent inconsistency).
func usesPenalties(suffix string) bool {
	switch strings.ToLower(suffix) {
	case "crs2lm", "direct", "directl", "gmlsl", "gmlsllds", "sbplx", "stogo", "stogorand", "neldermead":
		return true
	default:
		return false
	}
}

// optimizeFiltersNLopt runs one of the nlopt:* algorithms via the go-nlopt
// cgo binding, choosing between penalty-augmented fitness and native
// inequality-constraint registration per optim_nlopt.rs.
func optimizeFiltersNLopt(x, lower, upper []float64, data objective.Data, suffix string, population, maxeval int) (string, float64, error) {
	algo, ok := nloptAlgoFor(suffix)
	if !ok {
		return "", 0, fmt.Errorf("dispatch: unknown nlopt algorithm %q", suffix)
	}

	n := len(x)
	usePenalties := usesPenalties(suffix)

	objData := data
	if usePenalties {
		objData.PenaltyWCeiling = 1e4
		objData.PenaltyWSpacing = maxf(data.SpacingWeight, 0) * 1e3
		objData.PenaltyWMinGain = 1e3
	} else {
		objData.PenaltyWCeiling = 0
		objData.PenaltyWSpacing = 0
		objData.PenaltyWMinGain = 0
	}

	opt, err := nlopt.NewNLopt(algo, uint(n))
	if err != nil {
		return "", 0, err
	}
	defer opt.Destroy()

	if err := opt.SetLowerBounds(lower); err != nil {
		return "", 0, err
	}
	if err := opt.SetUpperBounds(upper); err != nil {
		return "", 0, err
	}
	if err := opt.SetMinObjective(func(x, gradient []float64) float64 {
		return objData.ComputeFitnessPenalties(x)
	}); err != nil {
		return "", 0, err
	}

	if !usePenalties {
		hpFamily := data.Model == peq.HpPk || data.Model == peq.HpPkLp
		ceiling := constraint.Ceiling{
			Freqs: data.Freqs, SampleRate: data.SampleRate, MaxDB: data.MaxDB,
			Model: data.Model, Active: hpFamily && data.MaxDB > 0,
		}
		minGain := constraint.MinGain{
			MinDB: data.MinDB, Model: data.Model,
		}
		if err := opt.AddInequalityConstraint(func(x, gradient []float64) float64 {
			return ceiling.Hard(x)
		}, 1e-6); err != nil {
			return "", 0, err
		}
		if err := opt.AddInequalityConstraint(func(x, gradient []float64) float64 {
			return minGain.Hard(x)
		}, 1e-6); err != nil {
			return "", 0, err
		}
	}

	_ = opt.SetPopulation(uint(population))
	_ = opt.SetMaxEval(maxeval)
	_ = opt.SetStopVal(1e-4)
	_ = opt.SetFtolRel(1e-6)
	_ = opt.SetXtolRel(1e-4)

	xopt, minf, err := opt.Optimize(x)
	if err != nil {
		return fmt.Sprintf("nlopt:%s error", suffix), minf, err
	}
	copy(x, xopt)

	return fmt.Sprintf("nlopt:%s success", suffix), minf, nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
