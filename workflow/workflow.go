// Package workflow assembles the per-run pipeline every caller follows:
// bounds setup, initial guess, target curve construction, objective data
// assembly, and the global-then-optional-local optimization call —
// ported from the reference implementation's workflow.rs, minus the
// external curve-loading concerns (CSV/API fetch) spec.md §1 scopes out.
package workflow

import (
	"math"
	"sort"

	"github.com/cwbudde/autoeq/config"
	"github.com/cwbudde/autoeq/de"
	"github.com/cwbudde/autoeq/dispatch"
	"github.com/cwbudde/autoeq/dsp/interp"
	"github.com/cwbudde/autoeq/objective"
	"github.com/cwbudde/autoeq/peq"
)

// InputCurve is the caller-supplied measured response this run targets:
// a frequency grid and the SPL/deviation already sampled on it. Loading
// this from CSV or a remote API is an external concern (spec.md §1);
// workflow takes it as already-resolved data.
type InputCurve struct {
	Freq []float64
	SPL  []float64
}

// SetupBounds builds the per-filter [lower, upper] triplet bounds over a
// log-spaced frequency banding with one-band overlap between neighbors,
// ported verbatim from workflow.rs's setup_bounds (including its HpPk
// index-0 pinning to a narrow high-pass band).
func SetupBounds(cfg config.Config) (lower, upper []float64) {
	n := cfg.NumFilters
	lower = make([]float64, 0, n*3)
	upper = make([]float64, 0, n*3)

	const spacing = 1.0
	gainLower := -6.0 * cfg.MaxDB
	qLower := math.Max(cfg.MinQ, 0.1)

	logMin, logMax := math.Log10(cfg.MinFreq), math.Log10(cfg.MaxFreq)
	band := (logMax - logMin) / float64(n)

	for i := 0; i < n; i++ {
		f := logMin + float64(i)*band

		var fLow, fHigh float64
		switch {
		case i == 0:
			fLow = logMin
			fHigh = math.Min(f+spacing*band, logMax)
		case i == n-1:
			fLow = math.Max(f-spacing*band, logMin)
			fHigh = logMax
		default:
			fLow = math.Max(f-spacing*band, logMin)
			fHigh = math.Min(f+spacing*band, logMax)
		}

		if i > 0 && fLow == lower[(i-1)*3] {
			fLow += math.Log10(20)
			fHigh += math.Log10(20)
		}

		lower = append(lower, fLow, qLower, gainLower)
		upper = append(upper, fHigh, cfg.MaxQ, cfg.MaxDB)
	}

	model, _ := peq.ParseModel(cfg.PEQModel)
	if model == peq.HpPk || model == peq.HpPkLp {
		lower[0] = math.Log10(math.Max(20.0, cfg.MinFreq))
		upper[0] = math.Log10(math.Min(120.0, cfg.MinFreq+20.0))
		lower[1] = 1.0
		upper[1] = 1.5
		lower[2] = 0.0
		upper[2] = 0.0
	}

	return lower, upper
}

// InitialGuess builds a starting decision vector: each filter's frequency
// pinned to its band's lower edge, Q the geometric mean of its bounds,
// and gain alternating sign per filter index — ported verbatim from
// workflow.rs's initial_guess.
func InitialGuess(cfg config.Config, lower, upper []float64) []float64 {
	n := cfg.NumFilters
	x := make([]float64, 0, n*3)

	for i := 0; i < n; i++ {
		freq := math.Min(lower[i*3], math.Log10(cfg.MaxFreq))
		q := math.Sqrt(upper[i*3+1] * lower[i*3+1])

		sign := 0.5
		if i%2 != 0 {
			sign = -0.5
		}
		gain := sign * math.Max(upper[i*3+2], cfg.MinDB)

		x = append(x, freq, q, gain)
	}

	return x
}

// CanonicalFrequencyGrid builds the log-spaced frequency grid every curve is
// resampled onto before objective evaluation, ported from
// read::create_log_frequency_grid. points defaults to 200 when <= 0.
func CanonicalFrequencyGrid(cfg config.Config, points int) []float64 {
	if points <= 0 {
		points = 200
	}
	logMin, logMax := math.Log10(cfg.MinFreq), math.Log10(cfg.MaxFreq)
	grid := make([]float64, points)
	if points == 1 {
		grid[0] = math.Pow(10, logMin)
		return grid
	}
	step := (logMax - logMin) / float64(points-1)
	for i := range grid {
		grid[i] = math.Pow(10, logMin+float64(i)*step)
	}
	return grid
}

// ResampleCurve resamples curve onto dstFreq (not required to be sorted),
// cubic-Hermite-interpolating between measured points and holding the
// nearest measured value flat outside the curve's own range. This is the
// read::interpolate step a measured response goes through before it can be
// compared against the optimizer's canonical grid; callers whose curve is
// already sampled on the grid they want (e.g. most test fixtures) can skip
// it and pass their InputCurve straight to BuildTargetCurve.
func ResampleCurve(curve InputCurve, dstFreq []float64) InputCurve {
	n := len(curve.Freq)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return curve.Freq[idx[a]] < curve.Freq[idx[b]] })

	sortedFreq := make([]float64, n)
	sortedSPL := make([]float64, n)
	for i, j := range idx {
		sortedFreq[i] = curve.Freq[j]
		sortedSPL[i] = curve.SPL[j]
	}

	return InputCurve{
		Freq: append([]float64(nil), dstFreq...),
		SPL:  interp.ResampleSorted(sortedFreq, sortedSPL, dstFreq),
	}
}

// BuildTargetCurve derives the per-band deviation (target-minus-measured,
// clamped to be non-negative and capped at max_db) the PEQ cascade must
// cancel. Only the zero-target case (flat target) from workflow.rs's
// build_target_curve is ported directly; the "Listening Window"/"Sound
// Power" curve-shape special cases there depend on identifying the
// measurement's named curve type, an external-loader concern (spec.md
// §1) that does not apply when the caller already supplies a resolved
// InputCurve with its own target semantics baked in (e.g. SpeakerFlat vs.
// HeadphoneFlat differ only in which loss is evaluated, not in how the
// deviation curve is built).
func BuildTargetCurve(curve InputCurve, maxDB float64) []float64 {
	out := make([]float64, len(curve.SPL))
	for i, v := range curve.SPL {
		deviation := -v
		if deviation < 0 {
			deviation = 0
		}
		if deviation > maxDB {
			deviation = maxDB
		}
		out[i] = deviation
	}
	return out
}

// SetupObjectiveData assembles the shared objective.Data a dispatch
// branch evaluates against, per workflow.rs's setup_objective_data. The
// CEA2034 speaker-score path (score_data_opt) requires externally
// supplied spin curves; callers that have them should set
// data.Loss/data.Speaker themselves afterward (SpeakerCurves is already
// documented in objective.Data as externally-supplied precomputed input).
func SetupObjectiveData(cfg config.Config, curve InputCurve, targetDeviation []float64) (objective.Data, error) {
	model, err := peq.ParseModel(cfg.PEQModel)
	if err != nil {
		return objective.Data{}, err
	}
	lossKind, err := cfg.Loss.ToObjective()
	if err != nil {
		return objective.Data{}, err
	}

	return objective.Data{
		Freqs:         curve.Freq,
		Deviation:     targetDeviation,
		SampleRate:    cfg.SampleRate,
		Model:         model,
		Loss:          lossKind,
		MaxDB:         cfg.MaxDB,
		MinDB:         cfg.MinDB,
		MinSpacingOct: cfg.MinSpacingOct,
		SpacingWeight: cfg.SpacingWeight,
		// Penalty weights default to zero; the dispatch branch configures
		// them per spec.md's penalty/constraint-duality requirement.
	}, nil
}

// PerformOptimization runs the global algorithm (cfg.Algo) and, if
// cfg.Refine.Enabled, a subsequent local refine pass (cfg.Refine.LocalAlgo)
// starting from the global result, returning the final decision vector.
func PerformOptimization(cfg config.Config, data objective.Data) ([]float64, error) {
	lower, upper := SetupBounds(cfg)
	x := InitialGuess(cfg, lower, upper)

	if _, _, err := dispatch.OptimizeFilters(x, lower, upper, data, cfg.Algo, cfg.Population, cfg.MaxEval); err != nil {
		return nil, err
	}

	if cfg.Refine.Enabled {
		maxEval := cfg.Refine.MaxEval
		if maxEval <= 0 {
			maxEval = cfg.MaxEval
		}
		if _, _, err := dispatch.OptimizeFilters(x, lower, upper, data, cfg.Refine.LocalAlgo, cfg.Population, maxEval); err != nil {
			return nil, err
		}
	}

	return x, nil
}

// PerformOptimizationWithCallback is PerformOptimization but threads a
// per-generation progress callback through to the global stage — only
// the autoeq:de dispatch branch currently honors it, matching
// perform_optimization_with_callback's scope in the reference
// implementation ("only used for AutoEQ DE").
func PerformOptimizationWithCallback(cfg config.Config, data objective.Data, callback func(de.Intermediate) de.CallbackAction) ([]float64, error) {
	lower, upper := SetupBounds(cfg)
	x := InitialGuess(cfg, lower, upper)

	if _, _, err := dispatch.OptimizeFiltersWithCallback(x, lower, upper, data, cfg.Algo, cfg.Population, cfg.MaxEval, callback); err != nil {
		return nil, err
	}

	if cfg.Refine.Enabled {
		maxEval := cfg.Refine.MaxEval
		if maxEval <= 0 {
			maxEval = cfg.MaxEval
		}
		if _, _, err := dispatch.OptimizeFilters(x, lower, upper, data, cfg.Refine.LocalAlgo, cfg.Population, maxEval); err != nil {
			return nil, err
		}
	}

	return x, nil
}
