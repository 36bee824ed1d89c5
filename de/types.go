// Package de implements a dependency-light Differential Evolution global
// optimizer: box-constrained, multiple mutation strategies, binomial or
// exponential crossover, Latin Hypercube or uniform-random initialization,
// a deferred (generation-synchronous) parallel selection scheme, and an
// optional local-search polish pass.
package de

import (
	"math"
	"strings"
)

// Strategy selects the mutant-generation rule and, implicitly, whether
// crossover defaults to binomial or exponential.
type Strategy int

const (
	Best1Bin Strategy = iota
	Best1Exp
	Rand1Bin
	Rand1Exp
	Rand2Bin
	Rand2Exp
	CurrentToBest1Bin
	CurrentToBest1Exp
	Best2Bin
	Best2Exp
	RandToBest1Bin
	RandToBest1Exp
	// AdaptiveBin/AdaptiveExp sample F and CR from an AdaptiveState that
	// tracks successful trial parameters across generations (SAM-style
	// adaptation), rather than from a fixed Mutation/recombination setting.
	AdaptiveBin
	AdaptiveExp
)

// ParseStrategy parses a configuration string (case-insensitive, several
// historical spellings accepted) into a Strategy, defaulting to
// CurrentToBest1Bin on an unrecognized value.
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(s) {
	case "best1bin", "best1":
		return Best1Bin
	case "best1exp":
		return Best1Exp
	case "rand1bin", "rand1":
		return Rand1Bin
	case "rand1exp":
		return Rand1Exp
	case "rand2bin", "rand2":
		return Rand2Bin
	case "rand2exp":
		return Rand2Exp
	case "currenttobest1bin", "current-to-best1bin", "current_to_best1bin":
		return CurrentToBest1Bin
	case "currenttobest1exp", "current-to-best1exp", "current_to_best1exp":
		return CurrentToBest1Exp
	case "best2bin", "best2":
		return Best2Bin
	case "best2exp":
		return Best2Exp
	case "randtobest1bin", "rand-to-best1bin", "rand_to_best1bin":
		return RandToBest1Bin
	case "randtobest1exp", "rand-to-best1exp", "rand_to_best1exp":
		return RandToBest1Exp
	case "adaptivebin", "adaptive-bin", "adaptive_bin", "adaptive":
		return AdaptiveBin
	case "adaptiveexp", "adaptive-exp", "adaptive_exp":
		return AdaptiveExp
	default:
		return CurrentToBest1Bin
	}
}

func (s Strategy) isExponential() bool {
	switch s {
	case Best1Exp, Rand1Exp, Rand2Exp, CurrentToBest1Exp, Best2Exp, RandToBest1Exp, AdaptiveExp:
		return true
	default:
		return false
	}
}

func (s Strategy) isAdaptive() bool {
	return s == AdaptiveBin || s == AdaptiveExp
}

// IsAdaptive reports whether strategy s samples F/CR from the adaptive
// state rather than from a fixed Mutation/CR setting.
func (s Strategy) IsAdaptive() bool { return s.isAdaptive() }

// Mutation controls how the mutation factor F is sampled each trial.
type Mutation struct {
	// F is the constant Min when Min==Max, otherwise it is drawn from
	// [Min, Max) per trial (the zero value, with Min==Max==0, is invalid;
	// use NewFactor/NewRange to build one).
	Min, Max float64
}

// NewFactor returns a fixed mutation factor F.
func NewFactor(f float64) Mutation { return Mutation{Min: f, Max: f} }

// NewRange returns a dithering range [min, max) sampled fresh per trial.
func NewRange(min, max float64) Mutation { return Mutation{Min: min, Max: max} }

func (m Mutation) sample(rng *rngSource) float64 {
	if m.Min == m.Max {
		return m.Min
	}
	return m.Min + rng.Float64()*(m.Max-m.Min)
}

// Init selects the population initialization scheme.
type Init int

const (
	LatinHypercube Init = iota
	Random
)

// AdaptiveConfig parameterizes the SAM-style adaptive mutation/crossover
// scheme used by Strategy AdaptiveBin/AdaptiveExp. Defaults below are the
// reference implementation's own defaults.
type AdaptiveConfig struct {
	WMax, WMin float64
	WF, WCr    float64
	FM, CrM    float64
}

// DefaultAdaptiveConfig returns the reference implementation's default
// adaptive-parameter configuration.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{WMax: 0.9, WMin: 0.1, WF: 0.9, WCr: 0.9, FM: 0.5, CrM: 0.6}
}

// PolishConfig enables an optional local-search refinement of the DE
// solution using gonum's Nelder-Mead simplex optimizer.
type PolishConfig struct {
	Enabled bool
	MaxEval int
}

// PenaltyFunc is a scalar constraint function fed into the penalty sum:
// inequality penalties are max(0, fc(x))^2 * Weight; equality penalties are
// h(x)^2 * Weight.
type PenaltyFunc struct {
	Fn     func(x []float64) float64
	Weight float64
}

// CallbackAction lets a per-generation callback stop the run early.
type CallbackAction int

const (
	Continue CallbackAction = iota
	Stop
)

// Intermediate is passed to Config.Callback after every generation.
type Intermediate struct {
	X           []float64
	Fun         float64
	Convergence float64 // std(pop_f)
	Iter        int
}

// Config configures a Solver run.
type Config struct {
	MaxIter  int
	PopSize  int // multiplied internally by the number of free parameters
	Tol      float64
	ATol     float64
	Mutation Mutation
	CR       float64 // recombination rate in [0,1]
	Strategy Strategy
	Init     Init
	Seed     *uint64 // nil => nondeterministic
	X0       []float64

	PenaltyIneq []PenaltyFunc
	PenaltyEq   []PenaltyFunc

	Adaptive         AdaptiveConfig
	AdaptiveMutation bool // force adaptive F/CR sampling even for non-adaptive strategies

	Polish PolishConfig

	Parallelism int // goroutine count; 0 => runtime.GOMAXPROCS(0)

	Callback func(Intermediate) CallbackAction
}

// DefaultConfig returns sane defaults matching the reference implementation.
func DefaultConfig() Config {
	return Config{
		MaxIter:  1000,
		PopSize:  15,
		Tol:      1e-2,
		ATol:     0,
		Mutation: NewRange(0, 2),
		CR:       0.7,
		Strategy: Best1Bin,
		Init:     LatinHypercube,
		Adaptive: DefaultAdaptiveConfig(),
	}
}

// Report is the result of a Solve run.
type Report struct {
	X                  []float64
	Fun                float64
	Success            bool
	Message            string
	Iterations         int
	FuncEvals          int
	Population         [][]float64
	PopulationEnergies []float64
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
