// Package config loads and validates the optimizer's configuration
// surface (spec.md §6.5): YAML file plus command-line flag overrides,
// mirroring the teacher's own config-then-flags layering.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/autoeq/autoeqerr"
	"github.com/cwbudde/autoeq/de"
	"github.com/cwbudde/autoeq/objective"
	"github.com/cwbudde/autoeq/peq"
)

// LossKind mirrors spec.md §6.5's four user-facing loss selections. The
// score variants map 1:1 onto objective.LossKind; the two "Flat"
// variants both resolve to objective.FlatLoss, since the weighted-MSE
// formula itself does not depend on speaker/headphone framing — only
// the score-based losses (Olive headphone model, CEA2034 proxy) do.
type LossKind string

const (
	SpeakerFlat    LossKind = "SpeakerFlat"
	SpeakerScore   LossKind = "SpeakerScore"
	HeadphoneFlat  LossKind = "HeadphoneFlat"
	HeadphoneScore LossKind = "HeadphoneScore"
)

// ToObjective maps the configuration-surface loss name to the
// objective.LossKind the solver actually evaluates.
func (l LossKind) ToObjective() (objective.LossKind, error) {
	switch l {
	case SpeakerFlat, HeadphoneFlat:
		return objective.FlatLoss, nil
	case SpeakerScore:
		return objective.SpeakerScoreLoss, nil
	case HeadphoneScore:
		return objective.HeadphoneScoreLoss, nil
	default:
		return 0, autoeqerr.NewConfigError("loss", "unrecognized loss kind: "+string(l))
	}
}

// ParallelConfig controls the DE solver's goroutine fan-out.
type ParallelConfig struct {
	Enabled bool `yaml:"enabled"`
	Threads int  `yaml:"threads"` // 0 = runtime.GOMAXPROCS(0)
}

// RefineConfig controls the optional local polish pass after DE converges.
type RefineConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalAlgo string `yaml:"local_algo"`
	MaxEval   int    `yaml:"maxeval"`
}

// Config is the full recognized option surface from spec.md §6.5.
type Config struct {
	NumFilters int     `yaml:"num_filters"`
	MinDB      float64 `yaml:"min_db"`
	MaxDB      float64 `yaml:"max_db"`
	MinQ       float64 `yaml:"min_q"`
	MaxQ       float64 `yaml:"max_q"`
	MinFreq    float64 `yaml:"min_freq"`
	MaxFreq    float64 `yaml:"max_freq"`
	SampleRate float64 `yaml:"sample_rate"`

	MinSpacingOct float64 `yaml:"min_spacing_oct"`
	SpacingWeight float64 `yaml:"spacing_weight"`

	PEQModel string   `yaml:"peq_model"`
	Loss     LossKind `yaml:"loss"`

	Algo       string `yaml:"algo"`
	Population int    `yaml:"population"`
	MaxEval    int    `yaml:"maxeval"`

	Refine RefineConfig `yaml:"refine"`

	Strategy      string  `yaml:"strategy"`
	Recombination float64 `yaml:"recombination"`

	MutationF    float64 `yaml:"mutation_f"`
	MutationFMin float64 `yaml:"mutation_fmin"`
	MutationFMax float64 `yaml:"mutation_fmax"`

	Tolerance          float64 `yaml:"tolerance"`
	ATolerance         float64 `yaml:"atolerance"`
	AdaptiveWeightF    float64 `yaml:"adaptive_weight_f"`
	AdaptiveWeightCR   float64 `yaml:"adaptive_weight_cr"`

	Seed *uint64 `yaml:"seed"`

	Parallel ParallelConfig `yaml:"parallel"`
}

// Default returns the reference option values: a 10-filter Pk cascade at
// 48kHz, DE defaults matching de.DefaultConfig, and flat-loss scoring.
func Default() Config {
	return Config{
		NumFilters: 10,
		MinDB:      -12, MaxDB: 12,
		MinQ: 0.1, MaxQ: 20,
		MinFreq: 20, MaxFreq: 20000,
		SampleRate: 48000,

		MinSpacingOct: 0, SpacingWeight: 1e3,

		PEQModel: "Pk",
		Loss:     SpeakerFlat,

		Algo:       "autoeq:de",
		Population: 15,
		MaxEval:    1000 * 15,

		Refine: RefineConfig{Enabled: false, LocalAlgo: "", MaxEval: 0},

		Strategy:      "best1bin",
		Recombination: 0.7,

		MutationFMin: 0, MutationFMax: 2,

		Tolerance: 1e-2, ATolerance: 0,
		AdaptiveWeightF: 0.9, AdaptiveWeightCR: 0.9,

		Parallel: ParallelConfig{Enabled: true, Threads: 0},
	}
}

// Load reads a YAML configuration file, falling back to Default() for
// any field the file doesn't set (via yaml's partial-unmarshal-into-
// pre-populated-struct behavior).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, autoeqerr.NewConfigError(path, err.Error())
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, autoeqerr.NewConfigError(path, "invalid YAML: "+err.Error())
	}
	return cfg, cfg.Validate()
}

// Validate checks the internal consistency invariants spec.md §7 calls
// out as configuration errors, detected before any evaluation.
func (c Config) Validate() error {
	if c.NumFilters <= 0 {
		return autoeqerr.NewConfigError("num_filters", "must be positive")
	}
	if c.MinDB > c.MaxDB {
		return autoeqerr.NewConfigError("min_db/max_db", "min_db must be <= max_db")
	}
	if c.MinQ <= 0 || c.MinQ > c.MaxQ {
		return autoeqerr.NewConfigError("min_q/max_q", "require 0 < min_q <= max_q")
	}
	if c.MinFreq <= 0 || c.MinFreq >= c.MaxFreq {
		return autoeqerr.NewConfigError("min_freq/max_freq", "require 0 < min_freq < max_freq")
	}
	if c.MaxFreq >= c.SampleRate/2 {
		return autoeqerr.NewConfigError("max_freq", "must be below Nyquist (sample_rate/2)")
	}
	if c.SampleRate <= 0 {
		return autoeqerr.NewConfigError("sample_rate", "must be positive")
	}
	if c.MinSpacingOct < 0 {
		return autoeqerr.NewConfigError("min_spacing_oct", "must be >= 0")
	}
	if _, err := peq.ParseModel(c.PEQModel); err != nil {
		return autoeqerr.NewConfigError("peq_model", err.Error())
	}
	if _, err := c.Loss.ToObjective(); err != nil {
		return err
	}
	if c.Population <= 0 {
		return autoeqerr.NewConfigError("population", "must be positive")
	}
	if c.MaxEval <= 0 {
		return autoeqerr.NewConfigError("maxeval", "must be positive")
	}
	if c.Recombination < 0 || c.Recombination > 1 {
		return autoeqerr.NewConfigError("recombination", "must be in [0,1]")
	}
	if c.MutationFMin > c.MutationFMax {
		return autoeqerr.NewConfigError("mutation", "fmin must be <= fmax")
	}
	if c.Tolerance < 0 || c.ATolerance < 0 {
		return autoeqerr.NewConfigError("tolerance/atolerance", "must be >= 0")
	}
	if c.Parallel.Threads < 0 {
		return autoeqerr.NewConfigError("parallel.threads", "must be >= 0")
	}
	return nil
}

// DEConfig translates the validated configuration into a de.Config ready
// for de.NewSolver, applying the mutation-factor and strategy selections.
func (c Config) DEConfig() de.Config {
	cfg := de.DefaultConfig()
	cfg.MaxIter = c.MaxEval / max1(c.Population)
	cfg.PopSize = c.Population
	cfg.Tol = c.Tolerance
	cfg.ATol = c.ATolerance
	cfg.CR = c.Recombination
	cfg.Strategy = de.ParseStrategy(c.Strategy)
	cfg.Seed = c.Seed

	if c.MutationFMin == c.MutationFMax {
		cfg.Mutation = de.NewFactor(c.MutationFMin)
	} else {
		cfg.Mutation = de.NewRange(c.MutationFMin, c.MutationFMax)
	}

	cfg.Adaptive.WF = c.AdaptiveWeightF
	cfg.Adaptive.WCr = c.AdaptiveWeightCR

	cfg.Polish.Enabled = c.Refine.Enabled
	cfg.Polish.MaxEval = c.Refine.MaxEval

	if c.Parallel.Enabled {
		cfg.Parallelism = c.Parallel.Threads
	} else {
		cfg.Parallelism = 1
	}

	return cfg
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}
