// Package constraint implements the hard and penalty forms of the three
// feasibility constraints an EQ-curve decision vector must satisfy: a
// response ceiling, a minimum per-filter gain magnitude, and a minimum
// octave spacing between filter centers.
//
// Both the hard-constraint functions (fed to algorithms that support native
// nonlinear constraints) and the penalty/violation functions (summed into
// the fitness for algorithms that don't) are provided, since spec.md
// requires the two to stay numerically consistent: a hard constraint of 0
// must correspond to a penalty violation of 0.
package constraint

import (
	"math"

	peqdesign "github.com/cwbudde/autoeq/dsp/filter/design/peq"
	"github.com/cwbudde/autoeq/peq"
)

// Ceiling bounds the combined response under max_db. Only meaningful in
// HpPk mode, where the optimizer needs to cap the combined SPL.
type Ceiling struct {
	Freqs      []float64
	SampleRate float64
	MaxDB      float64
	Model      peq.Model
	Active     bool // true in HpPk mode
}

// Hard returns fc(x) = max_i(response[i] - MaxDB). Feasible when <= 0.
// An inactive ceiling always returns 0.
func (c Ceiling) Hard(x []float64) float64 {
	if !c.Active {
		return 0
	}
	chain := peq.Build(c.Model, x, c.SampleRate)
	resp := chain.RenderedResponse(c.Freqs)

	maxExcess := math.Inf(-1)
	for _, v := range resp {
		if excess := v - c.MaxDB; excess > maxExcess {
			maxExcess = excess
		}
	}
	if math.IsInf(maxExcess, 0) {
		return 0
	}
	return maxExcess
}

// Violation computes the penalty-form violation amount (>=0, 0 if
// satisfied or inactive) directly from an already-rendered response curve.
func (c Ceiling) Violation(response []float64) float64 {
	if !c.Active {
		return 0
	}
	maxExcess := 0.0
	for _, v := range response {
		if excess := v - c.MaxDB; excess > maxExcess {
			maxExcess = excess
		}
	}
	return maxExcess
}

// MinGain requires |gain| >= MinDB for every filter whose kind (per
// Model.KindAt) has a meaningful gain parameter: Highpass and Lowpass
// sections are always exempt, wherever they fall in the filter order (the
// index-0 Highpass in HpPk, and both the index-0 Highpass and the trailing
// Lowpass in HpPkLp).
type MinGain struct {
	MinDB float64
	Model peq.Model
}

func skipGain(k peqdesign.Kind) bool {
	return k == peqdesign.Highpass || k == peqdesign.Lowpass
}

// Hard returns fc(x) = max_i(MinDB - |gain_i|) over applicable filters.
// Feasible when <= 0.
func (m MinGain) Hard(x []float64) float64 {
	if m.MinDB <= 0 {
		return 0
	}
	n := len(x) / 3
	if n == 0 {
		return 0
	}

	worst := math.Inf(-1)
	for i := 0; i < n; i++ {
		if skipGain(m.Model.KindAt(i, n)) {
			continue
		}
		gabs := math.Abs(x[i*3+2])
		if short := m.MinDB - gabs; short > worst {
			worst = short
		}
	}
	if math.IsInf(worst, 0) {
		return 0
	}
	return worst
}

// Violation returns the penalty-form deficiency (>=0).
func (m MinGain) Violation(x []float64) float64 {
	if m.MinDB <= 0 {
		return 0
	}
	n := len(x) / 3
	if n == 0 {
		return 0
	}

	worst := 0.0
	for i := 0; i < n; i++ {
		if skipGain(m.Model.KindAt(i, n)) {
			continue
		}
		gabs := math.Abs(x[i*3+2])
		if short := m.MinDB - gabs; short > worst {
			worst = short
		}
	}
	return worst
}

// Spacing requires every pair of filter centers to be at least MinOctaves
// apart on a log2 frequency axis. Both the hard and penalty forms use log2
// uniformly: the reference implementation this is grounded on mixed log10
// (hard form) and log2 (penalty form), an inconsistency spec.md resolves in
// favor of log2 for both.
type Spacing struct {
	MinOctaves float64
}

// Hard returns fc(x) = MinOctaves - min_pair_distance. Feasible when <= 0.
func (s Spacing) Hard(x []float64) float64 {
	n := len(x) / 3
	if n <= 1 || s.MinOctaves <= 0 {
		return 0
	}

	minDist := math.Inf(1)
	for i := 0; i < n; i++ {
		fi := math.Max(math.Pow(10, x[i*3]), 1e-9)
		for j := i + 1; j < n; j++ {
			fj := math.Max(math.Pow(10, x[j*3]), 1e-9)
			d := math.Abs(math.Log2(fj / fi))
			if d < minDist {
				minDist = d
			}
		}
	}
	if math.IsInf(minDist, 0) {
		return 0
	}
	return s.MinOctaves - minDist
}

// Violation returns the penalty-form shortfall (>=0).
func (s Spacing) Violation(x []float64) float64 {
	v := s.Hard(x)
	if v < 0 {
		return 0
	}
	return v
}
