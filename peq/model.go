// Package peq decodes optimizer decision vectors into cascades of
// parametric-EQ biquad sections and renders their combined frequency
// response.
package peq

import (
	"fmt"
	"math"

	"github.com/cwbudde/autoeq/dsp/filter/biquad"
	peqdesign "github.com/cwbudde/autoeq/dsp/filter/design/peq"
)

// Model names the filter-kind pattern applied across the decision vector's
// filter triplets.
type Model int

const (
	// Pk: every filter is a Peak section.
	Pk Model = iota
	// HpPk: filter index 0 is Highpass, all others are Peak.
	HpPk
	// HpPkLp: filter index 0 is Highpass, the last is Lowpass, the rest Peak.
	HpPkLp
	// Free: every filter's kind is itself decoded from the decision vector
	// (reserved for future free-kind optimization; behaves as Pk until a
	// per-filter kind channel is threaded through the vector).
	Free
	// FreePkFree: the first filter is a Lowshelf, the last a Highshelf and
	// the interior filters Peak. The end filters' kinds are fixed, not
	// decoded from the decision vector.
	FreePkFree
)

// String returns the model's configuration-file name.
func (m Model) String() string {
	switch m {
	case Pk:
		return "pk"
	case HpPk:
		return "hp_pk"
	case HpPkLp:
		return "hp_pk_lp"
	case Free:
		return "free"
	case FreePkFree:
		return "free_pk_free"
	default:
		return "unknown"
	}
}

// ParseModel parses a configuration string into a Model. Both the String()
// form (e.g. "hp_pk") and the constant's name (e.g. "HpPk") are accepted.
func ParseModel(s string) (Model, error) {
	switch s {
	case "pk", "Pk":
		return Pk, nil
	case "hp_pk", "HpPk":
		return HpPk, nil
	case "hp_pk_lp", "HpPkLp":
		return HpPkLp, nil
	case "free", "Free":
		return Free, nil
	case "free_pk_free", "FreePkFree":
		return FreePkFree, nil
	default:
		return 0, fmt.Errorf("peq: unknown model %q", s)
	}
}

// KindAt returns the filter kind applied at filter index i (0-based) out of
// n total filters, for the given model. This mirrors the index-0 Highpass
// rule used by the optimizer's decoder and constraint functions (not the
// lowest-frequency rule used by the reference implementation's own display
// helpers).
func (m Model) KindAt(i, n int) peqdesign.Kind {
	switch m {
	case HpPk:
		if i == 0 {
			return peqdesign.Highpass
		}
		return peqdesign.Peak
	case HpPkLp:
		switch {
		case i == 0:
			return peqdesign.Highpass
		case i == n-1 && n > 1:
			return peqdesign.Lowpass
		default:
			return peqdesign.Peak
		}
	case FreePkFree:
		switch {
		case i == 0:
			return peqdesign.Lowshelf
		case i == n-1 && n > 1:
			return peqdesign.Highshelf
		default:
			return peqdesign.Peak
		}
	default:
		return peqdesign.Peak
	}
}

// Filter is one decoded PEQ section: its kind and RBJ parameters.
type Filter struct {
	Kind   peqdesign.Kind
	FreqHz float64
	Q      float64
	GainDB float64
}

// Decode splits a decision vector x (triplets [log10(f0), Q, gainDB]) into a
// slice of Filters under the given model. len(x) must be a multiple of 3.
func Decode(model Model, x []float64) []Filter {
	n := len(x) / 3
	filters := make([]Filter, n)
	for i := 0; i < n; i++ {
		freq := math.Pow(10, x[i*3])
		q := x[i*3+1]
		gain := x[i*3+2]
		filters[i] = Filter{
			Kind:   model.KindAt(i, n),
			FreqHz: freq,
			Q:      q,
			GainDB: gain,
		}
	}
	return filters
}

// Chain is a decoded, designed cascade of biquad sections ready to evaluate
// or render.
type Chain struct {
	SampleRate float64
	Sections   []biquad.Coefficients
	Fast       []biquad.FastCoefficients
}

// Build designs biquad coefficients for every decoded filter at the given
// sample rate. Filters with invalid parameters are replaced by a unity
// passthrough section so a single bad parameter never panics the optimizer's
// hot loop; the caller's constraint functions are responsible for penalizing
// infeasible regions of the decision space.
func Build(model Model, x []float64, sampleRate float64) Chain {
	filters := Decode(model, x)
	sections := make([]biquad.Coefficients, len(filters))
	fast := make([]biquad.FastCoefficients, len(filters))

	for i, f := range filters {
		c, err := peqdesign.Design(f.Kind, f.FreqHz, sampleRate, f.Q, f.GainDB)
		if err != nil {
			c = biquad.Coefficients{B0: 1}
		}
		sections[i] = c
		fast[i] = biquad.NewFastCoefficients(c)
	}

	return Chain{SampleRate: sampleRate, Sections: sections, Fast: fast}
}

// Render evaluates the combined magnitude response (in dB) of the cascade at
// every frequency in freqs, writing into dst. It allocates one scratch
// slice of len(freqs) per call.
func (c Chain) Render(dst, freqs []float64) {
	for i := range dst {
		dst[i] = 0
	}
	tmp := make([]float64, len(freqs))
	for _, fc := range c.Fast {
		fc.EvalDB(tmp, freqs, c.SampleRate)
		for i := range dst {
			dst[i] += tmp[i]
		}
	}
}

// RenderedResponse is a convenience wrapper that allocates and returns the
// rendered response rather than writing into a caller-owned buffer.
func (c Chain) RenderedResponse(freqs []float64) []float64 {
	dst := make([]float64, len(freqs))
	c.Render(dst, freqs)
	return dst
}

// AsSections materializes the cascade as runtime biquad.Section values ready
// for real-time sample/block processing (the C10 render/apply path).
func (c Chain) AsSections() []*biquad.Section {
	out := make([]*biquad.Section, len(c.Sections))
	for i, co := range c.Sections {
		out[i] = biquad.NewSection(co)
	}
	return out
}
