// Package objective implements the EQ-curve fitness composition: the
// per-candidate loss functions (flat weighted-MSE, speaker preference score,
// headphone preference score, mixed loudspeaker slope) and the shared
// base-fitness/penalty functions every dispatch branch composes from.
package objective

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/autoeq/constraint"
	"github.com/cwbudde/autoeq/peq"
)

// LossKind selects which candidate loss function Data.Evaluate composes.
type LossKind int

const (
	FlatLoss LossKind = iota
	SpeakerScoreLoss
	HeadphoneScoreLoss
	MixedLoss
)

// SpeakerCurves holds the externally-supplied CEA2034 spin-derived curves a
// speaker-score/mixed loss needs: on-axis, listening-window, sound-power and
// predicted-in-room, each already expressed in dB on the Data.Freqs grid.
// Deriving these from raw spin measurements is out of scope here (an
// external collaborator's concern); Data treats them as precomputed input.
type SpeakerCurves struct {
	On, LW, SP, PIR []float64
}

// Data is the immutable-per-run configuration shared by every fitness
// evaluation: frequency grid, target deviation curve, sample rate, PEQ
// model/kind, constraint parameters and penalty weights. A fresh Data is
// cheap to copy (all slices are shared, read-only) so goroutines evaluating
// different candidates never race.
type Data struct {
	Freqs      []float64
	Deviation  []float64 // target - measured, i.e. what the PEQ must cancel
	SampleRate float64
	Model      peq.Model

	Loss    LossKind
	Speaker SpeakerCurves

	MaxDB         float64
	MinDB         float64
	MinSpacingOct float64

	// SpacingWeight scales the spacing penalty when a dispatch branch uses
	// penalty-form constraints instead of native ones; distinct from
	// MinSpacingOct, which is the feasibility threshold itself.
	SpacingWeight float64

	// Penalty weights. Zero when the dispatch branch registers native
	// nonlinear constraints instead (see spec.md's penalty/constraint
	// duality requirement).
	PenaltyWCeiling float64
	PenaltyWSpacing float64
	PenaltyWMinGain float64
}

// hasHighpassSection reports whether this Data's model places a Highpass (or
// Lowpass) section anywhere in the chain, i.e. the HpPk/HpPkLp family.
// ceiling() gates on it; minGain() does not, since MinGain exempts
// pass-type filters per index through Model.KindAt.
func (d Data) hasHighpassSection() bool {
	return d.Model == peq.HpPk || d.Model == peq.HpPkLp
}

// ceiling builds the Ceiling constraint helper for this Data's model.
func (d Data) ceiling() constraint.Ceiling {
	return constraint.Ceiling{
		Freqs:      d.Freqs,
		SampleRate: d.SampleRate,
		MaxDB:      d.MaxDB,
		Model:      d.Model,
		Active:     d.hasHighpassSection() && d.MaxDB > 0,
	}
}

func (d Data) minGain() constraint.MinGain {
	return constraint.MinGain{
		MinDB: d.MinDB,
		Model: d.Model,
	}
}

func (d Data) spacing() constraint.Spacing {
	return constraint.Spacing{MinOctaves: d.MinSpacingOct}
}

// ComputeBaseFitness renders the PEQ response for x and returns the raw
// candidate loss (no constraint penalties added), per d.Loss.
func (d Data) ComputeBaseFitness(x []float64) (response []float64, fitness float64) {
	chain := peq.Build(d.Model, x, d.SampleRate)
	response = chain.RenderedResponse(d.Freqs)

	switch d.Loss {
	case SpeakerScoreLoss:
		fitness = d.speakerScoreLoss(response)
	case HeadphoneScoreLoss:
		fitness = d.headphoneLoss(response)
	case MixedLoss:
		fitness = d.mixedLoss(response)
	default:
		error := make([]float64, len(response))
		for i := range error {
			error[i] = d.Deviation[i] - response[i]
		}
		fitness = weightedMSE(d.Freqs, error)
	}
	return response, fitness
}

// ComputeFitnessPenalties is the single canonical fitness-composition
// function every dispatch branch (nlopt:*, mh:*, autoeq:de) calls: it adds
// the three penalty terms (weighted by d.PenaltyW*) on top of the base
// fitness from ComputeBaseFitness. When an algorithm registers native
// nonlinear constraints instead, the caller zeroes the penalty weights so
// this reduces to the base fitness alone.
func (d Data) ComputeFitnessPenalties(x []float64) float64 {
	response, fitness := d.ComputeBaseFitness(x)

	if d.PenaltyWCeiling > 0 {
		fitness += d.PenaltyWCeiling * square(d.ceiling().Violation(response))
	}
	if d.PenaltyWSpacing > 0 {
		fitness += d.PenaltyWSpacing * square(d.spacing().Violation(x))
	}
	if d.PenaltyWMinGain > 0 {
		fitness += d.PenaltyWMinGain * square(d.minGain().Violation(x))
	}

	return fitness
}

func square(v float64) float64 { return v * v }

// weightedMSE computes RMS error separately below and above 3000 Hz, giving
// the low band full weight and the high band a third: err1 + err2/3. Each
// band's sum-of-squares is a self dot product via algo-vecmath's
// SIMD-dispatched DotProduct.
func weightedMSE(freqs, errs []float64) float64 {
	var low, high []float64

	for i, f := range freqs {
		if f < 3000 {
			low = append(low, errs[i])
		} else {
			high = append(high, errs[i])
		}
	}

	var err1, err2 float64
	if len(low) > 0 {
		err1 = math.Sqrt(vecmath.DotProduct(low, low) / float64(len(low)))
	}
	if len(high) > 0 {
		err2 = math.Sqrt(vecmath.DotProduct(high, high) / float64(len(high)))
	}
	return err1 + err2/3
}

// RegressionSlopePerOctaveInRange fits y against log2(f) over [fmin, fmax]
// by ordinary least squares and returns the slope in dB/octave. It returns
// (0, false) when fewer than two points fall in range or the x-variance is
// zero (a degenerate, single-frequency range).
func RegressionSlopePerOctaveInRange(freq, y []float64, fmin, fmax float64) (float64, bool) {
	if !(fmax > fmin) {
		return 0, false
	}

	var xs, ys []float64
	for i, f := range freq {
		if f > 0 && f >= fmin && f <= fmax {
			xs = append(xs, math.Log2(f))
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 {
		return 0, false
	}

	varX := stat.Variance(xs, nil) * float64(len(xs)-1)
	if varX == 0 {
		return 0, false
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, true
}

func (d Data) speakerScoreLoss(response []float64) float64 {
	// The CEA2034 spin-to-preference-score pipeline (interval weighting,
	// NBS in-room prediction, the regression model itself) is an external
	// collaborator's concern per spec.md; Data.Speaker supplies its
	// already-computed on/lw/sp/pir curves, and this loss only needs to
	// apply the candidate's PEQ response on top of them and re-derive a
	// preference-score proxy from the resulting smoothness/flatness.
	lw2 := addVectors(d.Speaker.LW, response)
	pir2 := addVectors(d.Speaker.PIR, response)

	lwSlope, lwOK := RegressionSlopePerOctaveInRange(d.Freqs, lw2, 100, 10000)
	pirSlope, pirOK := RegressionSlopePerOctaveInRange(d.Freqs, pir2, 100, 10000)
	if !lwOK || !pirOK {
		return math.Inf(1)
	}

	flatness := rms(lw2) + rms(pir2)
	slopePenalty := (lwSlope+0.5)*(lwSlope+0.5) + (pirSlope+0.5)*(pirSlope+0.5)
	proxyScore := 100 - (flatness + 10*slopePenalty)
	return 100 - proxyScore
}

func (d Data) mixedLoss(response []float64) float64 {
	lw2 := addVectors(d.Speaker.LW, response)
	pir2 := addVectors(d.Speaker.PIR, response)

	lw2Slope, ok1 := RegressionSlopePerOctaveInRange(d.Freqs, lw2, 100, 10000)
	pirOgSlope, ok2 := RegressionSlopePerOctaveInRange(d.Freqs, d.Speaker.PIR, 100, 10000)
	pir2Slope, ok3 := RegressionSlopePerOctaveInRange(d.Freqs, pir2, 100, 10000)
	if !ok1 || !ok2 || !ok3 {
		return math.Inf(1)
	}

	a := 0.5 + lw2Slope
	b := pirOgSlope - pir2Slope
	return a*a + b*b
}

var headphoneBandLimits = [10][2]float64{
	{20, 60}, {60, 200}, {200, 500}, {500, 1000}, {1000, 2000},
	{2000, 4000}, {4000, 8000}, {8000, 10000}, {10000, 12000}, {12000, 20000},
}

var headphoneBandWeights = [10]float64{3, 4, 5, 5, 3, 2, 1.5, 1.5, 1.5, 1.5}

// headphoneLoss implements the Olive et al. headphone preference-score
// predictor over a candidate's PEQ response (treated as a deviation from
// flat/target): a slope term targeting -1 dB/octave, ten weighted per-band
// RMS terms, and a peak-to-peak penalty for bands that swing more than 6 dB.
func (d Data) headphoneLoss(response []float64) float64 {
	slope, ok := RegressionSlopePerOctaveInRange(d.Freqs, response, 20, 10000)
	if !ok {
		slope = 0
	}
	slopeDeviation := math.Abs(slope + 1)

	score := 10 * slopeDeviation

	for bi, limits := range headphoneBandLimits {
		var values []float64
		for i, f := range d.Freqs {
			if f >= limits[0] && f <= limits[1] {
				values = append(values, response[i])
			}
		}
		if len(values) == 0 {
			continue
		}

		score += headphoneBandWeights[bi] * rms(values)

		lo, hi := values[0], values[0]
		for _, v := range values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if pp := hi - lo; pp > 6 {
			score += 0.5 * (pp - 6)
		}
	}

	return score
}

func addVectors(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

func rms(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(v, v) / float64(len(v)))
}
