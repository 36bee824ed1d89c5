package biquad

import "math"

// FastCoefficients precomputes the polynomial-in-phi form of a section's
// squared magnitude response so that repeated evaluation across a frequency
// grid (the inner loop of the EQ-curve optimizer's objective function) never
// recomputes sin/cos per section per frequency.
//
// With phi = sin^2(pi*f/srate):
//
//	|H(f)|^2 = (Rup0 + Rup1*phi + Rup2*phi^2) / (Rdw0 + Rdw1*phi + Rdw2*phi^2)
type FastCoefficients struct {
	Rup0, Rup1, Rup2 float64
	Rdw0, Rdw1, Rdw2 float64
}

// NewFastCoefficients precomputes the phi-polynomial form from normalized
// biquad coefficients.
func NewFastCoefficients(c Coefficients) FastCoefficients {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	return FastCoefficients{
		Rup0: (b0 + b1 + b2) * (b0 + b1 + b2),
		Rup1: -4 * (b0*b1 + 4*b0*b2 + b1*b2),
		Rup2: 16 * b0 * b2,
		Rdw0: (1 + a1 + a2) * (1 + a1 + a2),
		Rdw1: -4 * (a1 + 4*a2 + a1*a2),
		Rdw2: 16 * a2,
	}
}

// MagnitudeSquared evaluates |H(f)|^2 at a single frequency using the
// precomputed phi-polynomial form.
func (f FastCoefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	s := math.Sin(math.Pi * freqHz / sampleRate)
	phi := s * s
	phi2 := phi * phi

	num := f.Rup0 + f.Rup1*phi + f.Rup2*phi2
	den := f.Rdw0 + f.Rdw1*phi + f.Rdw2*phi2

	r := num / den
	if r < 0 {
		r = 0
	}
	return r
}

// MagnitudeDB evaluates the response in dB, flooring the linear magnitude at
// 1e-20 before taking the logarithm to avoid -Inf for notches deep in a
// stopband.
func (f FastCoefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	const floor = 1e-20
	r := f.MagnitudeSquared(freqHz, sampleRate)
	if r < floor {
		r = floor
	}
	return 20 * math.Log10(math.Sqrt(r))
}

// EvalDB evaluates the response in dB at every frequency in freqs, writing
// into dst (which must have the same length). Zero-alloc.
func (f FastCoefficients) EvalDB(dst, freqs []float64, sampleRate float64) {
	for i, freqHz := range freqs {
		dst[i] = f.MagnitudeDB(freqHz, sampleRate)
	}
}
