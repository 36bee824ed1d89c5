// Package peq designs RBJ Audio-EQ-Cookbook biquad sections for the seven
// filter kinds used by parametric equalizer curves: lowpass, highpass,
// bandpass, notch, peak, lowshelf and highshelf.
package peq

import (
	"errors"
	"math"

	"github.com/cwbudde/autoeq/dsp/filter/biquad"
)

// ErrInvalidParams is returned when filter parameters are out of range.
var ErrInvalidParams = errors.New("peq: invalid parameters")

// Kind identifies one of the seven RBJ filter shapes.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Notch
	Peak
	Lowshelf
	Highshelf
)

// String returns the long name of the filter kind, matching the teacher
// repo's BiquadFilterType naming.
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "Lowpass"
	case Highpass:
		return "Highpass"
	case Bandpass:
		return "Bandpass"
	case Notch:
		return "Notch"
	case Peak:
		return "Peak"
	case Lowshelf:
		return "Lowshelf"
	case Highshelf:
		return "Highshelf"
	default:
		return "Unknown"
	}
}

// ShortName returns the two-letter abbreviation (PK, LP, HP, ...).
func (k Kind) ShortName() string {
	switch k {
	case Lowpass:
		return "LP"
	case Highpass:
		return "HP"
	case Bandpass:
		return "BP"
	case Notch:
		return "NO"
	case Peak:
		return "PK"
	case Lowshelf:
		return "LS"
	case Highshelf:
		return "HS"
	default:
		return "??"
	}
}

// Default Q factors applied when a caller passes Q<=0, matching the Python
// reference implementation's fallback logic.
const (
	DefaultQHighLowPass  = 1.0 / math.Sqrt2
	DefaultQHighLowShelf = 1.5772935127949521 // bw2q(0.9)
	DefaultQNotch        = 30.0
)

// Bw2Q converts a bandwidth in octaves to an equivalent Q factor.
func Bw2Q(bw float64) float64 {
	p := math.Pow(2, bw)
	return math.Sqrt(p) / (p - 1)
}

// Q2Bw converts a Q factor to the equivalent bandwidth in octaves.
func Q2Bw(q float64) float64 {
	q2 := (2*q*q + 1) / (2 * q * q)
	return math.Log2(q2 + math.Sqrt(q2*q2-1))
}

// resolveQ applies the reference implementation's per-kind Q defaults: a
// fixed Q of 30 for notch filters, and DefaultQHighLowPass /
// DefaultQHighLowShelf when the caller supplies q<=0 for the kinds that use
// them.
func resolveQ(kind Kind, q float64) float64 {
	if kind == Notch {
		return DefaultQNotch
	}

	if q > 0 {
		return q
	}

	switch kind {
	case Bandpass, Highpass, Lowpass:
		return DefaultQHighLowPass
	case Lowshelf, Highshelf:
		return DefaultQHighLowShelf
	default:
		return q
	}
}

// Design computes the normalized biquad coefficients for one PEQ section
// using the RBJ Audio-EQ-Cookbook formulas. freq and sampleRate are in Hz,
// gainDB only affects Peak/Lowshelf/Highshelf.
func Design(kind Kind, freq, sampleRate, q, gainDB float64) (biquad.Coefficients, error) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return biquad.Coefficients{}, ErrInvalidParams
	}

	q = resolveQ(kind, q)
	if q <= 0 {
		return biquad.Coefficients{}, ErrInvalidParams
	}

	a := math.Pow(10, gainDB/40)
	omega := 2 * math.Pi * freq / sampleRate
	sn, cs := math.Sin(omega), math.Cos(omega)
	alpha := sn / (2 * q)
	beta := math.Sqrt(a + a)

	var b0, b1, b2, a0, a1, a2 float64

	switch kind {
	case Lowpass:
		b0 = (1 - cs) / 2
		b1 = 1 - cs
		b2 = (1 - cs) / 2
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Highpass:
		b0 = (1 + cs) / 2
		b1 = -(1 + cs)
		b2 = (1 + cs) / 2
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Notch:
		b0 = 1
		b1 = -2 * cs
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Peak:
		b0 = 1 + alpha*a
		b1 = -2 * cs
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cs
		a2 = 1 - alpha/a
	case Lowshelf:
		b0 = a * ((a + 1) - (a-1)*cs + beta*sn)
		b1 = 2 * a * ((a - 1) - (a+1)*cs)
		b2 = a * ((a + 1) - (a-1)*cs - beta*sn)
		a0 = (a + 1) + (a-1)*cs + beta*sn
		a1 = -2 * ((a - 1) + (a+1)*cs)
		a2 = (a + 1) + (a-1)*cs - beta*sn
	case Highshelf:
		b0 = a * ((a + 1) + (a-1)*cs + beta*sn)
		b1 = -2 * a * ((a - 1) + (a+1)*cs)
		b2 = a * ((a + 1) + (a-1)*cs - beta*sn)
		a0 = (a + 1) - (a-1)*cs + beta*sn
		a1 = 2 * ((a - 1) - (a+1)*cs)
		a2 = (a + 1) - (a-1)*cs - beta*sn
	default:
		return biquad.Coefficients{}, ErrInvalidParams
	}

	if a0 == 0 || math.IsNaN(a0) {
		return biquad.Coefficients{}, ErrInvalidParams
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}, nil
}
