package interp

import "sort"

// LagrangeInterpolator provides configurable fractional interpolation.
type LagrangeInterpolator struct {
	order int
}

// NewLagrangeInterpolator creates an interpolator.
// order: 1 = linear, 3 = cubic (Hermite-style 4-point interpolation).
func NewLagrangeInterpolator(order int) *LagrangeInterpolator {
	return &LagrangeInterpolator{order: order}
}

// Interpolate interpolates around frac in [0,1].
// For order 1, samples must contain at least 2 values.
// For order 3, samples must contain at least 4 values and interpolates between samples[1] and samples[2].
func (l *LagrangeInterpolator) Interpolate(samples []float64, frac float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if l.order == 1 {
		if len(samples) < 2 {
			return samples[0]
		}
		return samples[0] + frac*(samples[1]-samples[0])
	}
	if l.order == 3 {
		if len(samples) < 4 {
			if len(samples) < 2 {
				return samples[0]
			}
			return samples[0] + frac*(samples[1]-samples[0])
		}
		return Hermite4(frac, samples[0], samples[1], samples[2], samples[3])
	}
	if len(samples) < 2 {
		return samples[0]
	}
	return samples[0] + frac*(samples[1]-samples[0])
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// ResampleSorted resamples (xs, ys) — sorted ascending by xs, as a measured
// curve's frequency/value pairs are — onto each point in queries, using
// Hermite4 wherever two neighbors exist on each side and falling back to
// linear interpolation (and constant extrapolation) at the curve's edges.
// queries need not be sorted. This is the curve-resampling step a measured
// response goes through before it can be compared against an arbitrary
// target grid, the role read::interpolate plays in the reference
// implementation.
func ResampleSorted(xs, ys []float64, queries []float64) []float64 {
	out := make([]float64, len(queries))
	n := len(xs)
	if n == 0 {
		return out
	}
	if n == 1 {
		for i := range out {
			out[i] = ys[0]
		}
		return out
	}

	lerp := NewLagrangeInterpolator(1)

	for qi, q := range queries {
		switch {
		case q <= xs[0]:
			out[qi] = ys[0]
			continue
		case q >= xs[n-1]:
			out[qi] = ys[n-1]
			continue
		}

		// j is the first index with xs[j] >= q; the bracket is (j-1, j).
		j := sort.SearchFloat64s(xs, q)
		if xs[j] == q {
			out[qi] = ys[j]
			continue
		}
		i0, i1 := j-1, j
		frac := (q - xs[i0]) / (xs[i1] - xs[i0])

		if i0 >= 1 && i1 <= n-2 {
			out[qi] = Hermite4(frac, ys[i0-1], ys[i0], ys[i1], ys[i1+1])
		} else {
			out[qi] = lerp.Interpolate([]float64{ys[i0], ys[i1]}, frac)
		}
	}

	return out
}
