// Package interp provides the fractional-sample interpolation primitives a
// measured response curve needs to be resampled onto the optimizer's
// canonical frequency grid — a cubic Hermite interpolant (good default,
// matching the original implementation's read::interpolate) with a linear
// fallback near the edges of the source curve where four neighbors aren't
// available.
package interp
