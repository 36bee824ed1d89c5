package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLagrangeInterpolator(t *testing.T) {
	l1 := NewLagrangeInterpolator(1)
	if got := l1.Interpolate([]float64{2, 4}, 0.25); got != 2.5 {
		t.Fatalf("order1 got %v want 2.5", got)
	}

	l3 := NewLagrangeInterpolator(3)
	got := l3.Interpolate([]float64{0, 1, 2, 3}, 0.5)
	if diff := got - 1.5; diff < -1e-12 || diff > 1e-12 {
		t.Fatalf("order3 got %v want 1.5", got)
	}
}

func TestResampleSortedIdentityOnLinearCurve(t *testing.T) {
	xs := []float64{10, 20, 30, 40, 50, 60}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2 * x
	}

	queries := []float64{10, 15, 25, 35, 45, 60}
	got := ResampleSorted(xs, ys, queries)
	for i, q := range queries {
		want := 2 * q
		if diff := got[i] - want; diff < -1e-9 || diff > 1e-9 {
			t.Fatalf("query %v: got %v want %v", q, got[i], want)
		}
	}
}

func TestResampleSortedClampsOutOfRange(t *testing.T) {
	xs := []float64{100, 200, 300}
	ys := []float64{1, 2, 3}

	got := ResampleSorted(xs, ys, []float64{10, 1000})
	if got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v, want edge clamping to {1, 3}", got)
	}
}
