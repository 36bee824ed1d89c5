package constraint

import (
	"math"
	"testing"

	"github.com/cwbudde/autoeq/peq"
	"pgregory.net/rapid"
)

var rapidModels = []peq.Model{peq.Pk, peq.HpPk, peq.HpPkLp, peq.Free, peq.FreePkFree}

// TestMinGainViolationMatchesHardClampedToZero checks the hard/penalty
// duality spec.md requires: Violation(x) must equal max(0, Hard(x)) for
// every decision vector, not just the handful of fixed cases above.
func TestMinGainViolationMatchesHardClampedToZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minDB := rapid.Float64Range(0, 24).Draw(t, "minDB")
		model := rapidModels[rapid.IntRange(0, len(rapidModels)-1).Draw(t, "model")]
		n := rapid.IntRange(1, 6).Draw(t, "n")

		x := make([]float64, n*3)
		for i := 0; i < n; i++ {
			x[i*3] = rapid.Float64Range(1, 4).Draw(t, "freq")
			x[i*3+1] = rapid.Float64Range(0.1, 10).Draw(t, "q")
			x[i*3+2] = rapid.Float64Range(-24, 24).Draw(t, "gain")
		}

		m := MinGain{MinDB: minDB, Model: model}
		hard := m.Hard(x)
		want := math.Max(0, hard)
		if got := m.Violation(x); got != want {
			t.Fatalf("Violation=%v, want max(0,Hard)=%v (Hard=%v)", got, want, hard)
		}
	})
}

// TestSpacingViolationNeverNegative checks Spacing's penalty form is always
// a non-negative shortfall, whatever random filter-center layout rapid
// generates.
func TestSpacingViolationNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minOct := rapid.Float64Range(0, 3).Draw(t, "minOct")
		n := rapid.IntRange(0, 8).Draw(t, "n")

		x := make([]float64, n*3)
		for i := 0; i < n; i++ {
			x[i*3] = rapid.Float64Range(1, 4.3).Draw(t, "freq")
		}

		s := Spacing{MinOctaves: minOct}
		if v := s.Violation(x); v < 0 {
			t.Fatalf("Violation returned negative shortfall %v", v)
		}
	})
}
