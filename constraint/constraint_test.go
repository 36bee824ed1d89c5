package constraint

import (
	"math"
	"testing"

	"github.com/cwbudde/autoeq/peq"
	"github.com/stretchr/testify/require"
)

func TestSpacingHardFeasibleWhenWideEnough(t *testing.T) {
	s := Spacing{MinOctaves: 1.0}
	x := []float64{math.Log10(100), 1, 0, math.Log10(400), 1, 0} // 2 octaves apart
	require.LessOrEqual(t, s.Hard(x), 0.0)
}

func TestSpacingHardInfeasibleWhenTooClose(t *testing.T) {
	s := Spacing{MinOctaves: 1.0}
	x := []float64{math.Log10(100), 1, 0, math.Log10(110), 1, 0}
	require.Greater(t, s.Hard(x), 0.0)
	require.Equal(t, s.Hard(x), s.Violation(x))
}

func TestSpacingDisabledWhenZero(t *testing.T) {
	s := Spacing{MinOctaves: 0}
	x := []float64{math.Log10(100), 1, 0, math.Log10(101), 1, 0}
	require.Equal(t, 0.0, s.Hard(x))
}

func TestMinGainSkipsFirstInHpPkMode(t *testing.T) {
	m := MinGain{MinDB: 1.0, Model: peq.HpPk}
	x := []float64{math.Log10(200), 0.7, 0.0, math.Log10(1000), 1, 3.0}
	require.LessOrEqual(t, m.Hard(x), 0.0)
}

func TestMinGainSkipsTrailingLowpassInHpPkLpMode(t *testing.T) {
	m := MinGain{MinDB: 1.0, Model: peq.HpPkLp}
	// index 0 Highpass and index 2 Lowpass both have gain 0, exempt; the
	// interior Peak at index 1 satisfies MinDB on its own.
	x := []float64{
		math.Log10(200), 0.7, 0.0,
		math.Log10(1000), 1, 3.0,
		math.Log10(8000), 0.7, 0.0,
	}
	require.LessOrEqual(t, m.Hard(x), 0.0)
}

func TestMinGainFlagsSmallGain(t *testing.T) {
	m := MinGain{MinDB: 1.0, Model: peq.Pk}
	x := []float64{math.Log10(1000), 1, 0.1}
	require.Greater(t, m.Hard(x), 0.0)
}

func TestCeilingInactiveOutsideHpPk(t *testing.T) {
	c := Ceiling{Active: false, MaxDB: 1.0}
	require.Equal(t, 0.0, c.Violation([]float64{5, 5, 5}))
}

func TestCeilingFlagsExcess(t *testing.T) {
	c := Ceiling{Active: true, MaxDB: 1.0}
	require.InDelta(t, 4.0, c.Violation([]float64{-2, 5, 3}), 1e-12)
}
