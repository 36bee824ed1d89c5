package peq

import (
	"math"
	"testing"

	peqdesign "github.com/cwbudde/autoeq/dsp/filter/design/peq"
	"github.com/stretchr/testify/require"
)

func TestParseModelRoundTrip(t *testing.T) {
	for _, m := range []Model{Pk, HpPk, HpPkLp, Free, FreePkFree} {
		got, err := ParseModel(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := ParseModel("bogus")
	require.Error(t, err)
}

func TestKindAtHpPk(t *testing.T) {
	require.Equal(t, peqdesign.Highpass, HpPk.KindAt(0, 3))
	require.Equal(t, peqdesign.Peak, HpPk.KindAt(1, 3))
	require.Equal(t, peqdesign.Peak, HpPk.KindAt(2, 3))
}

func TestKindAtHpPkLp(t *testing.T) {
	require.Equal(t, peqdesign.Highpass, HpPkLp.KindAt(0, 4))
	require.Equal(t, peqdesign.Peak, HpPkLp.KindAt(1, 4))
	require.Equal(t, peqdesign.Lowpass, HpPkLp.KindAt(3, 4))
}

func TestKindAtFreePkFree(t *testing.T) {
	require.Equal(t, peqdesign.Lowshelf, FreePkFree.KindAt(0, 4))
	require.Equal(t, peqdesign.Peak, FreePkFree.KindAt(1, 4))
	require.Equal(t, peqdesign.Peak, FreePkFree.KindAt(2, 4))
	require.Equal(t, peqdesign.Highshelf, FreePkFree.KindAt(3, 4))

	// n==1: the single filter is both first and last, but the last-index
	// branch requires n>1, so it takes the first-index Lowshelf kind.
	require.Equal(t, peqdesign.Lowshelf, FreePkFree.KindAt(0, 1))
}

func TestDecodeDecodesLog10Frequency(t *testing.T) {
	x := []float64{math.Log10(1000), 1.5, 3.0}
	filters := Decode(Pk, x)
	require.Len(t, filters, 1)
	require.InDelta(t, 1000, filters[0].FreqHz, 1e-6)
	require.InDelta(t, 1.5, filters[0].Q, 1e-12)
	require.InDelta(t, 3.0, filters[0].GainDB, 1e-12)
}

func TestBuildAndRenderFlatAtZeroGain(t *testing.T) {
	x := []float64{math.Log10(1000), 1.0, 0.0}
	chain := Build(Pk, x, 48000)
	freqs := []float64{100, 1000, 10000}
	resp := chain.RenderedResponse(freqs)
	for _, v := range resp {
		require.InDelta(t, 0.0, v, 1e-6)
	}
}

func TestBuildHpPkProducesRollOffBelowCutoff(t *testing.T) {
	x := []float64{math.Log10(200), 0.707, 0.0, math.Log10(1000), 1.0, 6.0}
	chain := Build(HpPk, x, 48000)
	low := chain.RenderedResponse([]float64{20})[0]
	mid := chain.RenderedResponse([]float64{1000})[0]
	require.Less(t, low, mid)
}
