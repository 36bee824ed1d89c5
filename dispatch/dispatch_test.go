package dispatch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/autoeq/objective"
	"github.com/cwbudde/autoeq/peq"
)

func TestAllAlgorithmsHas21Entries(t *testing.T) {
	assert.Len(t, AllAlgorithms, 21)
}

func TestFindAlgorithmInfoExactMatch(t *testing.T) {
	info, ok := FindAlgorithmInfo("autoeq:de")
	require.True(t, ok)
	assert.Equal(t, "AutoEQ", info.Library)
	assert.True(t, info.SupportsNonlinearConstraints)
}

func TestFindAlgorithmInfoBackwardCompatibleSuffix(t *testing.T) {
	info, ok := FindAlgorithmInfo("bobyqa")
	require.True(t, ok)
	assert.Equal(t, "nlopt:bobyqa", info.Name)
}

func TestFindAlgorithmInfoUnknown(t *testing.T) {
	_, ok := FindAlgorithmInfo("does-not-exist")
	assert.False(t, ok)
}

func TestSetupDECommon(t *testing.T) {
	pop, iter := setupDECommon(5, 100)
	assert.Equal(t, 15, pop) // floor of 15
	assert.Equal(t, 100, iter)

	pop2, iter2 := setupDECommon(30, 100000)
	assert.Equal(t, 30, pop2)
	assert.Equal(t, 300, iter2) // capped at popSize*10
}

func logGrid(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	logLo, logHi := math.Log(lo), math.Log(hi)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = math.Exp(logLo + t*(logHi-logLo))
	}
	return out
}

func TestOptimizeFiltersAutoEQSingleFilterFit(t *testing.T) {
	freqs := logGrid(100, 20, 20000)
	target := make([]float64, len(freqs))
	for i, f := range freqs {
		if f >= 500 && f <= 2000 {
			target[i] = 6
		}
	}

	data := objective.Data{
		Freqs: freqs, Deviation: target, SampleRate: 48000,
		Model: peq.Pk, Loss: objective.FlatLoss,
		MaxDB: 12, MinDB: 0, MinSpacingOct: 0,
	}

	lower := []float64{2, 0.1, -12}
	upper := []float64{4, 10, 12}
	x := []float64{3, 1, 0}

	status, fBest, err := OptimizeFilters(x, lower, upper, data, "autoeq:de", 15, 300)
	require.NoError(t, err)
	assert.NotEmpty(t, status)
	assert.GreaterOrEqual(t, fBest, 0.0)
}

func TestOptimizeFiltersUnknownAlgorithm(t *testing.T) {
	data := objective.Data{Freqs: []float64{100}, Deviation: []float64{0}, SampleRate: 48000, Model: peq.Pk}
	x := []float64{2, 1, 0}
	_, _, err := OptimizeFilters(x, x, x, data, "nope:nope", 15, 100)
	assert.Error(t, err)
}
