package peq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBw2QRoundTrip(t *testing.T) {
	for _, bw := range []float64{0.1, 0.5, 0.9, 1.0, 2.0} {
		q := Bw2Q(bw)
		got := Q2Bw(q)
		require.InDelta(t, bw, got, 1e-9)
	}
}

func TestDesignPeak_UnityAtZeroGain(t *testing.T) {
	c, err := Design(Peak, 1000, 48000, 1.0, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, c.B0, 1e-12)
	require.InDelta(t, 0.0, c.B1, 1e-12)
	require.InDelta(t, 0.0, c.B2, 1e-12)
	require.InDelta(t, 0.0, c.A1, 1e-12)
	require.InDelta(t, 0.0, c.A2, 1e-12)
}

func TestDesignPeak_PositiveGainLeavesDCNearUnity(t *testing.T) {
	c, err := Design(Peak, 1000, 48000, 1.0, 6.0)
	require.NoError(t, err)

	// DC gain of a normalized biquad is (b0+b1+b2)/(1+a1+a2); a peak filter
	// centered well above DC should leave DC near unity, not near the peak gain.
	dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
	require.InDelta(t, 1.0, dc, 0.05)
}

func TestDesignRejectsOutOfRangeFrequency(t *testing.T) {
	_, err := Design(Lowpass, 30000, 48000, 0.707, 0)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = Design(Highpass, 0, 48000, 0.707, 0)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = Design(Peak, 1000, 0, 0.707, 0)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestResolveQDefaults(t *testing.T) {
	require.InDelta(t, DefaultQNotch, resolveQ(Notch, 0.5), 1e-12)
	require.InDelta(t, DefaultQHighLowPass, resolveQ(Lowpass, 0), 1e-12)
	require.InDelta(t, DefaultQHighLowShelf, resolveQ(Lowshelf, 0), 1e-12)
	require.InDelta(t, 2.5, resolveQ(Peak, 2.5), 1e-12)
}

func TestKindStringsAndShortNames(t *testing.T) {
	cases := []struct {
		k     Kind
		long  string
		short string
	}{
		{Lowpass, "Lowpass", "LP"},
		{Highpass, "Highpass", "HP"},
		{Bandpass, "Bandpass", "BP"},
		{Notch, "Notch", "NO"},
		{Peak, "Peak", "PK"},
		{Lowshelf, "Lowshelf", "LS"},
		{Highshelf, "Highshelf", "HS"},
	}
	for _, c := range cases {
		require.Equal(t, c.long, c.k.String())
		require.Equal(t, c.short, c.k.ShortName())
	}
}

func TestDesignAllKindsAreStableAndNormalized(t *testing.T) {
	for k := Lowpass; k <= Highshelf; k++ {
		c, err := Design(k, 1000, 48000, 0.707, 3.0)
		require.NoError(t, err)
		require.False(t, math.IsNaN(c.B0) || math.IsInf(c.B0, 0))
		require.False(t, math.IsNaN(c.A1) || math.IsInf(c.A1, 0))
		// Stability triangle for a normalized (a0=1) biquad: both poles
		// lie inside the unit circle.
		require.Less(t, math.Abs(c.A2), 1.0)
		require.Less(t, math.Abs(c.A1), 1+c.A2)
	}
}
