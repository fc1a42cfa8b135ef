package window

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExample(t *testing.T) {
	w := Resolve(500.25, 600.0, 0.95, Params{PPM: 50, RTHalfWidth: 30, MobilityHalfWidth: 0.05})

	assert.InDelta(t, 500.225, w.MZ.Lo, 0.001)
	assert.InDelta(t, 500.275, w.MZ.Hi, 0.001)
	assert.Equal(t, 570.0, w.RT.Lo)
	assert.Equal(t, 630.0, w.RT.Hi)
	assert.InDelta(t, 0.90, w.Mobility.Lo, 1e-12)
	assert.InDelta(t, 1.00, w.Mobility.Hi, 1e-12)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, 50.0, p.PPM)
	assert.Equal(t, 30.0, p.RTHalfWidth)
	assert.Equal(t, 0.05, p.MobilityHalfWidth)
}

func TestMZRangeIsMultiplicative(t *testing.T) {
	tests := []struct {
		name string
		mz   float64
		ppm  float64
	}{
		{"small ppm", 400.0, 5},
		{"default ppm", 500.25, 50},
		{"large ppm", 1234.5678, 500},
		{"low mass", 100.05, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MZRange(tt.mz, tt.ppm)
			factor := 1 + tt.ppm*1e-6

			assert.Less(t, r.Lo, tt.mz)
			assert.Greater(t, r.Hi, tt.mz)
			assert.InDelta(t, factor/(1/factor), r.Hi/r.Lo, 1e-12)
			// the absolute window is wider above the center than below
			assert.Greater(t, r.Hi-tt.mz, tt.mz-r.Lo)
		})
	}
}

func TestResolveRTSymmetric(t *testing.T) {
	for _, width := range []float64{0, 1.5, 30, 120} {
		w := Resolve(800, 1500, 1.1, Params{PPM: 10, RTHalfWidth: width, MobilityHalfWidth: 0.02})
		assert.Equal(t, 1500-width, w.RT.Lo)
		assert.Equal(t, 1500+width, w.RT.Hi)
	}
}

func TestWithMZ(t *testing.T) {
	w := Resolve(500, 600, 1, DefaultParams())
	frag := WithMZ(w, 300, 20)

	assert.Equal(t, w.RT, frag.RT)
	assert.Equal(t, w.Mobility, frag.Mobility)
	assert.Equal(t, MZRange(300, 20), frag.MZ)
}

func TestResolvePanicsOnNonFinite(t *testing.T) {
	require.Panics(t, func() { Resolve(math.NaN(), 600, 1, DefaultParams()) })
	require.Panics(t, func() { Resolve(500, math.Inf(1), 1, DefaultParams()) })
	require.Panics(t, func() { Resolve(500, 600, math.Inf(-1), DefaultParams()) })
	require.Panics(t, func() { MZRange(500, math.NaN()) })
}
