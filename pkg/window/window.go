// Package window computes extraction windows around a precursor or fragment center.
package window

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Default extraction tolerances.
const (
	DefaultPPM               = 50.0
	DefaultRTHalfWidth       = 30.0 // seconds
	DefaultMobilityHalfWidth = 0.05 // 1/K0
)

// Params holds the tolerances used to build a window.
type Params struct {
	PPM               float64 // m/z tolerance, multiplicative
	RTHalfWidth       float64 // seconds on either side of the RT center
	MobilityHalfWidth float64 // mobility units on either side of the mobility center
}

// DefaultParams returns the default extraction tolerances.
func DefaultParams() Params {
	return Params{
		PPM:               DefaultPPM,
		RTHalfWidth:       DefaultRTHalfWidth,
		MobilityHalfWidth: DefaultMobilityHalfWidth,
	}
}

// Resolve builds the extraction window around (mz, rt, mobility).
//
// The m/z range is [mz/(1+ppm*1e-6), mz*(1+ppm*1e-6)], which is not symmetric in
// absolute terms. RT and mobility ranges are center -/+ half-width.
//
// Non-finite inputs are programming errors and cause a panic.
func Resolve(mz, rt, mobility float64, p Params) core.Window {
	mustFinite("m/z", mz)
	mustFinite("retention time", rt)
	mustFinite("mobility", mobility)
	mustFinite("RT half-width", p.RTHalfWidth)
	mustFinite("mobility half-width", p.MobilityHalfWidth)

	return core.Window{
		RT:       core.Range{Lo: rt - p.RTHalfWidth, Hi: rt + p.RTHalfWidth},
		Mobility: core.Range{Lo: mobility - p.MobilityHalfWidth, Hi: mobility + p.MobilityHalfWidth},
		MZ:       MZRange(mz, p.PPM),
	}
}

// MZRange returns the ppm window around mz.
func MZRange(mz, ppm float64) core.Range {
	mustFinite("m/z", mz)
	mustFinite("ppm", ppm)

	factor := 1 + ppm*1e-6
	return core.Range{Lo: mz / factor, Hi: mz * factor}
}

// WithMZ returns a copy of w with its m/z range replaced by the ppm window around mz.
func WithMZ(w core.Window, mz, ppm float64) core.Window {
	w.MZ = MZRange(mz, ppm)
	return w
}

func mustFinite(name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("window: %s must be finite, got %v", name, v))
	}
}
