// Package core provides the shared value types and error taxonomy used by oswview:
// raw ion-mobility events, identified features, fragment sets and extraction windows.
package core

import (
	"fmt"
	"math"
)

// Event is a single raw measurement from a 4-D (RT, mobility, m/z, intensity) acquisition.
type Event struct {
	Frame     int     // Frame index (RT bin)
	RT        float64 // Retention time in seconds
	Scan      int     // Mobility scan index
	Mobility  float64 // Ion mobility (1/K0)
	MZ        float64 // Detected m/z
	Intensity float64

	// QuadGroup is the isolation window index; 0 means no quadrupole isolation.
	QuadGroup int
	QuadLow   float64 // Lower isolation bound (m/z), 0 for unisolated events
	QuadHigh  float64 // Upper isolation bound (m/z), 0 for unisolated events
}

// Range is a closed interval [Lo, Hi].
type Range struct {
	Lo float64
	Hi float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Overlaps reports whether the closed interval [lo, hi] intersects the range.
func (r Range) Overlaps(lo, hi float64) bool {
	return lo <= r.Hi && hi >= r.Lo
}

// Width returns Hi - Lo.
func (r Range) Width() float64 {
	return r.Hi - r.Lo
}

// Center returns the arithmetic midpoint of the range.
func (r Range) Center() float64 {
	return (r.Lo + r.Hi) / 2
}

// Full returns a range that contains every finite value.
func Full() Range {
	return Range{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

func (r Range) String() string {
	return fmt.Sprintf("[%.6g, %.6g]", r.Lo, r.Hi)
}

// Window is a set of extraction ranges along the RT, mobility and m/z axes.
type Window struct {
	RT       Range // seconds
	Mobility Range // 1/K0
	MZ       Range // m/z
}

// Contains reports whether the event lies inside all three ranges.
func (w Window) Contains(e Event) bool {
	return w.RT.Contains(e.RT) && w.Mobility.Contains(e.Mobility) && w.MZ.Contains(e.MZ)
}

// FullWindow returns a window covering the whole event domain.
func FullWindow() Window {
	return Window{RT: Full(), Mobility: Full(), MZ: Full()}
}
