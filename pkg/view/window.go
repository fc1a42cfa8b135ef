// Package view keeps the current view window of an interactive 4-D browser and
// recomputes the dependent panels whenever it changes.
package view

import (
	"errors"
	"slices"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Initial ranges selected on the heat map.
var (
	DefaultMobility = core.Range{Lo: 0.6, Hi: 1.5}
	DefaultMZ       = core.Range{Lo: 400, Hi: 1200}
)

// ErrNoFrames is returned when a window is built over an empty frame list.
var ErrNoFrames = errors.New("view: no frames to browse")

// State is the current view: one frame plus the selected mobility and m/z ranges.
type State struct {
	Frame    int
	Mobility core.Range
	MZ       core.Range
}

// Observer is called with the new state after every change.
type Observer func(State)

// Window is the mutable "current view window". It has a single writer and is not
// safe for concurrent use.
type Window struct {
	frames    []int
	state     State
	observers []Observer
}

// NewWindow creates a window over frames, starting at the first frame with the
// default ranges.
func NewWindow(frames []int) (*Window, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	sorted := slices.Clone(frames)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	return &Window{
		frames: sorted,
		state:  State{Frame: sorted[0], Mobility: DefaultMobility, MZ: DefaultMZ},
	}, nil
}

// Subscribe registers an observer.
func (w *Window) Subscribe(o Observer) {
	w.observers = append(w.observers, o)
}

// State returns the current state.
func (w *Window) State() State {
	return w.state
}

// Frames returns the browsable frames, ascending.
func (w *Window) Frames() []int {
	return slices.Clone(w.frames)
}

// Tap moves to the frame closest to frame and returns it.
func (w *Window) Tap(frame int) int {
	w.state.Frame = Nearest(w.frames, frame)
	w.notify()
	return w.state.Frame
}

// SetMobility selects a mobility range.
func (w *Window) SetMobility(r core.Range) {
	w.state.Mobility = r
	w.notify()
}

// SetMZ selects an m/z range.
func (w *Window) SetMZ(r core.Range) {
	w.state.MZ = r
	w.notify()
}

// Restrict keeps only frames in [lo, hi) and snaps the current frame into them.
func (w *Window) Restrict(lo, hi int) error {
	var kept []int
	for _, f := range w.frames {
		if f >= lo && f < hi {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return ErrNoFrames
	}

	w.frames = kept
	w.state.Frame = Nearest(w.frames, w.state.Frame)
	w.notify()
	return nil
}

func (w *Window) notify() {
	for _, o := range w.observers {
		o(w.state)
	}
}

// Nearest returns the element of the ascending list frames closest to frame. Ties go
// to the lower frame.
func Nearest(frames []int, frame int) int {
	i, _ := slices.BinarySearch(frames, frame)
	switch {
	case i == 0:
		return frames[0]
	case i == len(frames):
		return frames[len(frames)-1]
	}

	lo, hi := frames[i-1], frames[i]
	if frame-lo <= hi-frame {
		return lo
	}
	return hi
}
