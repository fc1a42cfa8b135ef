package events

import (
	"iter"
	"slices"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Unisolated is the quadrupole group of events recorded without isolation (MS1-like).
const Unisolated = 0

// Slice yields the events inside all ranges of w whose quadrupole group equals group.
// The sequence is lazy and follows store order (RT-major).
func Slice(s Store, w core.Window, group int) iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		for e := range s.RangeRT(w.RT) {
			if e.QuadGroup != group {
				continue
			}
			if !w.Mobility.Contains(e.Mobility) || !w.MZ.Contains(e.MZ) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// SliceIsolated yields fragment events inside w whose isolation window overlaps the
// precursor m/z range. Unisolated events are never returned.
func SliceIsolated(s Store, w core.Window, precursorMZ core.Range) iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		for e := range s.RangeRT(w.RT) {
			if e.QuadGroup == Unisolated {
				continue
			}
			if !precursorMZ.Overlaps(e.QuadLow, e.QuadHigh) {
				continue
			}
			if !w.Mobility.Contains(e.Mobility) || !w.MZ.Contains(e.MZ) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Collect materializes a sequence. An empty sequence gives an empty, non-nil slice.
func Collect(seq iter.Seq[core.Event]) []core.Event {
	out := slices.Collect(seq)
	if out == nil {
		return []core.Event{}
	}
	return out
}
