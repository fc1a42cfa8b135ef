// Package events provides the indexed in-memory event table and the slicing
// functions that select raw events inside extraction windows.
package events

import (
	"iter"
	"sort"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Store is read access to an RT-ordered event collection.
type Store interface {
	// RangeRT yields the events whose retention time lies in r, in store order.
	RangeRT(r core.Range) iter.Seq[core.Event]
}

// FrameStore is a Store that can also be addressed by frame index.
type FrameStore interface {
	Store
	Frame(frame int) iter.Seq[core.Event]
	Frames() []int
}

// Table is an immutable event collection sorted by retention time.
type Table struct {
	events []core.Event
	frames map[int][]span
	order  []int
}

type span struct {
	start, end int
}

// NewTable sorts a copy of events by (RT, frame, scan, m/z) and indexes frames.
func NewTable(evs []core.Event) *Table {
	sorted := make([]core.Event, len(evs))
	copy(sorted, evs)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.RT != b.RT {
			return a.RT < b.RT
		}
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		if a.Scan != b.Scan {
			return a.Scan < b.Scan
		}
		return a.MZ < b.MZ
	})

	t := &Table{
		events: sorted,
		frames: make(map[int][]span),
	}

	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Frame == sorted[i].Frame {
			j++
		}
		frame := sorted[i].Frame
		if _, ok := t.frames[frame]; !ok {
			t.order = append(t.order, frame)
		}
		// a frame is one span unless its events carry different RTs
		t.frames[frame] = append(t.frames[frame], span{start: i, end: j})
		i = j
	}
	sort.Ints(t.order)

	return t
}

// Len returns the number of events in the table.
func (t *Table) Len() int {
	return len(t.events)
}

// At returns the i-th event in RT order.
func (t *Table) At(i int) core.Event {
	return t.events[i]
}

// All yields every event in RT order.
func (t *Table) All() iter.Seq[core.Event] {
	return t.yieldSpan(0, len(t.events))
}

// RangeRT yields the events with r.Lo <= RT <= r.Hi using binary search on RT.
func (t *Table) RangeRT(r core.Range) iter.Seq[core.Event] {
	start := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].RT >= r.Lo
	})
	end := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].RT > r.Hi
	})
	if end < start {
		end = start
	}
	return t.yieldSpan(start, end)
}

// Frame yields the events of one frame. Unknown frames yield nothing.
func (t *Table) Frame(frame int) iter.Seq[core.Event] {
	spans := t.frames[frame]
	return func(yield func(core.Event) bool) {
		for _, s := range spans {
			for i := s.start; i < s.end; i++ {
				if !yield(t.events[i]) {
					return
				}
			}
		}
	}
}

// Frames returns the frame indices present in the table, ascending.
func (t *Table) Frames() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// FrameTimes returns the retention time of each frame.
func (t *Table) FrameTimes() map[int]float64 {
	times := make(map[int]float64, len(t.frames))
	for frame, spans := range t.frames {
		times[frame] = t.events[spans[0].start].RT
	}
	return times
}

func (t *Table) yieldSpan(start, end int) iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		for i := start; i < end; i++ {
			if !yield(t.events[i]) {
				return
			}
		}
	}
}
