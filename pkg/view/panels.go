package view

import (
	"github.com/ChrisMcGann/oswview/pkg/aggregate"
	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/events"
)

// Panels computes the four linked views over a frame-indexed store.
type Panels struct {
	store events.FrameStore
}

// NewPanels returns panels over store.
func NewPanels(store events.FrameStore) *Panels {
	return &Panels{store: store}
}

// Heatmap returns intensity on a mobility x m/z grid for the state's frame.
func (p *Panels) Heatmap(s State) *aggregate.Grid {
	evs := events.Collect(p.store.Frame(s.Frame))
	return aggregate.To2D(evs, aggregate.AxisMobility, aggregate.AxisMZ, aggregate.AxisIntensity, aggregate.Sum)
}

// Spectrum returns intensity by m/z at the state's frame, summed over the
// selected mobility range.
func (p *Panels) Spectrum(s State) []aggregate.Point {
	evs := p.frameWhere(s.Frame, func(e core.Event) bool {
		return s.Mobility.Contains(e.Mobility)
	})
	return aggregate.To1D(evs, aggregate.AxisMZ, aggregate.AxisIntensity, aggregate.Sum)
}

// Mobilogram returns intensity by mobility at the state's frame, summed over the
// selected m/z range.
func (p *Panels) Mobilogram(s State) []aggregate.Point {
	evs := p.frameWhere(s.Frame, func(e core.Event) bool {
		return s.MZ.Contains(e.MZ)
	})
	return aggregate.To1D(evs, aggregate.AxisMobility, aggregate.AxisIntensity, aggregate.Sum)
}

// Chromatogram returns total intensity by frame over frames, restricted to both
// selected ranges.
func (p *Panels) Chromatogram(s State, frames []int) []aggregate.Point {
	var evs []core.Event
	for _, f := range frames {
		evs = append(evs, p.frameWhere(f, func(e core.Event) bool {
			return s.Mobility.Contains(e.Mobility) && s.MZ.Contains(e.MZ)
		})...)
	}
	return aggregate.To1D(evs, aggregate.AxisFrame, aggregate.AxisIntensity, aggregate.Sum)
}

func (p *Panels) frameWhere(frame int, keep func(core.Event) bool) []core.Event {
	evs := []core.Event{}
	for e := range p.store.Frame(frame) {
		if keep(e) {
			evs = append(evs, e)
		}
	}
	return evs
}
