package view

import (
	"github.com/ChrisMcGann/oswview/pkg/aggregate"
)

// Snapshot is everything a renderer needs to draw one state of the dashboard.
type Snapshot struct {
	State        State
	Heatmap      *aggregate.Grid
	Spectrum     []aggregate.Point
	Mobilogram   []aggregate.Point
	Chromatogram []aggregate.Point
}

// Renderer draws a snapshot.
type Renderer func(Snapshot)

// Dashboard recomputes all panels whenever the window changes and hands the
// result to a renderer.
type Dashboard struct {
	window *Window
	panels *Panels
	render Renderer
	last   Snapshot
}

// NewDashboard subscribes to w and renders the initial state. A nil renderer
// only records snapshots.
func NewDashboard(w *Window, p *Panels, render Renderer) *Dashboard {
	d := &Dashboard{window: w, panels: p, render: render}
	w.Subscribe(d.update)
	d.update(w.State())
	return d
}

// Snapshot returns the most recently computed snapshot.
func (d *Dashboard) Snapshot() Snapshot {
	return d.last
}

func (d *Dashboard) update(s State) {
	d.last = Snapshot{
		State:        s,
		Heatmap:      d.panels.Heatmap(s),
		Spectrum:     d.panels.Spectrum(s),
		Mobilogram:   d.panels.Mobilogram(s),
		Chromatogram: d.panels.Chromatogram(s, d.window.Frames()),
	}
	if d.render != nil {
		d.render(d.last)
	}
}
