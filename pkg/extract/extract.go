// Package extract resolves the precursor and fragment traces of one peptide
// feature from an event store.
package extract

import (
	"context"
	"fmt"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/aggregate"
	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/events"
	"github.com/ChrisMcGann/oswview/pkg/window"
)

// Peptide is the extraction target: a precursor center plus its fragments.
type Peptide struct {
	Sequence  string // Modified sequence
	Charge    int
	MZ        float64
	RT        float64 // Seconds
	Mobility  float64
	Fragments core.FragmentSet

	PeakRT       core.Range // Peak group boundaries, zero when unknown
	PeakMobility core.Range
}

// FromFeature builds an extraction target from a selected feature and its fragments.
func FromFeature(f core.Feature, fragments core.FragmentSet) Peptide {
	return Peptide{
		Sequence:  f.FullPeptideName,
		Charge:    f.Charge,
		MZ:        f.PrecursorMZ,
		RT:        f.RT,
		Mobility:  f.Mobility,
		Fragments: fragments,

		PeakRT:       f.RTWindow(),
		PeakMobility: f.MobilityWindow(),
	}
}

// Title returns "SEQUENCE_charge".
func (p Peptide) Title() string {
	return fmt.Sprintf("%s_%d", p.Sequence, p.Charge)
}

// Options controls how slices are aggregated.
type Options struct {
	Axis        aggregate.Axis    // Group axis of line traces
	Heatmap     bool              // Emit RT x mobility grids instead of lines
	RemoveZeros bool              // Drop zero-valued line points
	Reducer     aggregate.Reducer // nil means aggregate.Sum
}

// DefaultOptions returns RT lines with zeros removed.
func DefaultOptions() Options {
	return Options{Axis: aggregate.AxisRT, RemoveZeros: true, Reducer: aggregate.Sum}
}

// Trace is one aggregated slice. Exactly one of Line and Grid is set.
type Trace struct {
	Label  string
	MZ     float64
	Window core.Window
	Events int
	Line   []aggregate.Point
	Grid   *aggregate.Grid
}

// Result holds the precursor trace and the fragment traces that had events.
type Result struct {
	Title        string
	PeakRT       core.Range
	PeakMobility core.Range
	Precursor    Trace
	Fragments    []Trace
}

// Run slices and aggregates the precursor (unisolated events) and every fragment
// (isolated events whose quadrupole window overlaps the precursor m/z window).
// Fragments without events are skipped.
func Run(ctx context.Context, store events.Store, p Peptide, params window.Params, opts Options) Result {
	log := logging.FromContext(ctx)

	precWindow := window.Resolve(p.MZ, p.RT, p.Mobility, params)
	precEvents := events.Collect(events.Slice(store, precWindow, events.Unisolated))

	res := Result{
		Title:        p.Title(),
		PeakRT:       p.PeakRT,
		PeakMobility: p.PeakMobility,
		Precursor:    buildTrace("precursor", p.MZ, precWindow, precEvents, opts),
		Fragments:    []Trace{},
	}

	for _, frag := range p.Fragments {
		fragWindow := window.WithMZ(precWindow, frag.MZ, params.PPM)
		fragEvents := events.Collect(events.SliceIsolated(store, fragWindow, precWindow.MZ))
		if len(fragEvents) == 0 {
			log.Debugw("Skipping fragment without events", "fragment", frag.Label, "mz", frag.MZ)
			continue
		}
		res.Fragments = append(res.Fragments, buildTrace(frag.Label, frag.MZ, fragWindow, fragEvents, opts))
	}

	log.Debugw("Extracted peptide", "peptide", res.Title,
		"precursorEvents", res.Precursor.Events, "fragments", len(res.Fragments))
	return res
}

func buildTrace(label string, mz float64, w core.Window, evs []core.Event, opts Options) Trace {
	t := Trace{Label: label, MZ: mz, Window: w, Events: len(evs)}

	if opts.Heatmap {
		t.Grid = aggregate.To2D(evs, aggregate.AxisRT, aggregate.AxisMobility, aggregate.AxisIntensity, opts.Reducer)
		return t
	}

	t.Line = aggregate.To1D(evs, opts.Axis, aggregate.AxisIntensity, opts.Reducer)
	if opts.RemoveZeros {
		t.Line = aggregate.RemoveZeros(t.Line)
	}
	return t
}
