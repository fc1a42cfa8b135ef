package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

func sampleEvents() []core.Event {
	return []core.Event{
		{Frame: 2, RT: 601, Mobility: 0.95, MZ: 500.25, Intensity: 10},
		{Frame: 1, RT: 600, Mobility: 0.95, MZ: 500.25, Intensity: 5},
		{Frame: 1, RT: 600, Mobility: 0.80, MZ: 500.26, Intensity: 7},
		{Frame: 3, RT: 602, Mobility: 0.80, MZ: 500.25, Intensity: 4},
	}
}

func TestTo1DSumsTies(t *testing.T) {
	got := To1D(sampleEvents(), AxisRT, AxisIntensity, nil)
	want := []Point{
		{X: 600, Y: 12},
		{X: 601, Y: 10},
		{X: 602, Y: 4},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("To1D() mismatch (-want +got):\n%s", diff)
	}
}

func TestTo1DAxes(t *testing.T) {
	tests := []struct {
		name    string
		groupBy Axis
		reduce  Reducer
		want    []Point
	}{
		{
			name:    "mobility sum",
			groupBy: AxisMobility,
			want:    []Point{{X: 0.80, Y: 11}, {X: 0.95, Y: 15}},
		},
		{
			name:    "mz max",
			groupBy: AxisMZ,
			reduce:  Max,
			want:    []Point{{X: 500.25, Y: 10}, {X: 500.26, Y: 7}},
		},
		{
			name:    "frame mean",
			groupBy: AxisFrame,
			reduce:  Mean,
			want:    []Point{{X: 1, Y: 6}, {X: 2, Y: 10}, {X: 3, Y: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := To1D(sampleEvents(), tt.groupBy, AxisIntensity, tt.reduce)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("To1D() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTo1DIdempotentOnUniqueGroups(t *testing.T) {
	first := To1D(sampleEvents(), AxisRT, AxisIntensity, Sum)
	second := To1D(pointsToEvents(first, AxisRT, AxisIntensity), AxisRT, AxisIntensity, Sum)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-aggregation changed the series (-first +second):\n%s", diff)
	}
}

func TestTo1DEmpty(t *testing.T) {
	got := To1D(nil, AxisRT, AxisIntensity, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTo2D(t *testing.T) {
	g := To2D(sampleEvents(), AxisRT, AxisMobility, AxisIntensity, nil)

	require.Equal(t, 4, g.Len())
	v, ok := g.At(600, 0.95)
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = g.At(601, 0.80)
	assert.False(t, ok, "unpopulated cells must not be materialized")

	cells := g.Cells()
	require.Len(t, cells, 4)
	assert.Equal(t, Cell{X: 600, Y: 0.80}, cells[0].Cell)
	assert.Equal(t, Cell{X: 602, Y: 0.80}, cells[3].Cell)
	assert.Equal(t, 26.0, g.Total())
}

func TestTo2DCollapsesCells(t *testing.T) {
	evs := append(sampleEvents(), core.Event{RT: 600, Mobility: 0.95, Intensity: 1})
	g := To2D(evs, AxisRT, AxisMobility, AxisIntensity, Sum)

	v, ok := g.At(600, 0.95)
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"rt", AxisRT, false},
		{"IM", AxisMobility, false},
		{"m/z", AxisMZ, false},
		{" frame ", AxisFrame, false},
		{"scan", AxisScan, false},
		{"intensity", AxisIntensity, false},
		{"charge", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseReducer(t *testing.T) {
	r, err := ParseReducer("")
	require.NoError(t, err)
	assert.Equal(t, 6.0, r([]float64{1, 2, 3}))

	r, err = ParseReducer("max")
	require.NoError(t, err)
	assert.Equal(t, 3.0, r([]float64{1, 3, 2}))

	_, err = ParseReducer("median")
	assert.Error(t, err)
}

func TestRemoveZeros(t *testing.T) {
	got := RemoveZeros([]Point{{X: 1, Y: 0}, {X: 2, Y: 3}, {X: 3, Y: 0}})
	assert.Equal(t, []Point{{X: 2, Y: 3}}, got)
}

// pointsToEvents turns points back into events with X on the groupBy axis and Y on
// the value axis, so an aggregated series can be aggregated again.
func pointsToEvents(points []Point, groupBy, value Axis) []core.Event {
	evs := make([]core.Event, len(points))
	for i, p := range points {
		setAxis(&evs[i], groupBy, p.X)
		setAxis(&evs[i], value, p.Y)
	}
	return evs
}

func setAxis(e *core.Event, a Axis, v float64) {
	switch a {
	case AxisFrame:
		e.Frame = int(v)
	case AxisRT:
		e.RT = v
	case AxisScan:
		e.Scan = int(v)
	case AxisMobility:
		e.Mobility = v
	case AxisMZ:
		e.MZ = v
	case AxisIntensity:
		e.Intensity = v
	}
}
