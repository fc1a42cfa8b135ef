// Package aggregate projects raw events onto one or two axes.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Axis selects an event field.
type Axis int

const (
	AxisFrame Axis = iota
	AxisRT
	AxisScan
	AxisMobility
	AxisMZ
	AxisIntensity
)

var axisNames = map[Axis]string{
	AxisFrame:     "frame",
	AxisRT:        "rt",
	AxisScan:      "scan",
	AxisMobility:  "mobility",
	AxisMZ:        "mz",
	AxisIntensity: "intensity",
}

func (a Axis) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis parses an axis name. "im" and "m/z" are accepted as aliases.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frame", "frames":
		return AxisFrame, nil
	case "rt", "retention_time":
		return AxisRT, nil
	case "scan", "scans":
		return AxisScan, nil
	case "mobility", "im":
		return AxisMobility, nil
	case "mz", "m/z":
		return AxisMZ, nil
	case "intensity":
		return AxisIntensity, nil
	}
	return 0, fmt.Errorf("unknown axis '%s', must be frame, rt, scan, mobility, mz or intensity", s)
}

// Value returns the event field selected by the axis.
func (a Axis) Value(e core.Event) float64 {
	switch a {
	case AxisFrame:
		return float64(e.Frame)
	case AxisRT:
		return e.RT
	case AxisScan:
		return float64(e.Scan)
	case AxisMobility:
		return e.Mobility
	case AxisMZ:
		return e.MZ
	case AxisIntensity:
		return e.Intensity
	}
	panic(fmt.Sprintf("aggregate: invalid axis %d", int(a)))
}

// Reducer combines the values that fall into one group.
type Reducer func(values []float64) float64

// Sum adds all values.
func Sum(values []float64) float64 {
	return floats.Sum(values)
}

// Max returns the largest value.
func Max(values []float64) float64 {
	return floats.Max(values)
}

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// ParseReducer parses a reducer name: sum, max or mean.
func ParseReducer(s string) (Reducer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return Sum, nil
	case "max":
		return Max, nil
	case "mean":
		return Mean, nil
	}
	return nil, fmt.Errorf("unknown reducer '%s', must be sum, max or mean", s)
}

// Point is one aggregated (axis value, reduced value) pair.
type Point struct {
	X float64
	Y float64
}

// To1D groups events by the groupBy axis and reduces the value axis per group.
// Output is sorted by X; events sharing an X collapse into one point. A nil
// reducer means Sum.
func To1D(evs []core.Event, groupBy, value Axis, reduce Reducer) []Point {
	if reduce == nil {
		reduce = Sum
	}

	groups := make(map[float64][]float64)
	for _, e := range evs {
		x := groupBy.Value(e)
		groups[x] = append(groups[x], value.Value(e))
	}

	points := make([]Point, 0, len(groups))
	for x, vals := range groups {
		points = append(points, Point{X: x, Y: reduce(vals)})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].X < points[j].X
	})
	return points
}

// RemoveZeros drops points whose value is zero.
func RemoveZeros(points []Point) []Point {
	var filtered []Point
	for _, p := range points {
		if p.Y != 0 {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
