package aggregate

import (
	"sort"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Cell is a populated grid coordinate.
type Cell struct {
	X float64
	Y float64
}

// CellValue is a populated cell and its reduced value.
type CellValue struct {
	Cell
	Value float64
}

// Grid is a sparse 2-D aggregation. Only populated cells are stored.
type Grid struct {
	XAxis Axis
	YAxis Axis
	cells map[Cell]float64
}

// To2D groups events by the (x, y) cross product and reduces the value axis per cell.
// A nil reducer means Sum.
func To2D(evs []core.Event, x, y, value Axis, reduce Reducer) *Grid {
	if reduce == nil {
		reduce = Sum
	}

	groups := make(map[Cell][]float64)
	for _, e := range evs {
		c := Cell{X: x.Value(e), Y: y.Value(e)}
		groups[c] = append(groups[c], value.Value(e))
	}

	g := &Grid{XAxis: x, YAxis: y, cells: make(map[Cell]float64, len(groups))}
	for c, vals := range groups {
		g.cells[c] = reduce(vals)
	}
	return g
}

// Len returns the number of populated cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// At returns the value at (x, y) and whether the cell is populated.
func (g *Grid) At(x, y float64) (float64, bool) {
	v, ok := g.cells[Cell{X: x, Y: y}]
	return v, ok
}

// Cells returns the populated cells sorted by X, then Y.
func (g *Grid) Cells() []CellValue {
	out := make([]CellValue, 0, len(g.cells))
	for c, v := range g.cells {
		out = append(out, CellValue{Cell: c, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// Total returns the sum over all populated cells.
func (g *Grid) Total() float64 {
	vals := make([]float64, 0, len(g.cells))
	for _, v := range g.cells {
		vals = append(vals, v)
	}
	return Sum(vals)
}
