package xmrg

import (
	"iter"
	"strconv"
	"strings"
)

// Cell is an HRAP grid index.
type Cell struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Point projects the cell to longitude/latitude.
func (c Cell) Point() Point {
	return HRAPToLatLon(float64(c.X), float64(c.Y))
}

// Feature is one grid value paired with its location.
type Feature struct {
	Cell  Cell
	Point Point
	Value float64
}

// CSV renders the feature as "longitude,latitude,value".
func (f Feature) CSV() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(f.Point.Lon, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(f.Point.Lat, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(f.Value, 'f', -1, 64))
	return b.String()
}

// Cells yields the HRAP index of every cell in row-major order: x advances
// from OriginX across Columns, then y advances from OriginY across Rows.
func (h Header) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for y := int32(0); y < h.Rows; y++ {
			for x := int32(0); x < h.Columns; x++ {
				if !yield(Cell{X: h.OriginX + x, Y: h.OriginY + y}) {
					return
				}
			}
		}
	}
}

// Points yields the projected location of every cell in the order of Cells.
func (h Header) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for c := range h.Cells() {
			if !yield(c.Point()) {
				return
			}
		}
	}
}

// Coordinates builds the full projected table, one slice per row.
func (h Header) Coordinates() [][]Point {
	if h.Len() == 0 {
		return nil
	}
	out := make([][]Point, h.Rows)
	for y := range out {
		row := make([]Point, h.Columns)
		for x := range row {
			row[x] = HRAPToLatLon(float64(h.OriginX+int32(x)), float64(h.OriginY+int32(y)))
		}
		out[y] = row
	}
	return out
}

// Values yields the decoded values in row-major order.
func (g *Grid) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, row := range g.Data {
			for _, v := range row {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Features pairs each value with the cell at the same row-major position.
// Both sequences advance in lockstep and the stream ends with the shorter
// one. The grid is borrowed, not copied, and must not change while the
// sequence is consumed.
func (g *Grid) Features() iter.Seq[Feature] {
	return func(yield func(Feature) bool) {
		next, stop := iter.Pull(g.Header.Cells())
		defer stop()

		for v := range g.Values() {
			c, ok := next()
			if !ok {
				return
			}
			if !yield(Feature{Cell: c, Point: c.Point(), Value: v}) {
				return
			}
		}
	}
}
