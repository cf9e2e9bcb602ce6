package xmrg

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_Cells_RowMajor(t *testing.T) {
	h := Header{Columns: 2, Rows: 2}

	got := slices.Collect(h.Cells())
	assert.Equal(t, []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, got)
}

func TestHeader_Cells_FromOrigin(t *testing.T) {
	h := Header{OriginX: 367, OriginY: 263, Columns: 3, Rows: 1}

	got := slices.Collect(h.Cells())
	assert.Equal(t, []Cell{{367, 263}, {368, 263}, {369, 263}}, got)
}

func TestHeader_Points(t *testing.T) {
	h := Header{OriginX: 10, OriginY: 20, Columns: 2, Rows: 2}

	got := slices.Collect(h.Points())
	require.Len(t, got, 4)
	assert.Equal(t, HRAPToLatLon(10, 20), got[0])
	assert.Equal(t, HRAPToLatLon(11, 20), got[1])
	assert.Equal(t, HRAPToLatLon(10, 21), got[2])
	assert.Equal(t, HRAPToLatLon(11, 21), got[3])
}

func TestHeader_Coordinates(t *testing.T) {
	h := Header{OriginX: 400, OriginY: 100, Columns: 3, Rows: 2}

	table := h.Coordinates()
	require.Len(t, table, 2)
	require.Len(t, table[0], 3)

	var flat []Point
	for _, row := range table {
		flat = append(flat, row...)
	}
	assert.Equal(t, slices.Collect(h.Points()), flat)
	assert.Nil(t, Header{}.Coordinates())
}

func TestGrid_Features_Pairing(t *testing.T) {
	g := &Grid{
		Preamble: Preamble{Header: Header{Columns: 2, Rows: 2}},
		Data:     [][]float64{{0.5, NoData}, {2.5, 0}},
	}

	got := slices.Collect(g.Features())
	want := []Feature{
		{Cell: Cell{0, 0}, Point: HRAPToLatLon(0, 0), Value: 0.5},
		{Cell: Cell{1, 0}, Point: HRAPToLatLon(1, 0), Value: NoData},
		{Cell: Cell{0, 1}, Point: HRAPToLatLon(0, 1), Value: 2.5},
		{Cell: Cell{1, 1}, Point: HRAPToLatLon(1, 1), Value: 0},
	}
	assert.Equal(t, want, got)
}

func TestGrid_Features_StopsAtShorterValues(t *testing.T) {
	g := &Grid{
		Preamble: Preamble{Header: Header{Columns: 2, Rows: 2}},
		Data:     [][]float64{{1, 2}},
	}
	assert.Len(t, slices.Collect(g.Features()), 2)
}

func TestGrid_Features_StopsAtShorterCells(t *testing.T) {
	g := &Grid{
		Preamble: Preamble{Header: Header{Columns: 2, Rows: 1}},
		Data:     [][]float64{{1, 2, 3}},
	}
	assert.Len(t, slices.Collect(g.Features()), 2)
}

func TestGrid_Features_EarlyBreak(t *testing.T) {
	g := &Grid{
		Preamble: Preamble{Header: Header{Columns: 3, Rows: 3}},
		Data:     [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
	}

	var seen []float64
	for f := range g.Features() {
		seen = append(seen, f.Value)
		if len(seen) == 4 {
			break
		}
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, seen)
}

func TestGrid_Features_Empty(t *testing.T) {
	g := &Grid{Preamble: Preamble{Header: Header{Columns: 335, Rows: 159}, Version: VersionBuild5}}
	assert.Empty(t, slices.Collect(g.Features()))
}

func TestFeature_CSV(t *testing.T) {
	f := Feature{Point: Point{Lon: 106.5, Lat: 33.25}, Value: 2.5}
	assert.Equal(t, "106.5,33.25,2.5", f.CSV())

	f = Feature{Point: Point{Lon: 105, Lat: 24}, Value: NoData}
	assert.Equal(t, "105,24,-999", f.CSV())
}
