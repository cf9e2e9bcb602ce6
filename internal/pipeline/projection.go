package pipeline

import (
	"iter"

	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// defaultProjectionCacheSize covers one RFC's grid plus a neighbour's. A
// national-scale table is tens of megabytes, so keep this small.
const defaultProjectionCacheSize = 2

// projectionCache keeps the projected coordinate tables of recently seen
// headers. Hourly files from one RFC share a header, so each table is built
// once rather than once per file.
type projectionCache struct {
	tables *lruCache[xmrg.Header, [][]xmrg.Point]
}

func newProjectionCache(size int) *projectionCache {
	if size <= 0 {
		size = defaultProjectionCacheSize
	}
	return &projectionCache{tables: newLRUCache[xmrg.Header, [][]xmrg.Point](size)}
}

func (c *projectionCache) coordinates(h xmrg.Header) [][]xmrg.Point {
	if table, ok := c.tables.get(h); ok {
		return table
	}
	table := h.Coordinates()
	if table != nil {
		c.tables.put(h, table)
	}
	return table
}

// features yields the same sequence as g.Features, reading locations from
// the cached table. Grids whose data does not match the header shape fall
// back to projecting each cell.
func (c *projectionCache) features(g *xmrg.Grid) iter.Seq[xmrg.Feature] {
	if !fullGrid(g) {
		return g.Features()
	}
	table := c.coordinates(g.Header)
	return func(yield func(xmrg.Feature) bool) {
		for y, row := range g.Data {
			for x, v := range row {
				f := xmrg.Feature{
					Cell:  xmrg.Cell{X: g.Header.OriginX + int32(x), Y: g.Header.OriginY + int32(y)},
					Point: table[y][x],
					Value: v,
				}
				if !yield(f) {
					return
				}
			}
		}
	}
}

func fullGrid(g *xmrg.Grid) bool {
	if g.Header.Len() == 0 || len(g.Data) != int(g.Header.Rows) {
		return false
	}
	for _, row := range g.Data {
		if len(row) != int(g.Header.Columns) {
			return false
		}
	}
	return true
}
