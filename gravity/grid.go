package gravity

import "math"

// Cell is the (column, row) key of one grid bucket.
type Cell struct {
	Col int
	Row int
}

// Grid buckets active locations into a uniform grid anchored at a fixed origin.
// Buckets keep insertion order so candidate order is reproducible for a given
// sequence of builds and removals.
//
// Thread-safety: NOT thread-safe. Owned by a single driver call.
type Grid struct {
	origin   Origin
	cellSize float64

	buckets map[Cell][]Handle
	cellOf  []Cell // indexed by handle
	indexed []bool // indexed by handle
	size    int

	minCell, maxCell Cell // occupied bounds at build time
}

// NewGrid creates an empty grid. The origin and cell size are fixed for the
// lifetime of the grid.
func NewGrid(origin Origin, cellSize float64) *Grid {
	return &Grid{
		origin:   origin,
		cellSize: cellSize,
		buckets:  make(map[Cell][]Handle),
	}
}

// ColumnOf maps an x coordinate to its column index.
func (g *Grid) ColumnOf(x float64) int {
	return int(math.Floor((x - g.origin.MinX) / g.cellSize))
}

// RowOf maps a y coordinate to its row index.
func (g *Grid) RowOf(y float64) int {
	return int(math.Floor((y - g.origin.MinY) / g.cellSize))
}

// CellOf maps a position to its cell.
func (g *Grid) CellOf(x, y float64) Cell {
	return Cell{Col: g.ColumnOf(x), Row: g.RowOf(y)}
}

// Build buckets the given handles of arena in order. Previous contents are
// discarded.
func (g *Grid) Build(arena []Location, handles []Handle) {
	g.buckets = make(map[Cell][]Handle)
	g.cellOf = make([]Cell, len(arena))
	g.indexed = make([]bool, len(arena))
	g.size = 0

	for i, h := range handles {
		l := &arena[h]
		c := g.CellOf(l.X, l.Y)
		g.buckets[c] = append(g.buckets[c], h)
		g.cellOf[h] = c
		g.indexed[h] = true
		g.size++

		if i == 0 {
			g.minCell, g.maxCell = c, c
			continue
		}
		g.minCell.Col = min(g.minCell.Col, c.Col)
		g.minCell.Row = min(g.minCell.Row, c.Row)
		g.maxCell.Col = max(g.maxCell.Col, c.Col)
		g.maxCell.Row = max(g.maxCell.Row, c.Row)
	}
}

// Remove deletes a location from its bucket. Removing a handle that is not
// indexed is a no-op.
// O(bucket size).
func (g *Grid) Remove(h Handle) {
	if int(h) < 0 || int(h) >= len(g.indexed) || !g.indexed[h] {
		return
	}
	c := g.cellOf[h]
	bucket := g.buckets[c]
	for i, other := range bucket {
		if other != h {
			continue
		}
		bucket = append(bucket[:i], bucket[i+1:]...)
		break
	}
	if len(bucket) == 0 {
		delete(g.buckets, c)
	} else {
		g.buckets[c] = bucket
	}
	g.indexed[h] = false
	g.size--
}

// Contains reports whether h is currently indexed.
func (g *Grid) Contains(h Handle) bool {
	return int(h) >= 0 && int(h) < len(g.indexed) && g.indexed[h]
}

// Bucket returns the handles in cell c. The slice is owned by the grid and
// must not be modified.
func (g *Grid) Bucket(c Cell) []Handle {
	return g.buckets[c]
}

// Bounds returns the smallest and largest occupied cells seen at build time.
// Evictions never shrink the bounds.
func (g *Grid) Bounds() (Cell, Cell) {
	return g.minCell, g.maxCell
}

// Len returns the number of indexed locations.
func (g *Grid) Len() int {
	return g.size
}

// Occupied returns the number of non-empty buckets.
func (g *Grid) Occupied() int {
	return len(g.buckets)
}
