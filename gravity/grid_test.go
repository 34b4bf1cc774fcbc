package gravity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitGrid returns a grid with origin (0,0) and unit cells.
func unitGrid() *Grid {
	return NewGrid(Origin{}, 1.0)
}

// at places a location in the middle of cell (col, row) of a unit grid.
func at(id, col, row, capacity int) Location {
	return Location{ID: id, X: float64(col) + 0.5, Y: float64(row) + 0.5, Capacity: capacity, Weight: capacity}
}

func handles(n int) []Handle {
	hs := make([]Handle, n)
	for i := range hs {
		hs[i] = Handle(i)
	}
	return hs
}

func TestGrid_ColumnAndRow_FloorFromOrigin(t *testing.T) {
	g := NewGrid(Origin{MinX: 10, MinY: -5}, 0.5)

	tests := []struct {
		name     string
		x, y     float64
		col, row int
	}{
		{"origin", 10, -5, 0, 0},
		{"inside first cell", 10.49, -4.51, 0, 0},
		{"cell boundary", 10.5, -4.5, 1, 1},
		{"below origin", 9.99, -5.01, -1, -1},
		{"far", 15.2, 0.1, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.col, g.ColumnOf(tt.x))
			assert.Equal(t, tt.row, g.RowOf(tt.y))
			assert.Equal(t, Cell{Col: tt.col, Row: tt.row}, g.CellOf(tt.x, tt.y))
		})
	}
}

func TestGrid_Build_BucketsInHandleOrder(t *testing.T) {
	// GIVEN three locations, two sharing cell (0,0)
	arena := []Location{at(1, 0, 0, 1), at(2, 2, 1, 1), at(3, 0, 0, 1)}
	g := unitGrid()

	// WHEN the grid is built
	g.Build(arena, handles(3))

	// THEN buckets keep insertion order and bounds enclose all cells
	assert.Equal(t, []Handle{0, 2}, g.Bucket(Cell{0, 0}))
	assert.Equal(t, []Handle{1}, g.Bucket(Cell{2, 1}))
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.Occupied())
	lo, hi := g.Bounds()
	assert.Equal(t, Cell{0, 0}, lo)
	assert.Equal(t, Cell{2, 1}, hi)
}

func TestGrid_Remove_PreservesOrderAndDropsEmptyBuckets(t *testing.T) {
	arena := []Location{at(1, 0, 0, 1), at(2, 0, 0, 1), at(3, 0, 0, 1), at(4, 5, 5, 1)}
	g := unitGrid()
	g.Build(arena, handles(4))

	g.Remove(1)
	assert.Equal(t, []Handle{0, 2}, g.Bucket(Cell{0, 0}))
	assert.False(t, g.Contains(1))
	assert.Equal(t, 3, g.Len())

	g.Remove(3)
	assert.Nil(t, g.Bucket(Cell{5, 5}))
	assert.Equal(t, 1, g.Occupied())

	// removing twice is a no-op
	g.Remove(3)
	g.Remove(42)
	assert.Equal(t, 2, g.Len())
}

func TestGrid_Build_OnlyRequestedHandles(t *testing.T) {
	arena := []Location{at(1, 0, 0, 1), at(2, 1, 1, 0), at(3, 2, 2, 1)}
	g := unitGrid()

	g.Build(arena, []Handle{0, 2})

	require.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(0))
	assert.False(t, g.Contains(1))
	assert.True(t, g.Contains(2))
}
