package gravity

// Search collects candidates from square rings of cells around origin.
//
// The ring radius starts at 0 (the origin cell only) and grows by steps cells
// per pass. Each pass scans, in row-major order, the cells whose Chebyshev
// distance to origin lies in (previous radius, current radius]; cells outside
// the occupied bounds are never visited. Scanning stops once at least k
// handles have been collected or the ring covers every occupied cell.
// Everything found in the final ring is kept, so the result may hold more
// than k handles.
func Search(g *Grid, origin Cell, k, steps int) []Handle {
	if g.Len() == 0 {
		return nil
	}
	if steps <= 0 {
		steps = 1
	}

	lo, hi := g.Bounds()
	var found []Handle
	prev := -1
	for radius := 0; ; radius += steps {
		top, bottom := max(origin.Row-radius, lo.Row), min(origin.Row+radius, hi.Row)
		for row := top; row <= bottom; row++ {
			if abs(row-origin.Row) > prev {
				found = g.appendSpan(found, row, origin.Col-radius, origin.Col+radius)
				continue
			}
			// rows crossing the inner square only contribute their two side bands
			found = g.appendSpan(found, row, origin.Col-radius, origin.Col-prev-1)
			found = g.appendSpan(found, row, origin.Col+prev+1, origin.Col+radius)
		}
		if len(found) >= k || covers(origin, radius, lo, hi) {
			return found
		}
		prev = radius
	}
}

// appendSpan appends the buckets of row between columns from and to, clipped
// to the occupied bounds.
func (g *Grid) appendSpan(found []Handle, row, from, to int) []Handle {
	lo, hi := g.Bounds()
	for col := max(from, lo.Col); col <= min(to, hi.Col); col++ {
		found = append(found, g.Bucket(Cell{Col: col, Row: row})...)
	}
	return found
}

// covers reports whether the ring of the given radius around origin encloses
// the box [lo, hi].
func covers(origin Cell, radius int, lo, hi Cell) bool {
	return origin.Col-radius <= lo.Col && origin.Col+radius >= hi.Col &&
		origin.Row-radius <= lo.Row && origin.Row+radius >= hi.Row
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
