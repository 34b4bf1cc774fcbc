package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthnet/gravnet/gravity"
)

// scatter returns n locations and n points uniformly spread over the unit square.
func scatter(seed int64, n int) ([]gravity.Location, []gravity.Point) {
	rng := gravity.NewRNG(seed)
	locs := make([]gravity.Location, n)
	pts := make([]gravity.Point, n)
	for i := 0; i < n; i++ {
		locs[i] = gravity.Location{ID: i + 1, X: rng.Float64(), Y: rng.Float64(), Capacity: 1 + rng.Intn(5)}
		pts[i] = gravity.Point{ID: i + 1, X: rng.Float64(), Y: rng.Float64()}
	}
	return locs, pts
}

func TestSummarizeDistances_KnownValues(t *testing.T) {
	// GIVEN ten unsorted distances 1..10
	distances := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}

	// WHEN summarized
	row := summarizeDistances(2, distances)

	// THEN the statistics match and the input is left untouched
	assert.Equal(t, 2.0, row.Exponent)
	assert.Equal(t, 10, row.Edges)
	assert.InDelta(t, 5.5, row.Mean, 1e-12)
	assert.Equal(t, 5.0, row.Median)
	assert.Equal(t, 9.0, row.P90)
	assert.Greater(t, row.StdDev, 0.0)
	assert.Equal(t, 10.0, distances[0])
}

func TestSummarizeDistances_Empty(t *testing.T) {
	row := summarizeDistances(1, nil)

	assert.Equal(t, SweepRow{Exponent: 1}, row)
}

func TestRunSweep_DistanceFallsWithExponent(t *testing.T) {
	// GIVEN points and plenty of locations spread over a square
	locs, pts := scatter(11, 200)
	in := &sweepInputs{Mode: gravity.ModeNameAssignment, Locations: locs, Points: pts}
	base := gravity.DefaultConfig(50, 99)
	base.Origin = gravity.Origin{}
	base.CellSize = 0.05

	// WHEN swept over a flat and a steep kernel
	rows, err := runSweep(in, base, []float64{0, 4}, 3)

	// THEN every row has edges and the steep kernel's mean is shorter
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 600, rows[0].Edges)
	assert.Equal(t, 600, rows[1].Edges)
	assert.Less(t, rows[1].Mean, rows[0].Mean)
}

func TestRunSweep_RejectsNonPositiveTrials(t *testing.T) {
	locs, _ := scatter(1, 6)
	in := &sweepInputs{Mode: gravity.ModeNameNetwork, Locations: locs}

	_, err := runSweep(in, gravity.DefaultConfig(3, 1), []float64{2}, 0)

	assert.Error(t, err)
}

func TestPrintSweep_OneLinePerExponent(t *testing.T) {
	var buf bytes.Buffer

	printSweep(&buf, []SweepRow{{Exponent: 0, Edges: 3, Mean: 1}, {Exponent: 2, Edges: 3, Mean: 0.5}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "exponent"))
	assert.True(t, strings.HasPrefix(lines[2], "2 "))
}
