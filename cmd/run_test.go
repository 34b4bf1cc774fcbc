package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthnet/gravnet/gravity"
	"github.com/synthnet/gravnet/gravity/table"
	"github.com/synthnet/gravnet/gravity/trace"
)

const testLocations = `id,x,y,capacity,compliance
1,-87.45,24.8,2,0.9
2,-87.0,24.9,2,0.6
3,-87.4,25.1,2,1.0
4,-87.5,25.0,2,0.8
5,-87.1,24.85,2,0.7
6,-87.1,25.05,2,1.0
`

const testPoints = `id,x,y
1,-87.45,24.85
2,-87.0,25.05
`

func testSpec(t *testing.T) *RunSpec {
	t.Helper()
	dir := t.TempDir()
	spec := &RunSpec{
		Seed:          4326,
		NumCandidates: 3,
		Locations:     writeFile(t, dir, "locations.csv", testLocations),
		Points:        writeFile(t, dir, "points.csv", testPoints),
	}
	spec.applyDefaults()
	return spec
}

func TestExecuteRun_Network_DeterministicPerSeed(t *testing.T) {
	// GIVEN the same spec run twice
	spec := testSpec(t)

	// WHEN both runs execute
	a, err := executeRun(spec, gravity.ModeNameNetwork)
	require.NoError(t, err)
	b, err := executeRun(spec, gravity.ModeNameNetwork)
	require.NoError(t, err)

	// THEN the edge lists match and run ids differ
	assert.Equal(t, a.Result.Edges, b.Result.Edges)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, gravity.ModeNameNetwork, a.Result.Mode)
	assert.LessOrEqual(t, 2*len(a.Result.Edges), 12)
}

func TestExecuteRun_Assignment_EveryPointGetsNumChoose(t *testing.T) {
	// GIVEN two points choosing two locations each, capacity ignored
	spec := testSpec(t)
	spec.NumChoose = 2

	// WHEN the assignment runs
	run, err := executeRun(spec, gravity.ModeNameAssignment)

	// THEN four distinct-per-point assignments are emitted
	require.NoError(t, err)
	require.Len(t, run.Result.Edges, 4)
	perPoint := map[int]map[int]bool{}
	for _, e := range run.Result.Edges {
		if perPoint[e.Source] == nil {
			perPoint[e.Source] = map[int]bool{}
		}
		perPoint[e.Source][e.Dest] = true
	}
	assert.Len(t, perPoint[1], 2)
	assert.Len(t, perPoint[2], 2)
}

func TestExecuteRun_MissingLocationsFile(t *testing.T) {
	spec := testSpec(t)
	spec.Locations = filepath.Join(t.TempDir(), "missing.csv")

	_, err := executeRun(spec, gravity.ModeNameNetwork)

	assert.Error(t, err)
}

func TestExecuteRun_UnknownMode(t *testing.T) {
	spec := testSpec(t)

	_, err := executeRun(spec, gravity.Mode("matching"))

	assert.ErrorContains(t, err, "unknown mode")
}

func TestWriteOutputs_StdoutWhenNoPaths(t *testing.T) {
	// GIVEN a completed run and no output paths
	run, err := executeRun(testSpec(t), gravity.ModeNameNetwork)
	require.NoError(t, err)
	var stdout, stderr bytes.Buffer

	// WHEN outputs are written
	require.NoError(t, writeOutputs(outputOptions{Stdout: &stdout, Stderr: &stderr}, run))

	// THEN stdout holds the edge list and no trace summary is printed
	edges, err := table.ReadEdges(&stdout)
	require.NoError(t, err)
	assert.Equal(t, run.Result.Edges, edges)
	assert.Empty(t, stderr.String())
}

func TestWriteOutputs_HeaderAndEdgesRoundTrip(t *testing.T) {
	// GIVEN a completed run with header, edge and metrics paths
	run, err := executeRun(testSpec(t), gravity.ModeNameNetwork)
	require.NoError(t, err)
	dir := t.TempDir()
	opts := outputOptions{
		Out:     filepath.Join(dir, "edges.csv"),
		Header:  filepath.Join(dir, "run.yaml"),
		Metrics: filepath.Join(dir, "run.prom"),
		Stderr:  &bytes.Buffer{},
	}

	// WHEN outputs are written
	require.NoError(t, writeOutputs(opts, run))

	// THEN the exported run loads back with the same edges and fingerprint
	loaded, err := table.LoadRun(opts.Header, opts.Out)
	require.NoError(t, err)
	assert.Equal(t, run.Result.Edges, loaded.Edges)
	assert.Equal(t, run.ID, loaded.Header.RunID)
	assert.Equal(t, table.FormatFingerprint(table.Fingerprint(run.Result.Edges)), loaded.Header.Fingerprint)
	assert.Equal(t, int64(4326), loaded.Header.Seed)

	// THEN the metrics textfile holds the edge counter
	data, err := os.ReadFile(opts.Metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gravnet_edges_total")
}

func TestWriteOutputs_EdgeFileWithoutHeader(t *testing.T) {
	run, err := executeRun(testSpec(t), gravity.ModeNameNetwork)
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "edges.csv")

	require.NoError(t, writeOutputs(outputOptions{Out: out, Stderr: &bytes.Buffer{}}, run))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "source,dest\n"))
}

func TestWriteOutputs_TraceSummaryPrinted(t *testing.T) {
	// GIVEN a run with decision tracing
	spec := testSpec(t)
	spec.Trace = string(trace.TraceLevelDecisions)
	run, err := executeRun(spec, gravity.ModeNameNetwork)
	require.NoError(t, err)
	require.NotNil(t, run.Result.Trace)
	var stderr bytes.Buffer

	// WHEN outputs are written
	require.NoError(t, writeOutputs(outputOptions{Stdout: &bytes.Buffer{}, Stderr: &stderr}, run))

	// THEN the summary lists every processed location
	assert.Contains(t, stderr.String(), "=== Decision Trace Summary ===")
	assert.Contains(t, stderr.String(), "Total decisions:     6")
}
