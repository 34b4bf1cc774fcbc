package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthnet/gravnet/gravity"
)

func sampleResult() *gravity.Result {
	return &gravity.Result{
		Mode:      gravity.ModeNameNetwork,
		Edges:     []gravity.Edge{{Source: 1, Dest: 2}, {Source: 1, Dest: 3}, {Source: 4, Dest: 2}},
		Distances: []float64{0.01, 0.02, 0.03},
		Stats: gravity.Stats{
			Processed: 4,
			Emitted:   2,
			Skipped:   map[gravity.SkipReason]int{gravity.SkipStarved: 1, gravity.SkipZeroCapacity: 1},
			FastPath:  1,
			Evicted:   3,
			Edges:     3,
		},
	}
}

func TestCollector_Observe_CountsOutcomes(t *testing.T) {
	// GIVEN a collector
	c := New("")

	// WHEN a result is observed twice
	c.Observe(sampleResult())
	c.Observe(sampleResult())

	// THEN counters accumulate per label set
	assert.Equal(t, 6.0, testutil.ToFloat64(c.edges.WithLabelValues("network")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.entities.WithLabelValues("network", "emitted", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.entities.WithLabelValues("network", "skipped", "starved")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.evictions.WithLabelValues("network")))
	assert.InDelta(t, 0.02, testutil.ToFloat64(c.meanDist.WithLabelValues("network")), 1e-12)
}

func TestCollector_Observe_Nil(t *testing.T) {
	c := New("test")

	c.Observe(nil)

	n, err := testutil.GatherAndCount(c.Registry())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New("")
	c.Observe(sampleResult())
	path := filepath.Join(t.TempDir(), "gravnet.prom")

	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `gravnet_edges_total{mode="network"} 3`), text)
	assert.Contains(t, text, "gravnet_edge_distance_bucket")
}
