// Package metrics exports run metrics of gravity drivers in the Prometheus
// text format, for node-exporter textfile collection or ad-hoc inspection.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/stat"

	"github.com/synthnet/gravnet/gravity"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "gravnet"

// Collector records gravity results into a Prometheus registry.
type Collector struct {
	reg *prometheus.Registry

	entities  *prometheus.CounterVec
	edges     *prometheus.CounterVec
	evictions *prometheus.CounterVec
	fastPath  *prometheus.CounterVec
	distance  *prometheus.HistogramVec
	meanDist  *prometheus.GaugeVec
}

// New creates a Collector with its own registry. An empty namespace uses
// DefaultNamespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{reg: prometheus.NewRegistry()}

	c.entities = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_total",
		Help:      "Entities processed, by mode, outcome and skip reason.",
	}, []string{"mode", "outcome", "reason"})
	c.edges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_total",
		Help:      "Edges or assignments emitted, by mode.",
	}, []string{"mode"})
	c.evictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evictions_total",
		Help:      "Locations that left the candidate pool, by mode.",
	}, []string{"mode"})
	c.fastPath = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fast_path_total",
		Help:      "Entities served from the whole pool without a grid search, by mode.",
	}, []string{"mode"})
	c.distance = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "edge_distance",
		Help:      "Distance covered by each edge, in coordinate units.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 0.001 .. ~2
	}, []string{"mode"})
	c.meanDist = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "edge_distance_mean",
		Help:      "Mean distance of the edges of the last observed run.",
	}, []string{"mode"})

	c.reg.MustRegister(c.entities, c.edges, c.evictions, c.fastPath, c.distance, c.meanDist)
	return c
}

// Observe records one driver result.
func (c *Collector) Observe(res *gravity.Result) {
	if res == nil {
		return
	}
	mode := string(res.Mode)

	c.entities.WithLabelValues(mode, string(gravity.StateEmitted), "").Add(float64(res.Stats.Emitted))
	for reason, n := range res.Stats.Skipped {
		c.entities.WithLabelValues(mode, string(gravity.StateSkipped), string(reason)).Add(float64(n))
	}
	c.edges.WithLabelValues(mode).Add(float64(len(res.Edges)))
	c.evictions.WithLabelValues(mode).Add(float64(res.Stats.Evicted))
	c.fastPath.WithLabelValues(mode).Add(float64(res.Stats.FastPath))

	hist := c.distance.WithLabelValues(mode)
	for _, d := range res.Distances {
		hist.Observe(d)
	}
	if len(res.Distances) > 0 {
		c.meanDist.WithLabelValues(mode).Set(stat.Mean(res.Distances, nil))
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
