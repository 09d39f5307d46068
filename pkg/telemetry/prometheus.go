package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/slipstream/pkg/virtual"
)

var _ virtual.Sink = (*EngineMetrics)(nil)

// EngineMetrics exports virtualization engine instrumentation as
// Prometheus collectors. It implements virtual.Sink. Each instance
// carries its own registry so several engines (or tests) can coexist.
type EngineMetrics struct {
	registry *prometheus.Registry

	rebuilds        prometheus.Counter
	rebuildDuration prometheus.Histogram
	items           prometheus.Gauge
	visibleItems    prometheus.Gauge
	rangeQueries    prometheus.Counter
}

// NewEngineMetrics creates the collector set.
func NewEngineMetrics() *EngineMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &EngineMetrics{
		registry: reg,
		rebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "slipstream",
			Name:      "index_rebuilds_total",
			Help:      "Cumulative-height index rebuilds.",
		}),
		rebuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slipstream",
			Name:      "index_rebuild_seconds",
			Help:      "Time spent rebuilding the cumulative-height index.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		items: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "slipstream",
			Name:      "timeline_items_total",
			Help:      "Items currently held by the timeline.",
		}),
		visibleItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "slipstream",
			Name:      "visible_items_total",
			Help:      "Items realized by the most recent visible-range resolution.",
		}),
		rangeQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "slipstream",
			Name:      "range_queries_total",
			Help:      "Visible-range resolutions performed.",
		}),
	}
}

// RecordRebuild implements virtual.Sink.
func (m *EngineMetrics) RecordRebuild(items int, elapsed time.Duration) {
	m.rebuilds.Inc()
	m.rebuildDuration.Observe(elapsed.Seconds())
	m.items.Set(float64(items))
}

// RecordRange implements virtual.Sink.
func (m *EngineMetrics) RecordRange(start, end int) {
	m.rangeQueries.Inc()
	if end >= start {
		m.visibleItems.Set(float64(end - start))
	}
}

// Registry returns the backing registry, for composing with other
// collector sets.
func (m *EngineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
