package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the render pipeline.
type Metrics struct {
	// Source fetch metrics, labelled by source={events,faults}.
	FetchDuration   *prometheus.HistogramVec
	FetchErrors     *prometheus.CounterVec
	FeaturesFetched *prometheus.CounterVec

	BindErrors     prometheus.Counter
	RenderDuration prometheus.Histogram
	RenderFailures prometheus.Counter

	MarkersRendered    prometheus.Gauge
	FaultLinesRendered prometheus.Gauge
	MapReady           prometheus.Gauge

	MarkersPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.FeaturesFetched,
		m.BindErrors,
		m.RenderDuration,
		m.RenderFailures,
		m.MarkersRendered,
		m.FaultLinesRendered,
		m.MapReady,
		m.MarkersPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a GeoJSON source fetch in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "fetch_errors_total",
			Help:      "Failed GeoJSON source fetches by source.",
		}, []string{"source"}),
		FeaturesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "features_fetched_total",
			Help:      "GeoJSON features decoded by source.",
		}, []string{"source"}),
		BindErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "bind_errors_total",
			Help:      "Render passes aborted by a malformed feature.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete fetch-bind-compose pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RenderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "render_failures_total",
			Help:      "Render passes that produced no map.",
		}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "markers_rendered",
			Help:      "Event markers in the current map.",
		}),
		FaultLinesRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "fault_lines_rendered",
			Help:      "Fault polylines in the current map.",
		}),
		MapReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "map_ready",
			Help:      "1 once a map has been composed, 0 otherwise.",
		}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "markers_published_total",
			Help:      "Event markers published to the Kafka topic.",
		}),
	}
}
