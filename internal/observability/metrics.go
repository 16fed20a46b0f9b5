package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// recommendation service.
type Metrics struct {
	ForecastFetches *prometheus.CounterVec // labels: outcome={success,degraded,stale}
	FetchDuration   prometheus.Histogram
	ForecastCache   *prometheus.CounterVec // labels: result={hit,miss}
	RainyMode       prometheus.Gauge       // 1 when rainy mode is active
	AutoEscalations prometheus.Counter
	SlotSelections  prometheus.Counter
	StreamClients   prometheus.Gauge
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "forecast_fetches_total",
			Help:      "Forecast fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainmap",
			Name:      "forecast_fetch_duration_seconds",
			Help:      "Duration of a complete resolve-fetch-commit cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "forecast_cache_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		RainyMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainmap",
			Name:      "rainy_mode",
			Help:      "1 when the rainy display mode is active, 0 otherwise.",
		}),
		AutoEscalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "filter_auto_escalations_total",
			Help:      "Times the shelter filter was forced to level 2 by high precipitation probability.",
		}),
		SlotSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "slot_selections_total",
			Help:      "Explicit forecast slot selections by collaborators.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainmap",
			Name:      "stream_clients",
			Help:      "Currently connected state-event stream clients.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "events_published_total",
			Help:      "State events published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainmap",
			Name:      "publish_errors_total",
			Help:      "Failed state event publishes.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastFetches,
		m.FetchDuration,
		m.ForecastCache,
		m.RainyMode,
		m.AutoEscalations,
		m.SlotSelections,
		m.StreamClients,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastFetches: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainmap", Name: "forecast_fetches_total"}, []string{"outcome"}),
		FetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainmap", Name: "forecast_fetch_duration_seconds"}),
		ForecastCache:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainmap", Name: "forecast_cache_total"}, []string{"result"}),
		RainyMode:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainmap", Name: "rainy_mode"}),
		AutoEscalations: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainmap", Name: "filter_auto_escalations_total"}),
		SlotSelections:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainmap", Name: "slot_selections_total"}),
		StreamClients:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainmap", Name: "stream_clients"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainmap", Name: "events_published_total"}),
		PublishErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainmap", Name: "publish_errors_total"}),
	}
}
