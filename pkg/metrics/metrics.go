package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the dispatch pipeline
type Metrics struct {
	registry *prometheus.Registry

	ProviderAttempts   *prometheus.CounterVec
	ProviderDuration   *prometheus.HistogramVec
	SyntheticFallbacks *prometheus.CounterVec
	MessagesHandled    *prometheus.CounterVec
	MemoHits           prometheus.Counter
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ProviderAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_provider_attempts_total",
				Help: "Provider adapter attempts by capability, provider and result status",
			},
			[]string{"capability", "provider", "status"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trip_provider_duration_seconds",
				Help:    "Provider adapter call duration",
				Buckets: []float64{0.25, 1, 5, 15, 30, 60, 120, 180},
			},
			[]string{"capability", "provider"},
		),
		SyntheticFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_synthetic_fallbacks_total",
				Help: "Capability results served from synthetic data",
			},
			[]string{"capability", "kind"},
		),
		MessagesHandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_messages_handled_total",
				Help: "Inbound messages by routed capability",
			},
			[]string{"capability"},
		),
		MemoHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trip_provider_memo_hits_total",
				Help: "Provider results served from the in-process memo",
			},
		),
	}

	m.registry.MustRegister(
		m.ProviderAttempts,
		m.ProviderDuration,
		m.SyntheticFallbacks,
		m.MessagesHandled,
		m.MemoHits,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveAttempt(capability, provider, status string, elapsed time.Duration) {
	m.ProviderAttempts.WithLabelValues(capability, provider, status).Inc()
	m.ProviderDuration.WithLabelValues(capability, provider).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSynthetic(capability, kind string) {
	m.SyntheticFallbacks.WithLabelValues(capability, kind).Inc()
}

func (m *Metrics) ObserveMemoHit(_, _ string) {
	m.MemoHits.Inc()
}

func (m *Metrics) ObserveMessage(capability string) {
	m.MessagesHandled.WithLabelValues(capability).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
