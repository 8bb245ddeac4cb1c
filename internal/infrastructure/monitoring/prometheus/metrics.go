// Package prometheus exposes the engine's operational metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every instrument the engine records.  Each instance carries
// its own registry so tests never collide on global registration.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	batchSize         prometheus.Histogram
	assistantRequests *prometheus.CounterVec
	usageEvents       *prometheus.CounterVec
}

// NewMetrics registers all instruments on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portfolio_cache_hits_total",
			Help:      "Portfolio aggregate reads served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portfolio_cache_misses_total",
			Help:      "Portfolio aggregate reads that recomputed.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_batch_size",
			Help:      "Items per accepted scoring batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50},
		}),
		assistantRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_requests_total",
			Help:      "Assistant calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		usageEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_events_published_total",
			Help:      "Usage events published by type.",
		}, []string{"type"}),
	}

	registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.cacheHits, m.cacheMisses,
		m.batchSize, m.assistantRequests, m.usageEvents,
	)
	return m
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one completed HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit()  { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// ObserveBatch records the size of one accepted scoring batch.
func (m *Metrics) ObserveBatch(items int) {
	m.batchSize.Observe(float64(items))
}

// ObserveAssistant records one assistant call outcome.
func (m *Metrics) ObserveAssistant(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.assistantRequests.WithLabelValues(operation, outcome).Inc()
}

// ObserveUsageEvent records one published usage event.
func (m *Metrics) ObserveUsageEvent(eventType string) {
	m.usageEvents.WithLabelValues(eventType).Inc()
}
