// Package metrics defines the Prometheus collectors for the search service
// and CLI and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchMatchesCount   prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	DocsIndexedTotal     prometheus.Counter
	IndexDocuments       prometheus.Gauge
	IndexDuration        prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates all collectors and registers them with reg. A nil reg uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinysearch_queries_total",
				Help: "Total search queries by outcome (match, zero_result, invalid, error).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tinysearch_query_latency_seconds",
				Help:    "Time spent analyzing and scoring one query.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchMatchesCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tinysearch_query_matches",
				Help:    "Number of positive-score matches per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tinysearch_cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tinysearch_cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tinysearch_docs_indexed_total",
				Help: "Total documents analyzed into an index.",
			},
		),
		IndexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tinysearch_index_documents",
				Help: "Number of documents in the served index.",
			},
		),
		IndexDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tinysearch_index_duration_seconds",
				Help:    "Time spent building an index from raw documents.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchMatchesCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DocsIndexedTotal,
		m.IndexDocuments,
		m.IndexDuration,
	)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// ObserveQuery records one scored query.
func (m *Metrics) ObserveQuery(cacheStatus string, seconds float64, matches int) {
	outcome := "match"
	if matches == 0 {
		outcome = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	m.SearchLatency.WithLabelValues(cacheStatus).Observe(seconds)
	m.SearchMatchesCount.Observe(float64(matches))
}

// ObserveIndex records an index build.
func (m *Metrics) ObserveIndex(docs int, seconds float64) {
	m.DocsIndexedTotal.Add(float64(docs))
	m.IndexDocuments.Set(float64(docs))
	m.IndexDuration.Observe(seconds)
}

// Handler returns the scrape handler for the registry the metrics live in.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
