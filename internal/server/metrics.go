// Package server metrics: registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// httpRequestsTotal counts all HTTP requests handled by the mux,
	// partitioned by method, path pattern, and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec

	// ingestTotal counts document ingestion requests, partitioned by outcome.
	ingestTotal *prometheus.CounterVec

	// documentsIngested counts documents added through the API.
	documentsIngested prometheus.Counter
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global
// default, which keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, handler, and status code.",
		}, []string{"method", "handler", "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voyago",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "handler"}),

		ingestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "api",
			Name:      "ingest_total",
			Help:      "Total number of document ingestion API requests, partitioned by outcome.",
		}, []string{"outcome"}),

		documentsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "api",
			Name:      "documents_ingested_total",
			Help:      "Total number of documents added through the API.",
		}),
	}
}

// observeIngest records one ingestion API call and, on success, the
// documents added.
func (m *serverMetrics) observeIngest(outcome string, docs int) {
	m.ingestTotal.WithLabelValues(outcome).Inc()
	if docs > 0 {
		m.documentsIngested.Add(float64(docs))
	}
}

// instrument wraps the mux to record request counts and latencies. The
// handler label uses the mux's matched pattern so cardinality stays bounded
// even with arbitrary destination names in the path.
func (m *serverMetrics) instrument(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		mux.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		_, handler := mux.Handler(r)
		if handler == "" {
			handler = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, handler, strconv.Itoa(rw.status)).Inc()
		m.httpDurationSeconds.WithLabelValues(r.Method, handler).Observe(elapsed.Seconds())
	})
}
