// Package index metrics: registers the Prometheus metrics owned by the
// embedding index.
package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for an EmbeddingIndex.
// A nil *Metrics disables instrumentation; every observer method nil-checks
// so callers never need to.
type Metrics struct {
	// ingestTotal counts Add calls, partitioned by outcome ("ok", "error").
	ingestTotal *prometheus.CounterVec

	// documentsIngested counts successfully added documents.
	documentsIngested prometheus.Counter

	// searchTotal counts fail-soft Search calls, partitioned by outcome.
	searchTotal *prometheus.CounterVec
}

// NewMetrics registers the index metrics against reg and returns them.
// promauto.With(reg) registers into the provided registry rather than the
// global default, which keeps unit tests hermetic.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ingestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "index",
			Name:      "ingest_total",
			Help:      "Total number of document batch ingestions, partitioned by outcome.",
		}, []string{"outcome"}),

		documentsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "index",
			Name:      "documents_ingested_total",
			Help:      "Total number of documents successfully added to the index.",
		}),

		searchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "index",
			Name:      "search_total",
			Help:      "Total number of similarity searches, partitioned by outcome.",
		}, []string{"outcome"}),
	}
}

// observeIngest records one Add call and, on success, the documents added.
func (m *Metrics) observeIngest(outcome string, docs int) {
	if m == nil {
		return
	}
	m.ingestTotal.WithLabelValues(outcome).Inc()
	if docs > 0 {
		m.documentsIngested.Add(float64(docs))
	}
}

// observeSearch records one fail-soft Search call.
func (m *Metrics) observeSearch(outcome string) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(outcome).Inc()
}
