// Package pipeline metrics: registers the Prometheus metrics owned by the
// orchestrator.
package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for a Pipeline.
// A nil *Metrics disables instrumentation; the observer method nil-checks
// so callers never need to.
type Metrics struct {
	// operationsTotal counts pipeline operations, partitioned by operation
	// name. Fail-soft reads always count as one operation regardless of
	// internal degradation; only AddDocuments distinguishes outcomes.
	operationsTotal *prometheus.CounterVec

	// operationSeconds records the end-to-end latency of each operation,
	// including retrieval and generation.
	operationSeconds *prometheus.HistogramVec
}

// NewMetrics registers the pipeline metrics against reg and returns them.
// promauto.With(reg) registers into the provided registry rather than the
// global default, which keeps unit tests hermetic.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voyago",
			Subsystem: "pipeline",
			Name:      "operations_total",
			Help:      "Total number of pipeline operations, partitioned by operation.",
		}, []string{"operation"}),

		operationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voyago",
			Subsystem: "pipeline",
			Name:      "operation_duration_seconds",
			Help:      "End-to-end latency of pipeline operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// observe records one completed operation and its duration.
func (m *Metrics) observe(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation).Inc()
	m.operationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
