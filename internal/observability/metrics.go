package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for stock operations.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics collects Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	stockOperations *prometheus.CounterVec
	importedRows    *prometheus.CounterVec
	persistDuration prometheus.Histogram
	persistedDocs   prometheus.Counter
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdesk_stock_operations_total",
		Help: "Stock operations by direction and outcome.",
	}, []string{"direction", "outcome"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdesk_imported_products_total",
		Help: "Products created by bulk import, by source.",
	}, []string{"source"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stockdesk_persist_duration_seconds",
		Help:    "Time spent writing changed state documents.",
		Buckets: prometheus.DefBuckets,
	})
	docs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockdesk_persisted_documents_total",
		Help: "State documents rewritten in the backend.",
	})
	registry.MustRegister(ops, rows, duration, docs)
	return &Metrics{
		registry:        registry,
		stockOperations: ops,
		importedRows:    rows,
		persistDuration: duration,
		persistedDocs:   docs,
	}
}

// ObserveStockOperation counts one ledger call.
func (m *Metrics) ObserveStockOperation(direction, outcome string) {
	if m == nil {
		return
	}
	m.stockOperations.WithLabelValues(direction, outcome).Inc()
}

// AddImportedProducts counts products created from source ("backup", "xlsx", "csv").
func (m *Metrics) AddImportedProducts(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importedRows.WithLabelValues(source).Add(float64(n))
}

// ObservePersist records one write of docs changed documents.
func (m *Metrics) ObservePersist(elapsed time.Duration, docs int) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(elapsed.Seconds())
	m.persistedDocs.Add(float64(docs))
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
