package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the invoice domain collectors. A nil *Metrics records nothing.
type Metrics struct {
	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Invoice workflow metrics
	InvoiceOperationsCounter    *prometheus.CounterVec
	InvoiceCompensationsCounter *prometheus.CounterVec
	ItemsPerInvoice             prometheus.Histogram

	// Catalog metrics
	ProductsAutoCreatedCounter prometheus.Counter
	CatalogOperationsCounter   *prometheus.CounterVec
}

// NewMetrics initializes Prometheus metrics with the given prefix on reg
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		InvoiceOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_invoice_operations_total",
				Help: "Total number of invoice operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		InvoiceCompensationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_invoice_compensations_total",
				Help: "Total number of compensating invoice deletes",
			},
			[]string{"outcome"},
		),
		ItemsPerInvoice: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_invoice_items_per_invoice",
				Help:    "Number of line items on created invoices",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		ProductsAutoCreatedCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_products_autocreated_total",
				Help: "Total number of products created while recording invoices",
			},
		),
		CatalogOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_operations_total",
				Help: "Total number of supplier and product operations",
			},
			[]string{"entity", "operation"},
		),
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func (m *Metrics) TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordInvoiceOperation increments the counter for invoice operations
func (m *Metrics) RecordInvoiceOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.InvoiceOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordCompensation counts a compensating delete and whether it succeeded
func (m *Metrics) RecordCompensation(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.InvoiceCompensationsCounter.WithLabelValues(outcome).Inc()
}

// ObserveInvoiceItems records the item count of a created invoice
func (m *Metrics) ObserveInvoiceItems(n int) {
	if m == nil {
		return
	}
	m.ItemsPerInvoice.Observe(float64(n))
}

// RecordProductAutoCreated counts products inserted by the invoice workflow
func (m *Metrics) RecordProductAutoCreated() {
	if m == nil {
		return
	}
	m.ProductsAutoCreatedCounter.Inc()
}

// RecordCatalogOperation increments the counter for supplier and product operations
func (m *Metrics) RecordCatalogOperation(entity, operation string) {
	if m == nil {
		return
	}
	m.CatalogOperationsCounter.WithLabelValues(entity, operation).Inc()
}
