package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	RowsExtracted    prometheus.Counter
	RowsSkippedTotal *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total HTTP requests issued by the scraper.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "HTTP request latency for scraper requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	rowsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_rows_extracted_total",
			Help: "Total number of medal rows extracted from the table.",
		},
	)
	rowsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_rows_skipped_total",
			Help: "Total number of table rows skipped by reason.",
		},
		[]string{"reason"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, rowsExtracted, rowsSkipped, errorsTotal)

	return &Metrics{
		Registry:         registry,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
		RowsExtracted:    rowsExtracted,
		RowsSkippedTotal: rowsSkipped,
		ErrorsTotal:      errorsTotal,
	}
}

// IncRequest counts a request in the given phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a request latency sample.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddRows counts extracted medal rows.
func (m *Metrics) AddRows(n int) {
	if m == nil {
		return
	}
	m.RowsExtracted.Add(float64(n))
}

// IncSkipped counts a skipped table row by reason.
func (m *Metrics) IncSkipped(reason string) {
	if m == nil {
		return
	}
	m.RowsSkippedTotal.WithLabelValues(reason).Inc()
}

// IncError counts an error by classified type.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
