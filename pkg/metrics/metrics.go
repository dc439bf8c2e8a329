// Package metrics exposes Prometheus instrumentation for decoding, encoding
// and the HTTP service. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus collectors of the toolkit
type Metrics struct {
	// Record metrics
	recordsDecoded *prometheus.CounterVec
	recordsSkipped *prometheus.CounterVec
	recordsEncoded *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec

	// Index metrics
	indexOperations *prometheus.CounterVec
	indexedFiles    prometheus.Gauge

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps instances independent.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		recordsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_records_decoded_total",
				Help: "Total number of records decoded, by record type",
			},
			[]string{"record"},
		),

		recordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_records_skipped_total",
				Help: "Total number of records skipped while reading",
			},
			[]string{"reason"},
		),

		recordsEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_records_encoded_total",
				Help: "Total number of records encoded, by record type",
			},
			[]string{"record"},
		),

		decodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stdf_decode_duration_seconds",
				Help:    "Record body decode duration in seconds",
				Buckets: []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3},
			},
			[]string{"record"},
		),

		indexOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_index_operations_total",
				Help: "Total number of index operations",
			},
			[]string{"operation", "status"},
		),

		indexedFiles: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stdf_indexed_files",
				Help: "Number of files in the record index",
			},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stdf_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stdf_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stdf_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// ObserveDecoded records one decoded record and its body decode time.
func (m *Metrics) ObserveDecoded(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.recordsDecoded.WithLabelValues(name).Inc()
	m.decodeDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveSkipped records a record the reader stepped over.
func (m *Metrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.recordsSkipped.WithLabelValues(reason).Inc()
}

// ObserveEncoded records one encoded record.
func (m *Metrics) ObserveEncoded(name string) {
	if m == nil {
		return
	}
	m.recordsEncoded.WithLabelValues(name).Inc()
}

// RecordIndexOperation records an index operation
func (m *Metrics) RecordIndexOperation(operation string, success bool) {
	if m == nil {
		return
	}
	m.indexOperations.WithLabelValues(operation, status(success)).Inc()
}

// SetIndexedFiles updates the indexed file gauge
func (m *Metrics) SetIndexedFiles(n int) {
	if m == nil {
		return
	}
	m.indexedFiles.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	m.authRequestsTotal.WithLabelValues(status(success)).Inc()
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
