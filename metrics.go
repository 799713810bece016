package dwjdbc

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the query lifecycle and
// the streaming buffer. It is safe for concurrent use.
type MetricsCollector struct {
	queriesTotal    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	queriesInFlight prometheus.Gauge

	responseBytes prometheus.Counter
	spillsTotal   prometheus.Counter

	errorsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		queriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwjdbc_queries_total",
				Help: "Total number of query executions",
			},
			[]string{"status_code"},
		),
		queryDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dwjdbc_query_duration_seconds",
				Help:    "Duration of query executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status_code"},
		),
		queriesInFlight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "dwjdbc_queries_in_flight",
				Help: "Number of query executions currently in flight",
			},
		),
		responseBytes: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "dwjdbc_response_bytes_total",
				Help: "Total bytes drained from response bodies",
			},
		),
		spillsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "dwjdbc_spills_total",
				Help: "Number of response bodies that spilled to disk",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwjdbc_errors_total",
				Help: "Total number of failed query executions by error type",
			},
			[]string{"type"},
		),
		registry: registry,
	}
}

// RecordQueryStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordQueryStart() {
	mc.queriesInFlight.Inc()
}

// RecordQueryEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordQueryEnd() {
	mc.queriesInFlight.Dec()
}

// RecordQuery records one completed execution. A statusCode of 0 means the
// call failed before a status line was received.
func (mc *MetricsCollector) RecordQuery(statusCode int, duration time.Duration) {
	label := strconv.Itoa(statusCode)
	mc.queriesTotal.WithLabelValues(label).Inc()
	mc.queryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordResponseBytes records the bytes drained for one response and
// whether the buffer spilled to disk.
func (mc *MetricsCollector) RecordResponseBytes(n int64, spilled bool) {
	mc.responseBytes.Add(float64(n))
	if spilled {
		mc.spillsTotal.Inc()
	}
}

// RecordError counts a failed execution by error type.
func (mc *MetricsCollector) RecordError(errorType string) {
	mc.errorsTotal.WithLabelValues(errorType).Inc()
}
