package prometheus

import (
	"lead-service/pkg/config"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Lead metrics
	LeadOperationsCounter prometheus.CounterVec

	// Contact recording outcomes (created, updated, rejected)
	ContactRecordedCounter prometheus.CounterVec

	// Page analytics metrics
	PageAccessCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Lead metrics
	LeadOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of lead operations",
		},
		[]string{"operation"},
	)

	// Contact recording outcomes
	ContactRecordedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_contacts_recorded_total",
			Help: "Total number of recorded contact attempts by outcome",
		},
		[]string{"result"},
	)

	// Page analytics metrics
	PageAccessCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_page_access_total",
			Help: "Total number of captured page accesses",
		},
		[]string{"device_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordLeadOperation increments the counter for lead operations
func RecordLeadOperation(operation string) {
	LeadOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordContactResult increments the counter for contact recording outcomes
func RecordContactResult(result string) {
	ContactRecordedCounter.WithLabelValues(result).Inc()
}

// RecordPageAccess increments the counter for captured page accesses
func RecordPageAccess(deviceType string) {
	PageAccessCounter.WithLabelValues(deviceType).Inc()
}
