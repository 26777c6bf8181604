package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Domain metrics
	ListingOperationsCounter *prometheus.CounterVec
	InquiriesCreatedCounter  prometheus.Counter
	FavoriteConflictsCounter prometheus.Counter
	TasksProcessedCounter    *prometheus.CounterVec
}

// New registers the collectors on reg under the given name prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		AuthAttemptsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		ListingOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_listing_operations_total",
				Help: "Total number of listing write operations",
			},
			[]string{"operation"},
		),
		InquiriesCreatedCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_inquiries_created_total",
				Help: "Total number of inquiries submitted",
			},
		),
		FavoriteConflictsCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_favorite_conflicts_total",
				Help: "Total number of rejected duplicate favorites",
			},
		),
		TasksProcessedCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_tasks_processed_total",
				Help: "Total number of background tasks processed by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
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

// RecordAuthAttempt counts a login attempt; outcome is "success" or "failure".
func (m *Metrics) RecordAuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttemptsCounter.WithLabelValues(outcome).Inc()
}

// RecordListingOperation increments the counter for listing operations
func (m *Metrics) RecordListingOperation(operation string) {
	if m == nil {
		return
	}
	m.ListingOperationsCounter.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordInquiryCreated() {
	if m == nil {
		return
	}
	m.InquiriesCreatedCounter.Inc()
}

func (m *Metrics) RecordFavoriteConflict() {
	if m == nil {
		return
	}
	m.FavoriteConflictsCounter.Inc()
}

// RecordTask counts a processed background task; outcome is "ok", "retry" or "skip".
func (m *Metrics) RecordTask(taskType, outcome string) {
	if m == nil {
		return
	}
	m.TasksProcessedCounter.WithLabelValues(taskType, outcome).Inc()
}
