// Package metrics provides Prometheus metrics for the pitwall leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Submission metrics
	scoresSubmitted      prometheus.Counter
	submissionsRejected  prometheus.Counter
	scoresDeleted        prometheus.Counter
	milestonesClassified *prometheus.CounterVec

	// Notification metrics
	notificationsDelivered prometheus.Counter
	notificationFailures   prometheus.Counter
	notificationLatency    prometheus.Histogram
	notifyQueueSize        prometheus.Gauge
	notifyQueueCapacity    prometheus.Gauge
	notifyQueueDropped     prometheus.Counter
	notifyWorkerCount      prometheus.Gauge

	// Store metrics
	storeQueryLatency  prometheus.Histogram
	storeUpdateLatency prometheus.Histogram
	storeErrors        prometheus.Counter
	trackedScores      prometheus.Gauge

	// Directory metrics
	directoryFetchLatency prometheus.Histogram
	directoryErrors       prometheus.Counter
	directoryCacheHits    prometheus.Counter
	directoryCacheMisses  prometheus.Counter
	rosterSize            prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitwall",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_submitted_total",
		Help:      "Total number of lap times accepted and stored",
	})

	m.submissionsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_rejected_total",
		Help:      "Total number of submissions rejected by validation",
	})

	m.scoresDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_deleted_total",
		Help:      "Total number of scores removed by administrators",
	})

	m.milestonesClassified = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "milestones_total",
			Help:      "Total number of milestone classifications by kind",
		},
		[]string{"kind"},
	)

	m.notificationsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_delivered_total",
		Help:      "Total number of milestone notifications delivered to the webhook",
	})

	m.notificationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_failures_total",
		Help:      "Total number of notification deliveries that failed",
	})

	m.notificationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_latency_milliseconds",
		Help:      "Histogram of webhook delivery latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.notifyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_size",
		Help:      "Current number of milestones waiting for delivery",
	})

	m.notifyQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_capacity",
		Help:      "Maximum capacity of the milestone delivery queue",
	})

	m.notifyQueueDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_dropped_total",
		Help:      "Total number of milestones dropped because the queue was full",
	})

	m.notifyWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_worker_count",
		Help:      "Number of notification dispatch workers",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Score store read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_milliseconds",
		Help:      "Score store write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of score store failures",
	})

	m.trackedScores = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_scores",
		Help:      "Number of players with a recorded lap time",
	})

	m.directoryFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_fetch_latency_milliseconds",
		Help:      "Player directory fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.directoryErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_errors_total",
		Help:      "Total number of player directory fetch failures",
	})

	m.directoryCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_cache_hits_total",
		Help:      "Total number of roster reads served from the cache",
	})

	m.directoryCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_cache_misses_total",
		Help:      "Total number of roster reads that went to the directory",
	})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Number of players in the last roster snapshot",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordScoreSubmitted increments the accepted submissions counter.
func RecordScoreSubmitted() {
	globalManager.scoresSubmitted.Inc()
}

// RecordSubmissionRejected increments the rejected submissions counter.
func RecordSubmissionRejected() {
	globalManager.submissionsRejected.Inc()
}

// RecordScoreDeleted increments the deleted scores counter.
func RecordScoreDeleted() {
	globalManager.scoresDeleted.Inc()
}

// RecordMilestone increments the milestone counter for a classification kind.
func RecordMilestone(kind string) {
	globalManager.milestonesClassified.WithLabelValues(kind).Inc()
}

// RecordNotificationDelivered increments the delivered notifications counter.
func RecordNotificationDelivered() {
	globalManager.notificationsDelivered.Inc()
}

// RecordNotificationFailure increments the failed notifications counter.
func RecordNotificationFailure() {
	globalManager.notificationFailures.Inc()
}

// RecordNotificationLatency records webhook delivery latency in milliseconds.
func RecordNotificationLatency(latencyMs float64) {
	globalManager.notificationLatency.Observe(latencyMs)
}

// UpdateNotifyQueueSize sets the current milestone queue size.
func UpdateNotifyQueueSize(size int) {
	globalManager.notifyQueueSize.Set(float64(size))
}

// UpdateNotifyQueueCapacity sets the milestone queue capacity.
func UpdateNotifyQueueCapacity(capacity int) {
	globalManager.notifyQueueCapacity.Set(float64(capacity))
}

// RecordNotifyQueueDropped increments the dropped milestones counter.
func RecordNotifyQueueDropped() {
	globalManager.notifyQueueDropped.Inc()
}

// UpdateNotifyWorkerCount sets the number of dispatch workers.
func UpdateNotifyWorkerCount(count int) {
	globalManager.notifyWorkerCount.Set(float64(count))
}

// RecordStoreQueryLatency records a store read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreUpdateLatency records a store write latency in milliseconds.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreError increments the store failure counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateTrackedScores sets the number of players with a recorded time.
func UpdateTrackedScores(count int) {
	globalManager.trackedScores.Set(float64(count))
}

// RecordDirectoryFetchLatency records a roster fetch latency in milliseconds.
func RecordDirectoryFetchLatency(latencyMs float64) {
	globalManager.directoryFetchLatency.Observe(latencyMs)
}

// RecordDirectoryError increments the directory failure counter.
func RecordDirectoryError() {
	globalManager.directoryErrors.Inc()
}

// RecordDirectoryCacheHit increments the roster cache hit counter.
func RecordDirectoryCacheHit() {
	globalManager.directoryCacheHits.Inc()
}

// RecordDirectoryCacheMiss increments the roster cache miss counter.
func RecordDirectoryCacheMiss() {
	globalManager.directoryCacheMisses.Inc()
}

// UpdateRosterSize sets the size of the last roster snapshot.
func UpdateRosterSize(count int) {
	globalManager.rosterSize.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
