// Package metrics provides Prometheus metrics for the arena board service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// scoreBuckets spans typical slot scores from a bare start dash to a stacked ace.
var scoreBuckets = []float64{0, 1000, 2500, 5000, 10000, 20000, 40000, 80000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the board service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  atomic.Int64 // nanoseconds
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Board metrics
	slotSaves     prometheus.Counter
	slotDeletes   prometheus.Counter
	boardResets   prometheus.Counter
	snapshotLoads *prometheus.CounterVec
	snapshotBytes prometheus.Gauge
	slotScores    prometheus.Histogram
	filledSlots   prometheus.Gauge

	// Repository metrics
	repositoryRecords       *prometheus.GaugeVec
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Storage backend metrics
	storageLatency *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Live feed metrics
	feedClients    prometheus.Gauge
	feedBroadcasts prometheus.Counter
	feedDrops      prometheus.Counter

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// latencyBucketsMs covers the millisecond latencies recorded by this package.
var latencyBucketsMs = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // fixed bucket layout

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(
		WithPrometheusRegistry(customRegistry),
		WithHistogramBuckets(latencyBucketsMs),
	)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "board",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	m.refreshInterval.Store(int64(defaultRefreshInterval))

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether the package-level recorders write to m.
func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// RefreshInterval is how often polled gauges such as system metrics are refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return time.Duration(m.refreshInterval.Load())
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	// Board metrics
	m.slotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("slot_saves_total"),
		Help:        "Total number of slot saves",
		ConstLabels: constLabels,
	})

	m.slotDeletes = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("slot_deletes_total"),
		Help:        "Total number of slot deletions",
		ConstLabels: constLabels,
	})

	m.boardResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("resets_total"),
		Help:        "Total number of full board wipes",
		ConstLabels: constLabels,
	})

	m.snapshotLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("snapshot_loads_total"),
			Help:        "Snapshot loads by outcome (ok, empty, malformed, error)",
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)

	m.snapshotBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_bytes"),
		Help:        "Size of the last persisted snapshot in bytes",
		ConstLabels: constLabels,
	})

	m.slotScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("slot_score"),
		Help:        "Distribution of computed slot scores",
		Buckets:     scoreBuckets,
		ConstLabels: constLabels,
	})

	m.filledSlots = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filled_slots"),
		Help:        "Number of filled slots on the board",
		ConstLabels: constLabels,
	})

	// Repository metrics
	m.repositoryRecords = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("repository_records"),
			Help:        "Number of records held per store",
			ConstLabels: constLabels,
		},
		[]string{"store"},
	)

	m.repositoryUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_update_latency_milliseconds"),
		Help:        "Repository update latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_query_latency_milliseconds"),
		Help:        "Repository query latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	// Storage backend metrics
	m.storageLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("storage_latency_milliseconds"),
			Help:        "Storage backend operation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"backend", "op"},
	)

	m.storageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("storage_errors_total"),
			Help:        "Storage backend failures by backend and operation",
			ConstLabels: constLabels,
		},
		[]string{"backend", "op"},
	)

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Live feed metrics
	m.feedClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("feed_clients"),
		Help:        "Connected websocket feed clients",
		ConstLabels: constLabels,
	})

	m.feedBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("feed_broadcasts_total"),
		Help:        "Board updates pushed to feed clients",
		ConstLabels: constLabels,
	})

	m.feedDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("feed_drops_total"),
		Help:        "Board updates dropped for slow feed clients",
		ConstLabels: constLabels,
	})

	// Error metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Errors by component and type",
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Errors by type and severity",
			ConstLabels: constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Errors by endpoint, method and type",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of operations that ended in an error",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// Board Metrics Functions.

// RecordSlotSave increments the slot save counter.
func RecordSlotSave() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.slotSaves.Inc()
}

// RecordSlotDelete increments the slot delete counter.
func RecordSlotDelete() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.slotDeletes.Inc()
}

// RecordBoardReset increments the board wipe counter.
func RecordBoardReset() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.boardResets.Inc()
}

// RecordSnapshotLoad counts a snapshot load by outcome.
func RecordSnapshotLoad(outcome string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.snapshotLoads.WithLabelValues(outcome).Inc()
}

// UpdateSnapshotBytes sets the size of the last persisted snapshot.
func UpdateSnapshotBytes(n int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.snapshotBytes.Set(float64(n))
}

// RecordSlotScore observes a computed slot score.
func RecordSlotScore(score int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.slotScores.Observe(float64(score))
}

// UpdateFilledSlots sets the number of filled slots.
func UpdateFilledSlots(count int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.filledSlots.Set(float64(count))
}

// Repository Metrics Functions.

// UpdateRepositoryRecords sets the record count of a store.
func UpdateRepositoryRecords(store string, count int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.repositoryRecords.WithLabelValues(store).Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository update operation latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query operation latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// Storage Metrics Functions.

// RecordStorageOperation records a backend operation latency.
func RecordStorageOperation(backend, op string, latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.storageLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordStorageError increments the backend failure counter.
func RecordStorageError(backend, op string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.storageErrors.WithLabelValues(backend, op).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Feed Metrics Functions.

// UpdateFeedClients sets the number of connected feed clients.
func UpdateFeedClients(count int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.feedClients.Set(float64(count))
}

// RecordFeedBroadcast increments the feed broadcast counter.
func RecordFeedBroadcast() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.feedBroadcasts.Inc()
}

// RecordFeedDrop increments the dropped update counter.
func RecordFeedDrop() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.feedDrops.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled turns the package-level recorders on or off. Registered
// series keep their last values while disabled.
func SetEnabled(enabled bool) {
	WithMetricsEnabled(enabled)(globalManager)
}

// Enabled reports whether the package-level recorders are active.
func Enabled() bool {
	return globalManager.Enabled()
}

// SetRefreshInterval sets the polling interval reported by RefreshInterval.
// Non-positive values are ignored.
func SetRefreshInterval(interval time.Duration) {
	WithRefreshInterval(interval)(globalManager)
}

// RefreshInterval returns the polling interval for system metrics.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
