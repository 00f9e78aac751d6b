// Package metrics provides Prometheus metrics for the event registration service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for store operations.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// DefaultHTTPBuckets matches the request duration buckets the service has
	// always exported, in seconds.
	DefaultHTTPBuckets = []float64{0.1, 0.5, 1, 2, 5}

	// DefaultStoreBuckets covers sub-millisecond embedded lookups up to slow
	// remote round trips, in seconds.
	DefaultStoreBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
)

// Manager owns a private registry and every instrument of the service.
// All methods are safe for concurrent use and are no-ops on a nil Manager.
type Manager struct {
	namespace         string
	httpBuckets       []float64
	storeBuckets      []float64
	constLabels       map[string]string
	runtimeCollectors bool
	registry          *prometheus.Registry

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Participants
	participantsTotal prometheus.Gauge

	// Store
	storeOperationDuration *prometheus.HistogramVec

	// Notifications
	notificationsEnqueued   prometheus.Counter
	notificationsDropped    prometheus.Counter
	notificationsDelivered  prometheus.Counter
	notificationsFailed     prometheus.Counter
	notificationQueueLength prometheus.Gauge
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		httpBuckets:       DefaultHTTPBuckets,
		storeBuckets:      DefaultStoreBuckets,
		constLabels:       map[string]string{},
		runtimeCollectors: true,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     m.httpBuckets,
			ConstLabels: labels,
		},
		[]string{"method", "route", "status_code"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		},
		[]string{"method", "route", "status_code"},
	)

	m.participantsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "participants_total",
		Help:        "Total number of registered participants",
		ConstLabels: labels,
	})

	m.storeOperationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Name:        "store_operation_duration_seconds",
			Help:        "Duration of participant store operations in seconds",
			Buckets:     m.storeBuckets,
			ConstLabels: labels,
		},
		[]string{"operation", "outcome"},
	)

	m.notificationsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "notifications_enqueued_total",
		Help:        "Total number of registration notices queued for delivery",
		ConstLabels: labels,
	})

	m.notificationsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "notifications_dropped_total",
		Help:        "Total number of registration notices dropped because the queue was full or closed",
		ConstLabels: labels,
	})

	m.notificationsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "notifications_delivered_total",
		Help:        "Total number of registration notices delivered",
		ConstLabels: labels,
	})

	m.notificationsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "notifications_failed_total",
		Help:        "Total number of registration notices the notifier rejected",
		ConstLabels: labels,
	})

	m.notificationQueueLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "notification_queue_length",
		Help:        "Current number of registration notices waiting for delivery",
		ConstLabels: labels,
	})
}

// ObserveHTTPRequest records one completed request.
func (m *Manager) ObserveHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	m.httpRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}

// SetParticipants sets the participant count gauge.
func (m *Manager) SetParticipants(count int64) {
	if m == nil {
		return
	}
	m.participantsTotal.Set(float64(count))
}

// ObserveStoreOperation records the latency of a store call.
func (m *Manager) ObserveStoreOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.storeOperationDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordNotificationEnqueued increments the enqueued notices counter.
func (m *Manager) RecordNotificationEnqueued() {
	if m == nil {
		return
	}
	m.notificationsEnqueued.Inc()
}

// RecordNotificationDropped increments the dropped notices counter.
func (m *Manager) RecordNotificationDropped() {
	if m == nil {
		return
	}
	m.notificationsDropped.Inc()
}

// RecordNotificationDelivered increments the delivered notices counter.
func (m *Manager) RecordNotificationDelivered() {
	if m == nil {
		return
	}
	m.notificationsDelivered.Inc()
}

// RecordNotificationFailed increments the failed notices counter.
func (m *Manager) RecordNotificationFailed() {
	if m == nil {
		return
	}
	m.notificationsFailed.Inc()
}

// SetNotificationQueueLength sets the queued notices gauge.
func (m *Manager) SetNotificationQueueLength(n int) {
	if m == nil {
		return
	}
	m.notificationQueueLength.Set(float64(n))
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
