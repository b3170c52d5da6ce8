package observability

import (
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendErrors   *prometheus.CounterVec
	collectionLoads *prometheus.CounterVec
	collectionSize  *prometheus.GaugeVec
	notifications   *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feedtrack_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedtrack_backend_calls_total",
				Help: "Total calls to the FeedTrack backend.",
			},
			[]string{"resource"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedtrack_backend_errors_total",
				Help: "Total errors from the FeedTrack backend.",
			},
			[]string{"resource"},
		),
		collectionLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedtrack_collection_loads_total",
				Help: "Total full loads of cached collections.",
			},
			[]string{"collection", "status"},
		),
		collectionSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "feedtrack_collection_items",
				Help: "Number of items held by each cached collection.",
			},
			[]string{"collection"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedtrack_notifications_total",
				Help: "Total user-visible notifications emitted.",
			},
			[]string{"level"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedtrack_logins_total",
				Help: "Total login attempts by outcome.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendCall counts one backend call for resource.
func (m *Metrics) IncrBackendCall(resource string) {
	m.backendCalls.WithLabelValues(resource).Inc()
}

// IncrBackendError increments the backend error counter.
func (m *Metrics) IncrBackendError(resource string) {
	m.backendErrors.WithLabelValues(resource).Inc()
}

// IncrCollectionLoad counts a load with status success or error.
func (m *Metrics) IncrCollectionLoad(collection, status string) {
	m.collectionLoads.WithLabelValues(collection, status).Inc()
}

// SetCollectionSize records how many items a collection holds.
func (m *Metrics) SetCollectionSize(collection string, n int) {
	m.collectionSize.WithLabelValues(collection).Set(float64(n))
}

// IncrNotification counts an emitted notification.
func (m *Metrics) IncrNotification(level string) {
	m.notifications.WithLabelValues(level).Inc()
}

// IncrLogin counts a login attempt with status success or rejected.
func (m *Metrics) IncrLogin(status string) {
	m.logins.WithLabelValues(status).Inc()
}

// Snapshot returns cumulative counters for GET /v1/resources/status.
func (m *Metrics) Snapshot(resources []string) *domain.MetricsSnapshot {
	var calls, errs float64
	for _, r := range resources {
		calls += getCounterValue(m.backendCalls, r)
		errs += getCounterValue(m.backendErrors, r)
	}
	notifications := getCounterValue(m.notifications, string(domain.NotificationSuccess)) +
		getCounterValue(m.notifications, string(domain.NotificationError)) +
		getCounterValue(m.notifications, string(domain.NotificationInfo))

	return &domain.MetricsSnapshot{
		BackendCalls:   int64(calls),
		BackendErrors:  int64(errs),
		Notifications:  int64(notifications),
		LoginsSuccess:  int64(getCounterValue(m.logins, "success")),
		LoginsRejected: int64(getCounterValue(m.logins, "rejected")),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
