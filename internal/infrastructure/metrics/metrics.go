package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCompleted *prometheus.CounterVec
	TransactionErrors     *prometheus.CounterVec
	ConflictRetries       *prometheus.CounterVec
	TransactionDuration   *prometheus.HistogramVec
	TransactionAmount     *prometheus.HistogramVec

	// Notification metrics
	NotificationFailures prometheus.Counter
	OutboxPublished      *prometheus.CounterVec
	OutboxErrors         prometheus.Counter

	// Database metrics
	DBConnections *prometheus.GaugeVec

	// Edge metrics
	AuthFailures  *prometheus.CounterVec
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates the metrics and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypagos_transactions_completed_total",
				Help: "Total number of completed transactions by kind",
			},
			[]string{"kind"},
		),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypagos_transaction_errors_total",
				Help: "Total number of rejected or failed transactions by error type",
			},
			[]string{"kind", "error_type"},
		),
		ConflictRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypagos_conflict_retries_total",
				Help: "Total number of atomic units rerun after a conflict",
			},
			[]string{"kind"},
		),
		TransactionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skypagos_transaction_duration_seconds",
				Help:    "Duration of transfer and payment operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skypagos_transaction_amount",
				Help:    "Transaction amounts in BOB",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"kind"},
		),

		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "skypagos_notification_failures_total",
			Help: "Total number of notifications that could not be queued",
		}),
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypagos_outbox_published_total",
				Help: "Total number of outbox events published by type",
			},
			[]string{"event_type"},
		),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "skypagos_outbox_errors_total",
			Help: "Total number of outbox events that failed to publish",
		}),

		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skypagos_db_connections",
				Help: "Database pool connections by state",
			},
			[]string{"state"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypagos_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "skypagos_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// TransactionCompleted records a committed transfer or payment.
func (m *Metrics) TransactionCompleted(kind domain.TransactionKind, amount decimal.Decimal, duration time.Duration) {
	m.TransactionsCompleted.WithLabelValues(string(kind)).Inc()
	m.TransactionDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	m.TransactionAmount.WithLabelValues(string(kind)).Observe(amount.InexactFloat64())
}

// TransactionFailed records a rejected or failed request.
func (m *Metrics) TransactionFailed(kind domain.TransactionKind, reason string) {
	m.TransactionErrors.WithLabelValues(string(kind), reason).Inc()
}

// ConflictRetried records one rerun of the atomic unit.
func (m *Metrics) ConflictRetried(kind domain.TransactionKind) {
	m.ConflictRetries.WithLabelValues(string(kind)).Inc()
}

// NotificationFailed records a notification that was dropped.
func (m *Metrics) NotificationFailed() {
	m.NotificationFailures.Inc()
}

// EventPublished records an outbox event handed to the publisher.
func (m *Metrics) EventPublished(eventType string) {
	m.OutboxPublished.WithLabelValues(eventType).Inc()
}

// EventFailed records an outbox event the publisher rejected.
func (m *Metrics) EventFailed() {
	m.OutboxErrors.Inc()
}

// AuthFailed records a rejected bearer token.
func (m *Metrics) AuthFailed(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// RateLimited records a request rejected by the rate limiter.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}

// ObservePool publishes connection pool counts.
func (m *Metrics) ObservePool(total, idle, acquired int32) {
	m.DBConnections.WithLabelValues("total").Set(float64(total))
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("acquired").Set(float64(acquired))
}
