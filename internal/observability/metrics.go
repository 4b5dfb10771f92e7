// Package observability holds the Prometheus collectors and OpenTelemetry tracer of the service.
package observability

import (
	"errors"
	"strings"
	"time"

	"ruya/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SocialMutations counts graph and ledger mutations by operation and outcome.
	SocialMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruya_social_mutations_total",
		Help: "Total number of social mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	// NotificationsEmitted counts notification rows created by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruya_notifications_emitted_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// NotificationsSuppressed counts events dropped because actor and recipient matched.
	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruya_notifications_suppressed_total",
		Help: "Total number of self-notifications suppressed by type",
	}, []string{"type"})

	// CascadeDeletedRows counts rows removed by cascading deletes by table.
	CascadeDeletedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruya_cascade_deleted_rows_total",
		Help: "Total number of rows removed by cascading deletes",
	}, []string{"table"})

	// TransactionDuration records the latency of scoped transactions by outcome.
	TransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ruya_transaction_duration_seconds",
		Help:    "Duration of scoped database transactions in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ruya_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// Outcome labels err for metrics: "ok", the lowercased AppError code, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}

// RecordMutation counts one mutation attempt.
func RecordMutation(operation string, err error) {
	SocialMutations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveTransaction records the duration of a transaction that started at start.
func ObserveTransaction(start time.Time, err error) {
	outcome := "commit"
	if err != nil {
		outcome = "rollback"
	}
	TransactionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
