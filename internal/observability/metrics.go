package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// ClaimsSubmitted counts claim requests accepted for review.
	ClaimsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stagedoor_claims_submitted_total",
		Help: "Total number of claim requests submitted",
	})

	// ClaimsResolved counts claim resolutions by decision.
	ClaimsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagedoor_claims_resolved_total",
		Help: "Total number of claim requests resolved by decision",
	}, []string{"decision"})

	// GrantDenials counts mutation attempts rejected by the permission layer.
	GrantDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagedoor_grant_denials_total",
		Help: "Total number of mutations denied by the permission layer",
	}, []string{"data_type", "operation"})

	// CopyOnWriteForks counts linked writes that forked a new resource.
	CopyOnWriteForks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagedoor_copy_on_write_forks_total",
		Help: "Total number of linked writes redirected to a forked copy",
	}, []string{"data_type"})

	// GrantFanoutFailures counts grant upserts that failed after an approval committed.
	GrantFanoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagedoor_grant_fanout_failures_total",
		Help: "Total number of post-approval grant upserts that failed",
	}, []string{"data_type"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stagedoor_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
