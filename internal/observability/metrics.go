package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvitationSubmissions counts submit attempts by outcome
	// (created, already_connected, duplicate_pending, pending_from_other,
	// retry_blocked_scoped, retry_blocked_global, error).
	InvitationSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandmate_invitation_submissions_total",
		Help: "Total invitation submit attempts by outcome",
	}, []string{"outcome"})

	// InvitationResolutions counts accept/decline transitions.
	InvitationResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandmate_invitation_resolutions_total",
		Help: "Total invitation resolutions by terminal status",
	}, []string{"status"})

	// CounterFollowupFailures counts best-effort counter increments that
	// failed and were left for out-of-band reconciliation.
	CounterFollowupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandmate_counter_followup_failures_total",
		Help: "Total best-effort counter follow-ups that failed",
	}, []string{"counter"})

	// VisibilityChecks counts disclosure-gate evaluations by gate and verdict.
	VisibilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandmate_visibility_checks_total",
		Help: "Total visibility gate evaluations",
	}, []string{"gate", "allowed"})

	// OpportunityCapRejections counts listing creations refused by the
	// active-opportunity cap.
	OpportunityCapRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bandmate_opportunity_cap_rejections_total",
		Help: "Total opportunity creations rejected by the active cap",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandmate_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement verb.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bandmate_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
