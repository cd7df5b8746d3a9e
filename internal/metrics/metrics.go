package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstr_collector_queries_total",
			Help: "Total relay queries issued, by outcome",
		},
		[]string{"outcome"},
	)

	EventsCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstr_collector_events_total",
			Help: "Total unique events returned by collection passes",
		},
	)

	DuplicatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstr_collector_duplicates_dropped_total",
			Help: "Total events dropped as duplicates during collection",
		},
	)

	FallbackQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstr_collector_fallback_queries_total",
			Help: "Total unbounded fallback queries issued",
		},
	)

	// Aggregation / refresh metrics
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runstr_refresh_duration_seconds",
			Help:    "Duration of full leaderboard refresh passes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"activity"},
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstr_refresh_total",
			Help: "Total leaderboard refresh passes, by activity and status",
		},
		[]string{"activity", "status"},
	)

	WorkoutsFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstr_workouts_flagged_total",
			Help: "Total workout records rejected by the fraud filter",
		},
	)
)

// Query outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeTimedOut  = "timed_out"
	OutcomeFailed    = "failed"
)
