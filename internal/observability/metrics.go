package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts like toggles by outcome ("liked" or "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolkit_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})

	// LikeInsertConflicts counts like inserts that lost a race against the unique constraint.
	LikeInsertConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolkit_like_insert_conflicts_total",
		Help: "Like inserts resolved as already liked by the uniqueness constraint",
	})

	// CommentsCreated counts persisted comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolkit_comments_created_total",
		Help: "Total number of comments created",
	})

	// CommentsDeleted counts deleted comments by actor kind ("author" or "admin").
	CommentsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolkit_comments_deleted_total",
		Help: "Total number of comments deleted",
	}, []string{"actor"})

	// SubmissionsCreated counts community submissions.
	SubmissionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolkit_submissions_created_total",
		Help: "Total number of submissions created",
	})

	// SubmissionReviews counts review transitions by action and whether a resource was derived.
	SubmissionReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolkit_submission_reviews_total",
		Help: "Total number of submission reviews",
	}, []string{"action", "materialized"})

	// CacheLookups counts cache-aside lookups by key family and result ("hit" or "miss").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolkit_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toolkit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
