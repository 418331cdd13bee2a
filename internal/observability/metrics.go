// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnect_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthEvents counts registrations, logins and token rejections by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_auth_events_total",
		Help: "Authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// PostInteractions counts likes, unlikes and comment changes.
	PostInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_post_interactions_total",
		Help: "Post interactions by type",
	}, []string{"interaction"})

	// StaleWrites counts optimistic-concurrency conflicts per document kind.
	StaleWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_stale_writes_total",
		Help: "Document updates rejected because the stored version moved",
	}, []string{"document"})

	// GithubRequests counts outbound GitHub lookups by result.
	GithubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_github_requests_total",
		Help: "GitHub repository lookups by result",
	}, []string{"result"})
)

// RecordAuthEvent increments the auth event counter.
func RecordAuthEvent(event, outcome string) {
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// RecordPostInteraction increments the post interaction counter.
func RecordPostInteraction(interaction string) {
	PostInteractions.WithLabelValues(interaction).Inc()
}

// RecordStaleWrite increments the stale write counter for a document kind.
func RecordStaleWrite(document string) {
	StaleWrites.WithLabelValues(document).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
