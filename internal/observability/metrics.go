package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnector_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthEvents counts registrations and logins by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_events_total",
		Help: "Registration and login attempts by outcome",
	}, []string{"event", "outcome"})

	// GitHubRequests counts GitHub repository lookups by outcome.
	GitHubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_github_requests_total",
		Help: "GitHub repository lookups by outcome",
	}, []string{"outcome"})

	// GitHubLatency records GitHub API latency.
	GitHubLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "devconnector_github_request_latency_seconds",
		Help:    "GitHub API latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordAuthEvent increments the auth events counter.
func RecordAuthEvent(event, outcome string) {
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
