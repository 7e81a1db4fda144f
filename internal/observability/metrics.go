package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts key-value store calls by backend and operation.
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_store_operations_total",
		Help: "Total number of key-value store operations",
	}, []string{"backend", "operation"})

	// StoreErrors counts failed key-value store calls.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_store_errors_total",
		Help: "Total number of key-value store errors",
	}, []string{"backend", "operation"})

	// StoreLatency records key-value store latency.
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "joker_store_latency_seconds",
		Help:    "Key-value store latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	// CorruptCollections counts collections that failed to decode and were read as empty.
	CorruptCollections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_store_corrupt_collections_total",
		Help: "Stored collections that could not be decoded and were treated as empty",
	}, []string{"collection"})

	// PostViews counts recorded post detail views.
	PostViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joker_post_views_total",
		Help: "Total number of recorded post detail views",
	})

	// AuthEvents counts session events by type and outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_auth_events_total",
		Help: "Login, registration, logout and guest provisioning events",
	}, []string{"event", "outcome"})
)

// TrackStore returns a function that records store latency when called (e.g. defer).
func TrackStore(backend, operation string) func() {
	start := time.Now()
	StoreOperations.WithLabelValues(backend, operation).Inc()
	return func() {
		StoreLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	}
}
