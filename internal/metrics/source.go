package metrics

import "github.com/prometheus/client_golang/prometheus"

// Remote source Prometheus metrics.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallerysrc",
			Name:      "remote_requests_total",
			Help:      "Total number of requests to the gallery site",
		},
		[]string{"endpoint", "status"},
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gallerysrc",
			Name:      "remote_request_duration_seconds",
			Help:      "Gallery site request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	IndexVersionRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallerysrc",
			Name:      "index_version_refreshes_total",
			Help:      "Index version refreshes by index family",
		},
		[]string{"index"},
	)

	LookupCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallerysrc",
			Name:      "lookup_cache_total",
			Help:      "Term lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ScriptEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallerysrc",
			Name:      "script_evaluations_total",
			Help:      "Image URL script evaluations",
		},
		[]string{"status"},
	)
)
