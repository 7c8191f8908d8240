package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musegate_gateway_requests_total",
		Help: "Total number of HTTP requests to the gateway",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "musegate_gateway_request_duration_seconds",
		Help:    "Duration of gateway HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musegate_upstream_requests_total",
		Help: "Total number of requests to museum upstreams",
	}, []string{"source", "op", "status"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musegate_stale_responses_total",
		Help: "Listing responses discarded because a newer view superseded them",
	}, []string{"source"})

	BookmarkResolveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "musegate_bookmark_resolve_failures_total",
		Help: "Per-id detail lookups dropped during bookmark resolution",
	})
)
