package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topowatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topowatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.StreamClients = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "topowatch_stream_clients",
			Help: "Currently connected streaming clients",
		},
		[]string{"kind"}, // sse, websocket
	)
}

func (r *Registry) initSourceMetrics() {
	r.SourceRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topowatch_source_requests_total",
			Help: "Total number of data endpoint requests served",
		},
		[]string{"format", "status"},
	)

	r.SourceReloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topowatch_source_reloads_total",
			Help: "Total number of fixture reloads",
		},
		[]string{"result"}, // success, error
	)
}
