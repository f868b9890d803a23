package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// Poll Metrics
	PollCyclesTotal    *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	PayloadBytes       prometheus.Gauge
	ParseFailuresTotal prometheus.Counter
	LayoutOverflows    prometheus.Counter

	// Topology Metrics
	TopologiesTotal prometheus.Gauge
	NodesTotal      prometheus.Gauge
	LinksTotal      prometheus.Gauge
	NodesPruned     prometheus.Counter

	// Interaction Metrics
	DragGesturesTotal *prometheus.CounterVec
	FramesPublished   prometheus.Counter

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	StreamClients       *prometheus.GaugeVec

	// Source Metrics
	SourceRequestsTotal *prometheus.CounterVec
	SourceReloadsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPollMetrics()
	r.initTopologyMetrics()
	r.initInteractionMetrics()
	r.initHTTPMetrics()
	r.initSourceMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
