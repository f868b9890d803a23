package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPollMetrics() {
	r.PollCyclesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topowatch_poll_cycles_total",
			Help: "Total number of poll ticks by outcome",
		},
		[]string{"result"}, // applied, unchanged, fetch_error, parse_error, skipped
	)

	r.FetchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "topowatch_fetch_duration_seconds",
			Help:    "Duration of snapshot fetches in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	r.PayloadBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topowatch_payload_bytes",
			Help: "Size of the last fetched snapshot payload",
		},
	)

	r.ParseFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topowatch_parse_failures_total",
			Help: "Total number of snapshots rejected as malformed",
		},
	)

	r.LayoutOverflows = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topowatch_layout_overflows_total",
			Help: "Total number of layouts where topologies exceeded the grid",
		},
	)
}

func (r *Registry) initTopologyMetrics() {
	r.TopologiesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topowatch_topologies_total",
			Help: "Number of bound topologies",
		},
	)

	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topowatch_nodes_total",
			Help: "Number of live nodes across all topologies",
		},
	)

	r.LinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topowatch_links_total",
			Help: "Number of live links across all topologies",
		},
	)

	r.NodesPruned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topowatch_nodes_pruned_total",
			Help: "Total number of nodes removed because their id vanished",
		},
	)
}

func (r *Registry) initInteractionMetrics() {
	r.DragGesturesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topowatch_drag_gestures_total",
			Help: "Total number of drag gestures by outcome",
		},
		[]string{"result"}, // completed, cancelled, missed
	)

	r.FramesPublished = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topowatch_frames_published_total",
			Help: "Total number of frame sets published to renderers",
		},
	)
}
