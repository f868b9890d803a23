package metrics

import (
	"time"
)

// Poll cycle outcomes
const (
	PollApplied    = "applied"
	PollUnchanged  = "unchanged"
	PollFetchError = "fetch_error"
	PollParseError = "parse_error"
	PollSkipped    = "skipped"
)

// Drag gesture outcomes
const (
	DragCompleted = "completed"
	DragCancelled = "cancelled"
	DragMissed    = "missed"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordFetch records a completed fetch
func (r *Registry) RecordFetch(duration time.Duration, size int) {
	r.FetchDuration.Observe(duration.Seconds())
	r.PayloadBytes.Set(float64(size))
}

// RecordPoll records the outcome of one poll tick
func (r *Registry) RecordPoll(result string) {
	r.PollCyclesTotal.WithLabelValues(result).Inc()
	if result == PollParseError {
		r.ParseFailuresTotal.Inc()
	}
}

// UpdateTopologyMetrics sets the topology gauges
func (r *Registry) UpdateTopologyMetrics(topologies, nodes, links int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.TopologiesTotal.Set(float64(topologies))
	r.NodesTotal.Set(float64(nodes))
	r.LinksTotal.Set(float64(links))
}

// RecordDrag records the outcome of a drag gesture
func (r *Registry) RecordDrag(result string) {
	r.DragGesturesTotal.WithLabelValues(result).Inc()
}

// RecordSourceRequest records a data endpoint request
func (r *Registry) RecordSourceRequest(format, status string) {
	r.SourceRequestsTotal.WithLabelValues(format, status).Inc()
}

// RecordReload records a fixture reload
func (r *Registry) RecordReload(err error) {
	if err != nil {
		r.SourceReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	r.SourceReloadsTotal.WithLabelValues("success").Inc()
}
