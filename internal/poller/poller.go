// Package poller decides when a fetched snapshot needs to be parsed and
// committed to the topology store.
//
// A poll cycle is split into Begin, Fetch and Complete so the blocking fetch can
// run off the dashboard loop while all state changes stay on it. Begin refuses
// to start a second cycle while one is in flight.
package poller

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"topowatch/internal/adapter"
	"topowatch/internal/codec"
	"topowatch/internal/domain"
	"topowatch/internal/metrics"
	"topowatch/internal/store"
)

// Defaults for Options
const (
	DefaultReheat    = 0.5
	DefaultSizeRetry = 100 * time.Millisecond
)

// Outcome is what one poll tick amounted to
type Outcome string

const (
	Applied    Outcome = metrics.PollApplied
	Unchanged  Outcome = metrics.PollUnchanged
	FetchError Outcome = metrics.PollFetchError
	ParseError Outcome = metrics.PollParseError
	Skipped    Outcome = metrics.PollSkipped
)

// Target is the part of the topology store the poller drives
type Target interface {
	Apply(snap *domain.Snapshot) store.ApplyResult
	Focus(name string) error
	Reheat(alpha float64)
	Size() (float64, float64)
	Counts() (topologies, nodes, links int)
}

// Options configures a Poller
type Options struct {
	Format    codec.Format
	Reheat    float64
	SizeRetry time.Duration
	// Selective compares the requested topology selection as well as the payload
	Selective bool
}

// Result carries a finished fetch back to the loop
type Result struct {
	Payload  []byte
	Err      error
	Duration time.Duration
}

// Poller holds the change-detection baseline
type Poller struct {
	fetcher adapter.Fetcher
	target  Target
	opts    Options
	metrics *metrics.Registry

	lastPayload []byte
	havePayload bool
	lastWidth   float64
	lastHeight  float64

	current   string
	requested string
	// unknown is set when the requested name was not in the store; the
	// request stays pending until a new payload arrives
	unknown bool

	inFlight bool
}

// New creates a poller
func New(fetcher adapter.Fetcher, target Target, opts Options, m *metrics.Registry) *Poller {
	if opts.Format == "" {
		opts.Format = codec.FormatAuto
	}
	if opts.Reheat <= 0 {
		opts.Reheat = DefaultReheat
	}
	if opts.SizeRetry <= 0 {
		opts.SizeRetry = DefaultSizeRetry
	}
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	return &Poller{
		fetcher: fetcher,
		target:  target,
		opts:    opts,
		metrics: m,
	}
}

// Ready reports whether the surface has a measured non-zero size. No fetch is
// made before that.
func (p *Poller) Ready() bool {
	w, h := p.target.Size()
	return w > 0 && h > 0
}

// RetryDelay is how long to wait before checking the size again
func (p *Poller) RetryDelay() time.Duration {
	return p.opts.SizeRetry
}

// Select sets the requested topology selection
func (p *Poller) Select(name string) {
	p.requested = name
	p.unknown = false
}

// Selection returns the current and the requested selection
func (p *Poller) Selection() (current, requested string) {
	return p.current, p.requested
}

// Begin claims the in-flight slot. It returns false when a fetch is still
// outstanding.
func (p *Poller) Begin() bool {
	if p.inFlight {
		p.metrics.RecordPoll(string(Skipped))
		return false
	}
	p.inFlight = true
	return true
}

// Fetch performs the blocking fetch. It touches no poller state and may run on
// any goroutine.
func (p *Poller) Fetch(ctx context.Context) Result {
	start := time.Now()
	payload, err := p.fetcher.Fetch(ctx)
	return Result{Payload: payload, Err: err, Duration: time.Since(start)}
}

// Complete releases the in-flight slot and runs a parse/commit cycle if the
// payload, the selection or the surface size changed. On any failure the
// baseline is left as it was so the next tick compares against the last good
// state.
func (p *Poller) Complete(res Result) (Outcome, error) {
	p.inFlight = false

	if res.Err != nil {
		log.Printf("Failed to fetch snapshot from %s: %v", p.fetcher.Name(), res.Err)
		p.metrics.RecordPoll(string(FetchError))
		return FetchError, res.Err
	}
	p.metrics.RecordFetch(res.Duration, len(res.Payload))

	width, height := p.target.Size()
	payloadChanged := !p.havePayload || !bytes.Equal(res.Payload, p.lastPayload)
	selectionChanged := p.opts.Selective && p.requested != p.current && !p.unknown
	sizeChanged := width != p.lastWidth || height != p.lastHeight

	if !payloadChanged && !selectionChanged && !sizeChanged {
		p.metrics.RecordPoll(string(Unchanged))
		return Unchanged, nil
	}

	if payloadChanged {
		snap, err := codec.Parse(res.Payload, p.opts.Format)
		if err != nil {
			log.Printf("Failed to parse snapshot: %v", err)
			p.metrics.RecordPoll(string(ParseError))
			return ParseError, err
		}
		p.commit(snap)
		p.lastPayload = append(p.lastPayload[:0], res.Payload...)
		p.havePayload = true
	}

	if p.opts.Selective && p.requested != p.current {
		if err := p.target.Focus(p.requested); err != nil {
			log.Printf("Failed to select topology: %v", err)
			p.unknown = true
		} else {
			p.current = p.requested
			p.unknown = false
		}
	}

	p.lastWidth, p.lastHeight = width, height
	p.target.Reheat(p.opts.Reheat)
	p.metrics.RecordPoll(string(Applied))
	return Applied, nil
}

func (p *Poller) commit(snap *domain.Snapshot) {
	if p.requested == "" && snap.Len() > 0 {
		p.requested = snap.Order[0]
	}

	result := p.target.Apply(snap)

	if result.Overflow != nil {
		log.Printf("Layout overflow, some topologies are hidden: %v", result.Overflow)
		if errors.Is(result.Overflow, domain.ErrLayoutOverflow) {
			p.metrics.LayoutOverflows.Inc()
		}
	}
	if result.Pruned > 0 {
		p.metrics.NodesPruned.Add(float64(result.Pruned))
	}
	for _, name := range result.Created {
		log.Printf("Tracking topology: %s", name)
	}

	topologies, nodes, links := p.target.Counts()
	p.metrics.UpdateTopologyMetrics(topologies, nodes, links)
	log.Printf("Snapshot applied: %d topologies, %d nodes, %d links", topologies, nodes, links)
}

// Poll runs Begin, Fetch and Complete in sequence
func (p *Poller) Poll(ctx context.Context) (Outcome, error) {
	if !p.Begin() {
		return Skipped, nil
	}
	return p.Complete(p.Fetch(ctx))
}
