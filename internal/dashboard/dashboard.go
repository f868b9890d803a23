// Package dashboard wires the topology store, the poller and the drag
// controller into one event loop.
//
// Dashboard.Run owns every piece of mutable state. Poll ticks, fetch results,
// physics ticks, pointer input and control requests (selection, resize) are
// all handled on that one goroutine, so none of the core packages need locks.
// The only work done elsewhere is the blocking fetch, whose result comes back
// through a channel. Renderers receive immutable FrameSets through the
// EventBus or Latest.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"topowatch/internal/domain"
	"topowatch/internal/drag"
	"topowatch/internal/metrics"
	"topowatch/internal/poller"
	"topowatch/internal/store"
)

// Defaults for Options
const (
	DefaultPollInterval = time.Second
	DefaultPhysicsTick  = 16 * time.Millisecond
)

// InputKind is a pointer event type
type InputKind string

const (
	PointerDown InputKind = "down"
	PointerMove InputKind = "move"
	PointerUp   InputKind = "up"
)

// InputEvent is a pointer event in surface coordinates
type InputEvent struct {
	Kind InputKind `json:"kind" validate:"required,oneof=down move up"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Options configures the loop timing
type Options struct {
	PollInterval time.Duration
	PhysicsTick  time.Duration
}

type request struct {
	fn   func() error
	poll bool
	done chan error
}

// Dashboard is the application context: it owns the store, the poller and
// the drag controller
type Dashboard struct {
	store   *store.Store
	poller  *poller.Poller
	drag    *drag.Controller
	bus     *EventBus
	metrics *metrics.Registry
	opts    Options

	input   chan InputEvent
	control chan request
	results chan poller.Result

	mu      sync.RWMutex
	latest  FrameSet
	seq     uint64
	running bool
}

// New creates a dashboard around already constructed components
func New(st *store.Store, p *poller.Poller, dc *drag.Controller, bus *EventBus, opts Options, m *metrics.Registry) *Dashboard {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.PhysicsTick <= 0 {
		opts.PhysicsTick = DefaultPhysicsTick
	}
	if bus == nil {
		bus = NewEventBus()
	}
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	return &Dashboard{
		store:   st,
		poller:  p,
		drag:    dc,
		bus:     bus,
		metrics: m,
		opts:    opts,
		input:   make(chan InputEvent, 64),
		control: make(chan request),
		results: make(chan poller.Result),
	}
}

// Bus returns the event bus frames are published on
func (d *Dashboard) Bus() *EventBus {
	return d.bus
}

// Latest returns the most recently published frame set
func (d *Dashboard) Latest() FrameSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Input queues a pointer event for the loop
func (d *Dashboard) Input(ctx context.Context, ev InputEvent) error {
	switch ev.Kind {
	case PointerDown, PointerMove, PointerUp:
	default:
		return fmt.Errorf("unknown pointer event %q", ev.Kind)
	}
	select {
	case d.input <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Select requests a topology selection and triggers a poll
func (d *Dashboard) Select(ctx context.Context, name string) error {
	return d.do(ctx, true, func() error {
		d.poller.Select(name)
		return nil
	})
}

// Resize updates the measured surface size and triggers a poll
func (d *Dashboard) Resize(ctx context.Context, width, height float64) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid surface size %gx%g", width, height)
	}
	return d.do(ctx, true, func() error {
		if err := d.store.Resize(width, height); err != nil {
			if !errors.Is(err, domain.ErrLayoutOverflow) {
				return err
			}
			log.Printf("Layout overflow after resize: %v", err)
		}
		return nil
	})
}

func (d *Dashboard) do(ctx context.Context, poll bool, fn func() error) error {
	req := request{fn: fn, poll: poll, done: make(chan error, 1)}
	select {
	case d.control <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the dashboard until ctx is cancelled
func (d *Dashboard) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("dashboard is already running")
	}
	d.running = true
	d.mu.Unlock()

	pollTicker := time.NewTicker(d.opts.PollInterval)
	defer pollTicker.Stop()
	physicsTicker := time.NewTicker(d.opts.PhysicsTick)
	defer physicsTicker.Stop()

	var retry <-chan time.Time
	startPoll := func() {
		if !d.poller.Ready() {
			if retry == nil {
				retry = time.After(d.poller.RetryDelay())
			}
			return
		}
		if !d.poller.Begin() {
			return
		}
		go func() {
			res := d.poller.Fetch(ctx)
			select {
			case d.results <- res:
			case <-ctx.Done():
			}
		}()
	}

	log.Printf("Dashboard loop started (poll=%s, physics=%s)", d.opts.PollInterval, d.opts.PhysicsTick)
	startPoll()

	for {
		select {
		case <-ctx.Done():
			log.Println("Dashboard loop stopped")
			return nil

		case <-pollTicker.C:
			startPoll()

		case <-retry:
			retry = nil
			startPoll()

		case res := <-d.results:
			outcome, _ := d.poller.Complete(res)
			if outcome == poller.Applied {
				d.bus.Publish(Event{Type: EventApplied, Payload: d.store.Names()})
				d.publish()
			}

		case <-physicsTicker.C:
			if d.store.Tick() {
				d.publish()
			}

		case ev := <-d.input:
			d.handleInput(ev)

		case req := <-d.control:
			err := req.fn()
			if req.poll {
				startPoll()
			}
			d.publish()
			req.done <- err
		}
	}
}

func (d *Dashboard) handleInput(ev InputEvent) {
	switch ev.Kind {
	case PointerDown:
		if d.drag.Down(ev.X, ev.Y) {
			subject, _ := d.drag.Subject()
			d.bus.Publish(Event{Type: EventDrag, Payload: domain.PositionOf(subject.Topology, subject.Node)})
		}
	case PointerMove:
		d.drag.Move(ev.X, ev.Y)
	case PointerUp:
		d.drag.Up()
	}
}

func (d *Dashboard) publish() {
	width, height := d.store.Size()
	current, _ := d.poller.Selection()

	d.mu.Lock()
	d.seq++
	fs := FrameSet{
		Seq:      d.seq,
		Width:    width,
		Height:   height,
		Grid:     d.store.Grid(),
		Selected: current,
		Names:    d.store.Names(),
		Frames:   d.store.Frames(),
	}
	d.latest = fs
	d.mu.Unlock()

	d.metrics.FramesPublished.Inc()
	d.bus.Publish(Event{Type: EventFrames, Payload: fs})
}
