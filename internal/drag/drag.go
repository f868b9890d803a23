// Package drag resolves pointer gestures to nodes and pins them.
//
// A gesture starts Idle. Pointer-down binds the node nearest to the pointer
// across every visible topology, clears its pin and warms its simulation.
// Pointer-move pins the node under the pointer. Pointer-up lets the
// simulation cool but leaves the pin in place, so a dragged node stays where
// the user dropped it until it is dragged again.
package drag

import (
	"math"

	"topowatch/internal/domain"
	"topowatch/internal/metrics"
	"topowatch/internal/physics"
	"topowatch/internal/store"
)

// DefaultAlphaTarget is the energy floor held while a node is dragged
const DefaultAlphaTarget = 0.3

// State of a gesture
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Source is the read side of the topology store the controller needs
type Source interface {
	Visible() []*store.Binding
	Contains(name string, n *domain.Node) bool
}

// Subject is the node a gesture is bound to
type Subject struct {
	Topology string
	Node     *domain.Node
	Sim      physics.Simulation
}

// Controller is the per-pointer gesture state machine
type Controller struct {
	source      Source
	alphaTarget float64
	metrics     *metrics.Registry

	state   State
	subject Subject
}

// NewController creates an idle controller
func NewController(source Source, alphaTarget float64, m *metrics.Registry) *Controller {
	if alphaTarget <= 0 {
		alphaTarget = DefaultAlphaTarget
	}
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	return &Controller{
		source:      source,
		alphaTarget: alphaTarget,
		metrics:     m,
	}
}

// State returns the current gesture state
func (c *Controller) State() State {
	return c.state
}

// Subject returns the bound node while dragging
func (c *Controller) Subject() (Subject, bool) {
	return c.subject, c.state == Dragging
}

// Nearest finds the node closest to (x, y) across all visible topologies.
// Ties go to the first node in topology order, then id order.
func Nearest(bindings []*store.Binding, x, y float64) (Subject, bool) {
	var best Subject
	bestDist := math.Inf(1)

	for _, b := range bindings {
		for _, n := range b.Nodes() {
			dx, dy := n.X-x, n.Y-y
			if d := dx*dx + dy*dy; d < bestDist {
				bestDist = d
				best = Subject{Topology: b.Name, Node: n, Sim: b.Sim}
			}
		}
	}
	return best, best.Node != nil
}

// Down starts a gesture at (x, y). It returns false when there is no node to
// bind to. A Down while already dragging restarts the gesture.
func (c *Controller) Down(x, y float64) bool {
	if c.state == Dragging {
		c.release(metrics.DragCancelled)
	}

	subject, ok := Nearest(c.source.Visible(), x, y)
	if !ok {
		c.metrics.RecordDrag(metrics.DragMissed)
		return false
	}

	c.subject = subject
	c.state = Dragging

	subject.Node.Unpin()
	subject.Sim.SetAlphaTarget(c.alphaTarget)
	subject.Sim.Restart(math.Max(subject.Sim.Alpha(), c.alphaTarget))
	return true
}

// Move pins the bound node at (x, y). It returns false when idle, or when the
// bound node was pruned by a later snapshot, in which case the gesture is
// cancelled.
func (c *Controller) Move(x, y float64) bool {
	if c.state != Dragging {
		return false
	}
	if !c.source.Contains(c.subject.Topology, c.subject.Node) {
		c.release(metrics.DragCancelled)
		return false
	}
	c.subject.Node.Pin(x, y)
	return true
}

// Up ends the gesture. The node keeps its pin.
func (c *Controller) Up() bool {
	if c.state != Dragging {
		return false
	}
	result := metrics.DragCompleted
	if !c.source.Contains(c.subject.Topology, c.subject.Node) {
		result = metrics.DragCancelled
	}
	c.release(result)
	return true
}

func (c *Controller) release(result string) {
	c.subject.Sim.SetAlphaTarget(0)
	c.metrics.RecordDrag(result)
	c.subject = Subject{}
	c.state = Idle
}
