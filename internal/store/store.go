package store

import (
	"fmt"

	"topowatch/internal/domain"
	"topowatch/internal/layout"
	"topowatch/internal/physics"
)

// Mode selects how topologies share the surface
type Mode string

const (
	// ModeGrid shows every topology in its own grid cell
	ModeGrid Mode = "grid"
	// ModeSingle shows only the selected topology on the whole surface
	ModeSingle Mode = "single"
)

// Options configures a Store
type Options struct {
	Mode        Mode
	MaxGridSide int
	Width       float64
	Height      float64
}

// Binding is the live state of one named topology
type Binding struct {
	Name     string
	Topology *domain.Topology
	Sim      physics.Simulation
	Viewport domain.Viewport
	Stale    bool

	nodes []*domain.Node
}

// Nodes returns the node collection the simulation observes, ordered by id
func (b *Binding) Nodes() []*domain.Node {
	return b.nodes
}

// Store maps topology names to bindings
type Store struct {
	factory physics.Factory
	opts    Options

	order    []string
	bindings map[string]*Binding
	focus    string
	grid     layout.Grid
}

// ApplyResult summarizes what a snapshot changed
type ApplyResult struct {
	Created      []string
	Stale        []string
	Pruned       int
	CountChanged bool
	// Overflow is set when the grid could not give every topology a cell
	Overflow error
}

// New creates an empty store
func New(factory physics.Factory, opts Options) *Store {
	if opts.Mode == "" {
		opts.Mode = ModeGrid
	}
	if opts.MaxGridSide <= 0 {
		opts.MaxGridSide = layout.DefaultMaxSide
	}
	return &Store{
		factory:  factory,
		opts:     opts,
		order:    make([]string, 0),
		bindings: make(map[string]*Binding),
	}
}

// Mode returns the display mode
func (s *Store) Mode() Mode {
	return s.opts.Mode
}

// Len returns the number of bound topologies
func (s *Store) Len() int {
	return len(s.order)
}

// Grid returns the current grid split
func (s *Store) Grid() layout.Grid {
	return s.grid
}

// Size returns the surface size
func (s *Store) Size() (float64, float64) {
	return s.opts.Width, s.opts.Height
}

// Upsert merges a parsed topology into its binding, creating the binding on
// first sight. Nodes whose id already exists keep their pointer and position
// state and only take the new endpoints; new ids start unplaced; ids missing
// from t are pruned. It reports whether the binding was created and how many
// nodes were pruned.
func (s *Store) Upsert(t *domain.Topology) (created bool, pruned int) {
	b, ok := s.bindings[t.Name]
	if !ok {
		b = &Binding{
			Name:     t.Name,
			Topology: domain.NewTopology(t.Name),
			Sim:      s.factory(s.opts.Width/2, s.opts.Height/2),
		}
		s.bindings[t.Name] = b
		s.order = append(s.order, t.Name)
		created = true
	}

	live := b.Topology
	for id, n := range t.Nodes {
		if existing, ok := live.Nodes[id]; ok {
			existing.Endpoints = append(existing.Endpoints[:0], n.Endpoints...)
			continue
		}
		live.PutNode(n)
	}
	for id := range live.Nodes {
		if _, ok := t.Nodes[id]; !ok {
			delete(live.Nodes, id)
			pruned++
		}
	}
	live.Links = t.Links
	b.Stale = false

	b.nodes = live.SortedNodes()
	b.Sim.SetNodes(b.nodes)
	b.Sim.SetLinks(live.Links)

	return created, pruned
}

// Apply merges every topology of a snapshot. Bound topologies missing from the
// snapshot are kept and marked stale. The viewport grid is recomputed when a
// topology was created.
func (s *Store) Apply(snap *domain.Snapshot) ApplyResult {
	var result ApplyResult

	seen := make(map[string]bool, snap.Len())
	snap.Each(func(t *domain.Topology) {
		seen[t.Name] = true
		created, pruned := s.Upsert(t)
		if created {
			result.Created = append(result.Created, t.Name)
		}
		result.Pruned += pruned
	})

	for _, name := range s.order {
		if !seen[name] {
			s.bindings[name].Stale = true
			result.Stale = append(result.Stale, name)
		}
	}

	if s.focus == "" && snap.Len() > 0 {
		s.focus = snap.Order[0]
	}

	result.CountChanged = len(result.Created) > 0
	if result.CountChanged {
		result.Overflow = s.Relayout()
	}
	return result
}

// Relayout recomputes every viewport and moves each simulation's center to
// the middle of its viewport
func (s *Store) Relayout() error {
	names := s.order
	if s.opts.Mode == ModeSingle {
		names = nil
		if _, ok := s.bindings[s.focus]; ok {
			names = []string{s.focus}
		}
	}

	grid, err := layout.Allocate(len(names), s.opts.MaxGridSide)
	s.grid = grid
	viewports := layout.Viewports(grid, len(names), s.opts.Width, s.opts.Height)

	for _, b := range s.bindings {
		b.Viewport = domain.Viewport{Index: -1}
	}
	for i, name := range names {
		b := s.bindings[name]
		b.Viewport = viewports[i]
		if b.Viewport.Visible {
			b.Sim.SetCenter(b.Viewport.Center())
		}
	}

	if err != nil {
		return fmt.Errorf("failed to place %d topologies: %w", len(names), err)
	}
	return nil
}

// Resize changes the surface size and recomputes viewports
func (s *Store) Resize(width, height float64) error {
	s.opts.Width = width
	s.opts.Height = height
	return s.Relayout()
}

// Focus selects the topology shown in single mode
func (s *Store) Focus(name string) error {
	if _, ok := s.bindings[name]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrTopologyNotFound, name)
	}
	if s.focus == name {
		return nil
	}
	s.focus = name
	if s.opts.Mode == ModeSingle {
		return s.Relayout()
	}
	return nil
}

// Focused returns the selected topology name
func (s *Store) Focused() string {
	return s.focus
}

// Get returns the binding for a topology
func (s *Store) Get(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Names returns the bound topology names in first-seen order
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Bindings returns every binding in first-seen order
func (s *Store) Bindings() []*Binding {
	out := make([]*Binding, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.bindings[name])
	}
	return out
}

// Visible returns the bindings that currently own a viewport, in first-seen order
func (s *Store) Visible() []*Binding {
	out := make([]*Binding, 0, len(s.order))
	for _, name := range s.order {
		if b := s.bindings[name]; b.Viewport.Visible {
			out = append(out, b)
		}
	}
	return out
}

// Nodes returns the current nodes of a topology
func (s *Store) Nodes(name string) ([]*domain.Node, error) {
	b, ok := s.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrTopologyNotFound, name)
	}
	return b.nodes, nil
}

// Contains reports whether n is still the live node for its id in a topology
func (s *Store) Contains(name string, n *domain.Node) bool {
	b, ok := s.bindings[name]
	if !ok || n == nil {
		return false
	}
	live, ok := b.Topology.Nodes[n.ID]
	return ok && live == n
}

// Reheat restarts every visible simulation at the given energy
func (s *Store) Reheat(alpha float64) {
	for _, b := range s.Visible() {
		b.Sim.Restart(alpha)
	}
}

// Tick advances every visible simulation and reports whether anything moved
func (s *Store) Tick() bool {
	moved := false
	for _, b := range s.Visible() {
		if b.Sim.Tick() {
			moved = true
		}
	}
	return moved
}

// Frames derives a render frame for every visible topology
func (s *Store) Frames() []domain.Frame {
	visible := s.Visible()
	out := make([]domain.Frame, 0, len(visible))
	for _, b := range visible {
		out = append(out, domain.DeriveFrame(b.Topology, b.Viewport, b.Stale))
	}
	return out
}

// Counts returns the number of bound topologies, nodes and links
func (s *Store) Counts() (topologies, nodes, links int) {
	for _, b := range s.bindings {
		nodes += len(b.Topology.Nodes)
		links += len(b.Topology.Links)
	}
	return len(s.bindings), nodes, links
}
