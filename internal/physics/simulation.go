package physics

import (
	"math"

	"topowatch/internal/domain"
)

// Simulation is the narrow contract between the dashboard and a layout integrator
type Simulation interface {
	// SetNodes replaces the observed node collection. Nodes are held by
	// pointer so position state survives across calls.
	SetNodes(nodes []*domain.Node)
	// SetLinks replaces the observed link collection
	SetLinks(links []*domain.Link)
	// SetCenter moves the point the layout gravitates to
	SetCenter(x, y float64)
	// Restart sets alpha and wakes the simulation
	Restart(alpha float64)
	// SetAlphaTarget sets the energy level alpha decays toward
	SetAlphaTarget(target float64)
	// Tick advances one step and reports whether anything moved
	Tick() bool
	Alpha() float64
	AlphaTarget() float64
}

// Options tunes a ForceSimulation
type Options struct {
	Charge        float64
	VelocityDecay float64
	AlphaMin      float64
	AlphaDecay    float64
}

// DefaultOptions returns the tuning used by the dashboard
func DefaultOptions() Options {
	alphaMin := 0.001
	return Options{
		Charge:        -2000,
		VelocityDecay: 0.4,
		AlphaMin:      alphaMin,
		AlphaDecay:    1 - math.Pow(alphaMin, 1.0/300),
	}
}

// Factory creates a simulation centered on (x, y)
type Factory func(x, y float64) Simulation

// NewFactory returns a Factory producing ForceSimulations with the given options
func NewFactory(opts Options) Factory {
	return func(x, y float64) Simulation {
		sim := NewForceSimulation(opts)
		sim.SetCenter(x, y)
		return sim
	}
}

// ForceSimulation is a velocity-Verlet style integrator with many-body charge,
// spring links and a centering force
type ForceSimulation struct {
	opts Options

	nodes []*domain.Node
	links []*domain.Link

	centerX, centerY float64
	alpha            float64
	alphaTarget      float64
}

// NewForceSimulation creates an idle simulation
func NewForceSimulation(opts Options) *ForceSimulation {
	defaults := DefaultOptions()
	if opts.Charge == 0 {
		opts.Charge = defaults.Charge
	}
	if opts.VelocityDecay <= 0 || opts.VelocityDecay >= 1 {
		opts.VelocityDecay = defaults.VelocityDecay
	}
	if opts.AlphaMin <= 0 {
		opts.AlphaMin = defaults.AlphaMin
	}
	if opts.AlphaDecay <= 0 {
		opts.AlphaDecay = defaults.AlphaDecay
	}
	return &ForceSimulation{
		opts:  opts,
		alpha: 1,
	}
}

// SetNodes replaces the node collection and seeds any unplaced node
func (s *ForceSimulation) SetNodes(nodes []*domain.Node) {
	s.nodes = nodes
	s.seed()
}

// SetLinks replaces the link collection
func (s *ForceSimulation) SetLinks(links []*domain.Link) {
	s.links = links
}

// SetCenter moves the centering target
func (s *ForceSimulation) SetCenter(x, y float64) {
	s.centerX = x
	s.centerY = y
}

// Center returns the centering target
func (s *ForceSimulation) Center() (float64, float64) {
	return s.centerX, s.centerY
}

// Restart sets alpha
func (s *ForceSimulation) Restart(alpha float64) {
	s.alpha = alpha
}

// SetAlphaTarget sets the energy floor
func (s *ForceSimulation) SetAlphaTarget(target float64) {
	s.alphaTarget = target
}

// Alpha returns the current energy level
func (s *ForceSimulation) Alpha() float64 {
	return s.alpha
}

// AlphaTarget returns the energy floor
func (s *ForceSimulation) AlphaTarget() float64 {
	return s.alphaTarget
}

// Active reports whether a Tick would move anything
func (s *ForceSimulation) Active() bool {
	return s.alpha >= s.opts.AlphaMin || s.alphaTarget >= s.opts.AlphaMin
}

// Tick advances the simulation by one step
func (s *ForceSimulation) Tick() bool {
	if !s.Active() || len(s.nodes) == 0 {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.opts.AlphaDecay

	s.applyLinks()
	s.applyCharge()

	for _, n := range s.nodes {
		if n.FX != nil {
			n.X = *n.FX
			n.VX = 0
		} else {
			n.VX *= 1 - s.opts.VelocityDecay
			n.X += n.VX
		}
		if n.FY != nil {
			n.Y = *n.FY
			n.VY = 0
		} else {
			n.VY *= 1 - s.opts.VelocityDecay
			n.Y += n.VY
		}
	}

	s.applyCenter()
	return true
}

func (s *ForceSimulation) applyLinks() {
	if len(s.links) == 0 {
		return
	}

	index := make(map[int]*domain.Node, len(s.nodes))
	degree := make(map[int]int, len(s.nodes))
	for _, n := range s.nodes {
		index[n.ID] = n
	}
	for _, l := range s.links {
		degree[l.Source]++
		degree[l.Target]++
	}

	for _, l := range s.links {
		src, okSrc := index[l.Source]
		dst, okDst := index[l.Target]
		if !okSrc || !okDst || src == dst {
			continue
		}
		style := domain.StyleFor(l.Type)

		dx := dst.X + dst.VX - src.X - src.VX
		dy := dst.Y + dst.VY - src.Y - src.VY
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			dx, dy, dist = jiggle(l.Source, l.Target), jiggle(l.Target, l.Source), 1e-6
		}

		// strength scaled down for well-connected nodes so hubs stay stable
		strength := style.Strength / float64(min(degree[l.Source], degree[l.Target]))
		k := (dist - style.Distance) / dist * s.alpha * strength
		dx *= k
		dy *= k

		bias := float64(degree[l.Source]) / float64(degree[l.Source]+degree[l.Target])
		dst.VX -= dx * bias
		dst.VY -= dy * bias
		src.VX += dx * (1 - bias)
		src.VY += dy * (1 - bias)
	}
}

func (s *ForceSimulation) applyCharge() {
	for i, a := range s.nodes {
		for j, b := range s.nodes {
			if i == j {
				continue
			}
			dx := b.X - a.X
			dy := b.Y - a.Y
			l2 := dx*dx + dy*dy
			if l2 == 0 {
				dx = jiggle(a.ID, b.ID)
				dy = jiggle(b.ID, a.ID)
				l2 = dx*dx + dy*dy
			}
			if l2 < 1 {
				l2 = math.Sqrt(l2)
			}
			w := s.opts.Charge * s.alpha / l2
			a.VX += dx * w
			a.VY += dy * w
		}
	}
}

func (s *ForceSimulation) applyCenter() {
	var sx, sy float64
	for _, n := range s.nodes {
		sx += n.X
		sy += n.Y
	}
	shiftX := sx/float64(len(s.nodes)) - s.centerX
	shiftY := sy/float64(len(s.nodes)) - s.centerY
	for _, n := range s.nodes {
		if n.FX == nil {
			n.X -= shiftX
		}
		if n.FY == nil {
			n.Y -= shiftY
		}
	}
}

// seed places unplaced nodes on a phyllotaxis spiral around the center
func (s *ForceSimulation) seed() {
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))

	for i, n := range s.nodes {
		if n.Placed {
			continue
		}
		if n.FX != nil && n.FY != nil {
			n.X, n.Y = *n.FX, *n.FY
		} else {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = s.centerX + radius*math.Cos(angle)
			n.Y = s.centerY + radius*math.Sin(angle)
		}
		n.VX, n.VY = 0, 0
		n.Placed = true
	}
}

// jiggle returns a tiny non-zero displacement for coincident points, signed so
// that the two nodes of a pair are pushed apart
func jiggle(a, b int) float64 {
	mag := float64((a*31+b*17)%7+1) * 1e-6
	if a > b {
		return -mag
	}
	return mag
}
