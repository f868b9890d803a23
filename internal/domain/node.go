package domain

import "sort"

// Endpoint is an addressable endpoint hosted by a node
type Endpoint struct {
	Address string `json:"address" yaml:"address"`
	Name    string `json:"name" yaml:"name"`
}

// Node represents a vertex in a topology
type Node struct {
	ID        int        `json:"id"`
	Endpoints []Endpoint `json:"endpoints"`

	// Position state, owned by the physics integrator once the node is attached
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	VX     float64  `json:"-"`
	VY     float64  `json:"-"`
	Placed bool     `json:"-"` // X/Y have been seeded
	FX     *float64 `json:"fx,omitempty"`
	FY     *float64 `json:"fy,omitempty"`
}

// NewNode creates a node with the given endpoints
func NewNode(id int, endpoints ...Endpoint) *Node {
	eps := make([]Endpoint, len(endpoints))
	copy(eps, endpoints)
	return &Node{
		ID:        id,
		Endpoints: eps,
	}
}

// Pin fixes the node at the given position
func (n *Node) Pin(x, y float64) {
	fx, fy := x, y
	n.FX = &fx
	n.FY = &fy
}

// Unpin releases a pinned position
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Pinned reports whether the node has a fixed position
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// LongestName returns the length of the longest endpoint name
func (n *Node) LongestName() int {
	longest := 0
	for _, ep := range n.Endpoints {
		if l := len([]rune(ep.Name)); l > longest {
			longest = l
		}
	}
	return longest
}

// SortedNodes returns the nodes of a node map ordered by id
func SortedNodes(nodes map[int]*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
