package domain

// Topology represents one named network graph
type Topology struct {
	Name  string        `json:"name"`
	Nodes map[int]*Node `json:"nodes"`
	Links []*Link       `json:"links"`
}

// NewTopology creates an empty topology
func NewTopology(name string) *Topology {
	return &Topology{
		Name:  name,
		Nodes: make(map[int]*Node),
		Links: make([]*Link, 0),
	}
}

// PutNode adds a node, replacing any node with the same id
func (t *Topology) PutNode(node *Node) {
	t.Nodes[node.ID] = node
}

// AddLink appends a link
func (t *Topology) AddLink(link *Link) {
	t.Links = append(t.Links, link)
}

// Node returns the node with the given id
func (t *Topology) Node(id int) (*Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// SortedNodes returns the nodes ordered by id
func (t *Topology) SortedNodes() []*Node {
	return SortedNodes(t.Nodes)
}

// Validate checks that every link references nodes of this topology
func (t *Topology) Validate() error {
	for i, link := range t.Links {
		if _, ok := t.Nodes[link.Source]; !ok {
			return Malformed(0, t.Name, "link %d (%q) references unknown source node %d", i, link.ID, link.Source)
		}
		if _, ok := t.Nodes[link.Target]; !ok {
			return Malformed(0, t.Name, "link %d (%q) references unknown target node %d", i, link.ID, link.Target)
		}
	}
	return nil
}

// Snapshot is one fetched payload: every topology in document order
type Snapshot struct {
	Topologies map[string]*Topology
	Order      []string
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Topologies: make(map[string]*Topology),
		Order:      make([]string, 0),
	}
}

// Put adds a topology. A later topology with the same name replaces the
// earlier one entirely but keeps its position in Order.
func (s *Snapshot) Put(t *Topology) {
	if _, exists := s.Topologies[t.Name]; !exists {
		s.Order = append(s.Order, t.Name)
	}
	s.Topologies[t.Name] = t
}

// Get returns the topology with the given name
func (s *Snapshot) Get(name string) (*Topology, bool) {
	t, ok := s.Topologies[name]
	return t, ok
}

// Each calls fn for every topology in document order
func (s *Snapshot) Each(fn func(*Topology)) {
	for _, name := range s.Order {
		fn(s.Topologies[name])
	}
}

// Len returns the number of topologies
func (s *Snapshot) Len() int {
	return len(s.Order)
}

// Validate validates every topology
func (s *Snapshot) Validate() error {
	for _, name := range s.Order {
		if err := s.Topologies[name].Validate(); err != nil {
			return err
		}
	}
	return nil
}
