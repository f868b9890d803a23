package codec

import (
	"fmt"
	"io"
	"strconv"

	"topowatch/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles the hand-written fixture format. Nodes are named by key and
// links refer to those keys; ids are assigned densely in file order.
//
//	topologies:
//	  - name: lab
//	    nodes:
//	      - key: router
//	        endpoints:
//	          - {address: 10.0.0.1, name: eth0}
//	    links:
//	      - {from: router, to: switch, id: r1, type: loopback}
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() Format {
	return FormatYAML
}

// ContentType returns the MIME type the payload is served with
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlFixture represents the YAML structure for topology fixtures
type yamlFixture struct {
	Topologies []yamlTopology `yaml:"topologies"`
}

type yamlTopology struct {
	Name  string     `yaml:"name"`
	Nodes []yamlNode `yaml:"nodes"`
	Links []yamlLink `yaml:"links,omitempty"`
}

type yamlNode struct {
	Key       string            `yaml:"key"`
	Endpoints []domain.Endpoint `yaml:"endpoints"`
}

type yamlLink struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	ID   string `yaml:"id"`
	Type string `yaml:"type,omitempty"`
	Info string `yaml:"info,omitempty"`
}

// Decode imports a fixture
func (c *YAMLCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	var yf yamlFixture
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yf); err != nil && err != io.EOF {
		return nil, domain.Malformed(0, "", "failed to parse YAML: %v", err)
	}

	snap := domain.NewSnapshot()
	for _, yt := range yf.Topologies {
		if yt.Name == "" {
			return nil, domain.Malformed(0, "", "topology without a name")
		}
		t := domain.NewTopology(yt.Name)

		ids := make(map[string]int, len(yt.Nodes))
		for _, yn := range yt.Nodes {
			if yn.Key == "" {
				return nil, domain.Malformed(0, yt.Name, "node %d has no key", len(ids))
			}
			if _, dup := ids[yn.Key]; dup {
				return nil, domain.Malformed(0, yt.Name, "duplicate node key %q", yn.Key)
			}
			id := len(ids)
			ids[yn.Key] = id
			t.PutNode(domain.NewNode(id, yn.Endpoints...))
		}

		for _, yl := range yt.Links {
			source, ok := ids[yl.From]
			if !ok {
				return nil, domain.Malformed(0, yt.Name, "link %q: unknown node key %q", yl.ID, yl.From)
			}
			target, ok := ids[yl.To]
			if !ok {
				return nil, domain.Malformed(0, yt.Name, "link %q: unknown node key %q", yl.ID, yl.To)
			}
			t.AddLink(domain.NewLink(source, target, yl.ID, yl.Type, yl.Info))
		}

		snap.Put(t)
	}

	return snap, nil
}

// Encode exports a snapshot as a fixture, keying nodes by their id
func (c *YAMLCodec) Encode(snap *domain.Snapshot, w io.Writer) error {
	yf := yamlFixture{Topologies: make([]yamlTopology, 0, snap.Len())}

	snap.Each(func(t *domain.Topology) {
		yt := yamlTopology{
			Name:  t.Name,
			Nodes: make([]yamlNode, 0, len(t.Nodes)),
			Links: make([]yamlLink, 0, len(t.Links)),
		}
		for _, n := range t.SortedNodes() {
			yt.Nodes = append(yt.Nodes, yamlNode{Key: nodeKey(n.ID), Endpoints: n.Endpoints})
		}
		for _, l := range t.Links {
			yt.Links = append(yt.Links, yamlLink{
				From: nodeKey(l.Source),
				To:   nodeKey(l.Target),
				ID:   l.ID,
				Type: l.Type,
				Info: l.Info,
			})
		}
		yf.Topologies = append(yf.Topologies, yt)
	})

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func nodeKey(id int) string {
	return "n" + strconv.Itoa(id)
}
