package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"topowatch/internal/domain"
)

// JSONCodec handles the JSON snapshot format: an object keyed by topology name
// whose values carry a nodes array (index is the node id) and a routes array.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() Format {
	return FormatJSON
}

// ContentType returns the MIME type the payload is served with
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

type jsonTopology struct {
	Nodes  []*jsonNode  `json:"nodes"`
	Routes []*jsonRoute `json:"routes"`
}

type jsonNode struct {
	Endpoints []domain.Endpoint `json:"endpoints"`
}

type jsonRoute struct {
	Source     *int   `json:"source"`
	Target     *int   `json:"target"`
	ID         string `json:"id"`
	TypeString string `json:"typestring"`
	Type       string `json:"type,omitempty"`
	Info       string `json:"info"`
}

// Decode reads a snapshot, keeping topologies in document order. A null entry
// in a nodes array leaves that id unused.
func (c *JSONCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		return nil, domain.Malformed(0, "", "failed to parse JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, domain.Malformed(0, "", "snapshot must be a JSON object")
	}

	snap := domain.NewSnapshot()
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, domain.Malformed(0, "", "failed to parse JSON: %v", err)
		}
		name, _ := tok.(string)

		var jt jsonTopology
		if err := decoder.Decode(&jt); err != nil {
			return nil, domain.Malformed(0, name, "failed to parse JSON: %v", err)
		}

		t, err := jt.toDomain(name)
		if err != nil {
			return nil, err
		}
		snap.Put(t)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, domain.Malformed(0, "", "failed to parse JSON: %v", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.Malformed(0, "", "trailing data after snapshot object")
	}

	return snap, nil
}

func (jt *jsonTopology) toDomain(name string) (*domain.Topology, error) {
	t := domain.NewTopology(name)

	for id, jn := range jt.Nodes {
		if jn == nil {
			continue
		}
		t.PutNode(domain.NewNode(id, jn.Endpoints...))
	}

	for i, jr := range jt.Routes {
		if jr == nil {
			return nil, domain.Malformed(0, name, "route %d is null", i)
		}
		if jr.Source == nil || jr.Target == nil {
			return nil, domain.Malformed(0, name, "route %d (%q) is missing source or target", i, jr.ID)
		}
		linkType := jr.TypeString
		if linkType == "" {
			linkType = jr.Type
		}
		t.AddLink(domain.NewLink(*jr.Source, *jr.Target, jr.ID, linkType, jr.Info))
	}

	return t, nil
}

// Encode writes the snapshot as one JSON object. Node ids index the nodes
// array, so sparse ids produce null entries; a topology needing more than
// MaxUnusedSlots of them is rejected as malformed.
func (c *JSONCodec) Encode(snap *domain.Snapshot, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, name := range snap.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		jt, err := fromDomain(snap.Topologies[name])
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		body, err := json.Marshal(jt)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString("}\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// MaxUnusedSlots bounds how many null entries sparse node ids may leave in the
// encoded nodes array
const MaxUnusedSlots = 1024

func fromDomain(t *domain.Topology) (jsonTopology, error) {
	maxID := -1
	for id := range t.Nodes {
		maxID = max(maxID, id)
	}
	if unused := maxID + 1 - len(t.Nodes); unused > MaxUnusedSlots {
		return jsonTopology{}, domain.Malformed(0, t.Name, "node id %d leaves %d unused slots (limit %d)", maxID, unused, MaxUnusedSlots)
	}

	jt := jsonTopology{
		Nodes:  make([]*jsonNode, maxID+1),
		Routes: make([]*jsonRoute, 0, len(t.Links)),
	}
	for id, n := range t.Nodes {
		eps := make([]domain.Endpoint, len(n.Endpoints))
		copy(eps, n.Endpoints)
		jt.Nodes[id] = &jsonNode{Endpoints: eps}
	}
	for _, l := range t.Links {
		source, target := l.Source, l.Target
		jt.Routes = append(jt.Routes, &jsonRoute{
			Source:     &source,
			Target:     &target,
			ID:         l.ID,
			TypeString: l.Type,
			Info:       l.Info,
		})
	}
	return jt, nil
}
