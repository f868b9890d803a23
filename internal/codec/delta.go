package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"topowatch/internal/domain"
)

// Delta-tag record layout
const (
	DeltaSeparator = "$"

	TagTopology = ":"
	TagNode     = "#"
	TagLink     = "~"
)

// maxDeltaLine bounds a single record
const maxDeltaLine = 1 << 20

// DeltaCodec handles the line-oriented delta-tag format:
//
//	:$<name>
//	#$<id>$<addr1>$<name1>$<addr2>$<name2>...
//	~$<source>$<target>$<id>[$<type>[$<info>]]
type DeltaCodec struct{}

// NewDeltaCodec creates a new delta-tag codec
func NewDeltaCodec() *DeltaCodec {
	return &DeltaCodec{}
}

// Format returns the codec format identifier
func (c *DeltaCodec) Format() Format {
	return FormatDelta
}

// ContentType returns the MIME type the payload is served with
func (c *DeltaCodec) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Decode reads delta-tag records in order. Unknown tags and blank lines are
// ignored. A topology block whose name was already seen replaces the earlier
// block.
func (c *DeltaCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	var current *domain.Topology

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDeltaLine)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, DeltaSeparator)

		switch fields[0] {
		case TagTopology:
			if len(fields) < 2 || fields[1] == "" {
				return nil, domain.Malformed(line, "", "topology record without a name")
			}
			current = domain.NewTopology(fields[1])
			snap.Put(current)

		case TagNode:
			if current == nil {
				return nil, domain.Malformed(line, "", "node record before any topology record")
			}
			node, err := decodeNode(fields)
			if err != nil {
				return nil, domain.Malformed(line, current.Name, "%v", err)
			}
			current.PutNode(node)

		case TagLink:
			if current == nil {
				return nil, domain.Malformed(line, "", "link record before any topology record")
			}
			link, err := decodeLink(fields)
			if err != nil {
				return nil, domain.Malformed(line, current.Name, "%v", err)
			}
			current.AddLink(link)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read delta payload: %w", err)
	}

	return snap, nil
}

func decodeNode(fields []string) (*domain.Node, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("node record without an id")
	}
	id, err := parseID(fields[1])
	if err != nil {
		return nil, fmt.Errorf("node id: %w", err)
	}

	pairs := fields[2:]
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("node %d: endpoint address %q has no name", id, pairs[len(pairs)-1])
	}

	endpoints := make([]domain.Endpoint, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		endpoints = append(endpoints, domain.Endpoint{Address: pairs[i], Name: pairs[i+1]})
	}
	return domain.NewNode(id, endpoints...), nil
}

func decodeLink(fields []string) (*domain.Link, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("link record needs source, target and id, got %d fields", len(fields)-1)
	}
	source, err := parseID(fields[1])
	if err != nil {
		return nil, fmt.Errorf("link source: %w", err)
	}
	target, err := parseID(fields[2])
	if err != nil {
		return nil, fmt.Errorf("link target: %w", err)
	}

	var linkType, info string
	if len(fields) > 4 {
		linkType = fields[4]
	}
	if len(fields) > 5 {
		info = fields[5]
	}
	return domain.NewLink(source, target, fields[3], linkType, info), nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if id < 0 {
		return 0, fmt.Errorf("negative id %d", id)
	}
	return id, nil
}

// Encode writes every topology in snapshot order, nodes by ascending id and
// links in list order. Type and info are always written.
func (c *DeltaCodec) Encode(snap *domain.Snapshot, w io.Writer) error {
	bw := bufio.NewWriter(w)

	var err error
	snap.Each(func(t *domain.Topology) {
		if err != nil {
			return
		}
		err = writeDeltaTopology(bw, t)
	})
	if err != nil {
		return fmt.Errorf("failed to encode delta payload: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to encode delta payload: %w", err)
	}
	return nil
}

func writeDeltaTopology(w *bufio.Writer, t *domain.Topology) error {
	if err := writeRecord(w, TagTopology, t.Name); err != nil {
		return err
	}

	for _, n := range t.SortedNodes() {
		fields := make([]string, 0, 2+2*len(n.Endpoints))
		fields = append(fields, TagNode, strconv.Itoa(n.ID))
		for _, ep := range n.Endpoints {
			fields = append(fields, ep.Address, ep.Name)
		}
		if err := writeRecord(w, fields...); err != nil {
			return err
		}
	}

	for _, l := range t.Links {
		err := writeRecord(w, TagLink, strconv.Itoa(l.Source), strconv.Itoa(l.Target), l.ID, l.Type, l.Info)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w *bufio.Writer, fields ...string) error {
	for _, f := range fields[1:] {
		if strings.ContainsAny(f, DeltaSeparator+"\n") {
			return fmt.Errorf("field %q contains a reserved character", f)
		}
	}
	if _, err := w.WriteString(strings.Join(fields, DeltaSeparator)); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
