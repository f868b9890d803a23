package domain

import "math"

// Node box geometry, in surface units
const (
	NodeBoxHeight  = 40.0
	NodeBoxPadding = 5.0
	nodeFontSize   = NodeBoxHeight * 0.5
	nodeTextHeight = nodeFontSize * 0.75
	// LinkSpacing is the lateral distance between parallel links
	LinkSpacing = 8 + 4
)

// Frame is the render-ready view of one topology
type Frame struct {
	Name     string      `json:"name"`
	Viewport Viewport    `json:"viewport"`
	Stale    bool        `json:"stale,omitempty"`
	Nodes    []FrameNode `json:"nodes"`
	Links    []FrameLink `json:"links"`
}

// FrameNode is a node box in a frame
type FrameNode struct {
	NodePosition
	Endpoints []Endpoint `json:"endpoints"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
}

// FrameLink is a drawn link segment, already displaced by its offset
type FrameLink struct {
	ID     string  `json:"id"`
	Source int     `json:"source"`
	Target int     `json:"target"`
	Type   string  `json:"type"`
	Info   string  `json:"info"`
	Title  string  `json:"title"`
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// DeriveFrame copies a topology's live state into a frame
func DeriveFrame(t *Topology, vp Viewport, stale bool) Frame {
	frame := Frame{
		Name:     t.Name,
		Viewport: vp,
		Stale:    stale,
		Nodes:    make([]FrameNode, 0, len(t.Nodes)),
		Links:    make([]FrameLink, 0, len(t.Links)),
	}

	for _, n := range t.SortedNodes() {
		eps := make([]Endpoint, len(n.Endpoints))
		copy(eps, n.Endpoints)
		frame.Nodes = append(frame.Nodes, FrameNode{
			NodePosition: NodePosition{
				Topology: t.Name,
				NodeID:   n.ID,
				X:        n.X,
				Y:        n.Y,
				Pinned:   n.Pinned(),
			},
			Endpoints: eps,
			Width:     NodeBoxWidth(n),
			Height:    (NodeBoxHeight + NodeBoxPadding) * float64(len(n.Endpoints)),
		})
	}

	for _, l := range t.Links {
		src, okSrc := t.Nodes[l.Source]
		dst, okDst := t.Nodes[l.Target]
		if !okSrc || !okDst {
			continue
		}
		ox, oy := perpendicular(src.Y-dst.Y, src.X-dst.X, l.Offset*LinkSpacing)
		frame.Links = append(frame.Links, FrameLink{
			ID:     l.ID,
			Source: l.Source,
			Target: l.Target,
			Type:   l.Type,
			Info:   l.Info,
			Title:  l.Title(),
			Color:  StyleFor(l.Type).Color,
			Offset: l.Offset,
			X1:     src.X + ox,
			Y1:     src.Y - oy,
			X2:     dst.X + ox,
			Y2:     dst.Y - oy,
		})
	}

	return frame
}

// NodeBoxWidth returns the width of a node box, driven by its longest endpoint name
func NodeBoxWidth(n *Node) float64 {
	textWidth := float64(n.LongestName()) * nodeFontSize * 0.6
	return textWidth + NodeBoxHeight - nodeTextHeight
}

// perpendicular scales (x, y) to length mag
func perpendicular(x, y, mag float64) (float64, float64) {
	length := math.Sqrt(x*x + y*y)
	if length == 0 || mag == 0 {
		return 0, 0
	}
	m := length / mag
	return x / m, y / m
}
