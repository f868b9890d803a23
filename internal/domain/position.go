package domain

// NodePosition represents the position and pinning state of a node in a frame
type NodePosition struct {
	Topology string  `json:"topology"`
	NodeID   int     `json:"node_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pinned   bool    `json:"pinned"`
}

// PositionOf captures a node's current position
func PositionOf(topology string, n *Node) NodePosition {
	return NodePosition{
		Topology: topology,
		NodeID:   n.ID,
		X:        n.X,
		Y:        n.Y,
		Pinned:   n.Pinned(),
	}
}

// Viewport is the rectangle of the surface assigned to one topology
type Viewport struct {
	Index   int     `json:"index"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

// Center returns the midpoint of the viewport
func (v Viewport) Center() (float64, float64) {
	return v.X + v.Width/2, v.Y + v.Height/2
}
