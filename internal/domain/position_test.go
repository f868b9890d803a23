package domain

import (
	"testing"
)

func TestPositionOf(t *testing.T) {
	t.Run("position of free node", func(t *testing.T) {
		node := NewNode(1)
		node.X, node.Y = 100.5, 200.5

		pos := PositionOf("mesh", node)
		if pos.Topology != "mesh" || pos.NodeID != 1 {
			t.Errorf("unexpected identity %+v", pos)
		}
		if pos.X != 100.5 || pos.Y != 200.5 {
			t.Errorf("expected (100.5,200.5), got (%f,%f)", pos.X, pos.Y)
		}
		if pos.Pinned {
			t.Error("expected Pinned to be false")
		}
	})

	t.Run("position of pinned node", func(t *testing.T) {
		node := NewNode(4)
		node.X, node.Y = -5, 7
		node.Pin(-5, 7)

		pos := PositionOf("mesh", node)
		if !pos.Pinned {
			t.Error("expected Pinned to be true")
		}
		if pos.X != -5 || pos.Y != 7 {
			t.Errorf("expected (-5,7), got (%f,%f)", pos.X, pos.Y)
		}
	})
}

func TestViewport(t *testing.T) {
	vp := Viewport{X: 100, Y: 50, Width: 200, Height: 100, Visible: true}

	t.Run("center", func(t *testing.T) {
		x, y := vp.Center()
		if x != 200 || y != 100 {
			t.Errorf("expected center (200,100), got (%f,%f)", x, y)
		}
	})
}
