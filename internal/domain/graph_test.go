package domain

import (
	"errors"
	"math"
	"testing"
)

func newTestTopology() *Topology {
	topo := NewTopology("mesh")
	a := NewNode(0, Endpoint{Address: "1", Name: "ab"})
	b := NewNode(1, Endpoint{Address: "2", Name: "abcd"}, Endpoint{Address: "3", Name: "x"})
	a.X, a.Y = 0, 0
	b.X, b.Y = 100, 0
	topo.PutNode(a)
	topo.PutNode(b)
	return topo
}

func TestTopologyValidate(t *testing.T) {
	t.Run("valid links pass", func(t *testing.T) {
		topo := newTestTopology()
		topo.AddLink(NewLink(0, 1, "r", "", ""))
		if err := topo.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("dangling target is malformed", func(t *testing.T) {
		topo := newTestTopology()
		topo.AddLink(NewLink(0, 9, "r", "", ""))

		err := topo.Validate()
		if !errors.Is(err, ErrMalformedSnapshot) {
			t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
		}
		var merr *MalformedError
		if !errors.As(err, &merr) || merr.Topology != "mesh" {
			t.Errorf("expected MalformedError for topology mesh, got %v", err)
		}
	})
}

func TestSnapshotPut(t *testing.T) {
	snap := NewSnapshot()
	snap.Put(NewTopology("a"))
	snap.Put(NewTopology("b"))

	replacement := NewTopology("a")
	replacement.PutNode(NewNode(5))
	snap.Put(replacement)

	if snap.Len() != 2 {
		t.Fatalf("expected 2 topologies, got %d", snap.Len())
	}
	if snap.Order[0] != "a" || snap.Order[1] != "b" {
		t.Errorf("expected order [a b], got %v", snap.Order)
	}
	got, _ := snap.Get("a")
	if _, ok := got.Node(5); !ok {
		t.Error("expected later block to replace the earlier one")
	}
}

func TestDeriveFrame(t *testing.T) {
	t.Run("node boxes are sized from endpoint names", func(t *testing.T) {
		topo := newTestTopology()
		frame := DeriveFrame(topo, Viewport{Visible: true}, false)

		if len(frame.Nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(frame.Nodes))
		}
		// 4 chars * 20 * 0.6 + 40 - 15
		if frame.Nodes[1].Width != 73 {
			t.Errorf("expected width 73, got %f", frame.Nodes[1].Width)
		}
		if frame.Nodes[1].Height != 90 {
			t.Errorf("expected height 90, got %f", frame.Nodes[1].Height)
		}
	})

	t.Run("zero offset link is not displaced", func(t *testing.T) {
		topo := newTestTopology()
		link := NewLink(0, 1, "r", "", "")
		link.SetOffset(0)
		topo.AddLink(link)

		frame := DeriveFrame(topo, Viewport{}, false)
		l := frame.Links[0]
		if l.X1 != 0 || l.Y1 != 0 || l.X2 != 100 || l.Y2 != 0 {
			t.Errorf("unexpected segment %+v", l)
		}
		if l.Color != StyleFor(LinkTypeUnknown).Color {
			t.Errorf("expected unknown style color, got %s", l.Color)
		}
	})

	t.Run("offset link is displaced perpendicular to the pair", func(t *testing.T) {
		topo := newTestTopology()
		link := NewLink(0, 1, "r", "", "")
		link.SetOffset(1)
		topo.AddLink(link)

		frame := DeriveFrame(topo, Viewport{}, false)
		l := frame.Links[0]
		if l.X1 != 0 || l.X2 != 100 {
			t.Errorf("expected x unchanged for horizontal pair, got %+v", l)
		}
		if math.Abs(math.Abs(l.Y1)-LinkSpacing) > 1e-9 || l.Y1 != l.Y2 {
			t.Errorf("expected y displaced by %d, got %+v", LinkSpacing, l)
		}
	})

	t.Run("frames do not alias live endpoints", func(t *testing.T) {
		topo := newTestTopology()
		frame := DeriveFrame(topo, Viewport{}, true)
		topo.Nodes[0].Endpoints[0].Name = "changed"

		if frame.Nodes[0].Endpoints[0].Name != "ab" {
			t.Error("expected frame to hold a copy of endpoints")
		}
		if !frame.Stale {
			t.Error("expected stale flag to be carried")
		}
	})
}
