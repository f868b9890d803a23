package domain

import (
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("copies endpoints", func(t *testing.T) {
		eps := []Endpoint{{Address: "1", Name: "alpha"}}
		node := NewNode(3, eps...)

		eps[0].Name = "changed"

		if node.ID != 3 {
			t.Errorf("expected ID 3, got %d", node.ID)
		}
		if node.Endpoints[0].Name != "alpha" {
			t.Errorf("expected endpoint to be independent of input, got %s", node.Endpoints[0].Name)
		}
	})

	t.Run("starts unplaced and unpinned", func(t *testing.T) {
		node := NewNode(0)
		if node.Placed {
			t.Error("expected new node to be unplaced")
		}
		if node.Pinned() {
			t.Error("expected new node to be unpinned")
		}
	})
}

func TestNodePinning(t *testing.T) {
	t.Run("pin sets fixed coordinates", func(t *testing.T) {
		node := NewNode(1)
		node.Pin(10, -20)

		if !node.Pinned() {
			t.Fatal("expected node to be pinned")
		}
		if *node.FX != 10 || *node.FY != -20 {
			t.Errorf("expected pin at (10,-20), got (%f,%f)", *node.FX, *node.FY)
		}
	})

	t.Run("unpin clears fixed coordinates", func(t *testing.T) {
		node := NewNode(1)
		node.Pin(1, 1)
		node.Unpin()

		if node.Pinned() {
			t.Error("expected node to be unpinned")
		}
	})
}

func TestNodeLongestName(t *testing.T) {
	tests := []struct {
		name      string
		endpoints []Endpoint
		want      int
	}{
		{"no endpoints", nil, 0},
		{"single", []Endpoint{{Name: "abc"}}, 3},
		{"picks longest", []Endpoint{{Name: "a"}, {Name: "abcdef"}, {Name: "abc"}}, 6},
		{"counts runes", []Endpoint{{Name: "héllo"}}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := NewNode(0, tt.endpoints...)
			if got := node.LongestName(); got != tt.want {
				t.Errorf("LongestName() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortedNodes(t *testing.T) {
	nodes := map[int]*Node{
		7: NewNode(7),
		2: NewNode(2),
		4: NewNode(4),
	}

	sorted := SortedNodes(nodes)
	want := []int{2, 4, 7}
	for i, n := range sorted {
		if n.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], n.ID)
		}
	}
}

func TestNewLinkDefaults(t *testing.T) {
	t.Run("empty type and info get defaults", func(t *testing.T) {
		link := NewLink(0, 1, "r0", "", "")
		if link.Type != LinkTypeUnknown {
			t.Errorf("expected type %q, got %q", LinkTypeUnknown, link.Type)
		}
		if link.Info != LinkInfoEmpty {
			t.Errorf("expected info %q, got %q", LinkInfoEmpty, link.Info)
		}
		if link.OffsetAssigned {
			t.Error("expected offset to be unassigned")
		}
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		link := NewLink(0, 1, "r0", "loopback", "lo")
		if link.Type != "loopback" || link.Info != "lo" {
			t.Errorf("unexpected link %+v", link)
		}
	})
}

func TestStyleFor(t *testing.T) {
	t.Run("known type", func(t *testing.T) {
		style := StyleFor("loopback_transport_route")
		if style.Distance != 400 || style.Strength != .5 {
			t.Errorf("unexpected style %+v", style)
		}
	})

	t.Run("unknown type falls back", func(t *testing.T) {
		if StyleFor("carrier_pigeon") != StyleFor(LinkTypeUnknown) {
			t.Error("expected fallback to the unknown style")
		}
	})
}
