package layout

import "topowatch/internal/domain"

// AssignOffsets populates the lateral offset of every link so that links sharing
// a (source, target) pair get consecutive offsets centered on zero, in discovery
// order. Groups whose links all carry an offset already are left untouched, so
// calling it again within the same cycle never double-adjusts.
func AssignOffsets(links []*domain.Link) []*domain.Link {
	groups := make(map[domain.PairKey][]*domain.Link)
	order := make([]domain.PairKey, 0)

	for _, link := range links {
		key := link.Pair()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], link)
	}

	for _, key := range order {
		members := groups[key]
		if allAssigned(members) {
			continue
		}
		first := -float64(len(members)-1) / 2
		for i, link := range members {
			link.SetOffset(first + float64(i))
		}
	}

	return links
}

// AssignTopologyOffsets runs AssignOffsets over every topology of a snapshot
func AssignTopologyOffsets(snap *domain.Snapshot) {
	snap.Each(func(t *domain.Topology) {
		AssignOffsets(t.Links)
	})
}

func allAssigned(links []*domain.Link) bool {
	for _, link := range links {
		if !link.OffsetAssigned {
			return false
		}
	}
	return true
}
