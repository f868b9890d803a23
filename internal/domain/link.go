package domain

import "fmt"

// Defaults applied when a link omits its type or info field
const (
	LinkTypeUnknown = "unknown"
	LinkInfoEmpty   = "<empty>"
)

// Link represents a typed route between two nodes of the same topology
type Link struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Info   string  `json:"info"`
	Offset float64 `json:"offset"`

	// OffsetAssigned is set once an offset pass has populated Offset
	OffsetAssigned bool `json:"-"`
}

// NewLink creates a link, applying the type and info defaults
func NewLink(source, target int, id, linkType, info string) *Link {
	if linkType == "" {
		linkType = LinkTypeUnknown
	}
	if info == "" {
		info = LinkInfoEmpty
	}
	return &Link{
		Source: source,
		Target: target,
		ID:     id,
		Type:   linkType,
		Info:   info,
	}
}

// PairKey identifies the ordered (source, target) pair a link belongs to
type PairKey struct {
	Source int
	Target int
}

// Pair returns the grouping key for parallel links
func (l *Link) Pair() PairKey {
	return PairKey{Source: l.Source, Target: l.Target}
}

// SetOffset records a computed offset
func (l *Link) SetOffset(offset float64) {
	l.Offset = offset
	l.OffsetAssigned = true
}

// Title is the hover text for a link
func (l *Link) Title() string {
	return fmt.Sprintf("%s - %s", l.ID, l.Type)
}
