package config

// LayoutMode selects how topologies share the drawing surface
type LayoutMode string

const (
	LayoutGrid   LayoutMode = "grid"   // every topology in its own cell
	LayoutSingle LayoutMode = "single" // one selected topology at a time
)

// ParseLayoutMode converts a string to LayoutMode, defaulting to LayoutGrid
func ParseLayoutMode(s string) LayoutMode {
	switch s {
	case "single":
		return LayoutSingle
	default:
		return LayoutGrid
	}
}

// Format names a snapshot wire format
type Format string

const (
	FormatDelta Format = "delta"
	FormatJSON  Format = "json"
	FormatAuto  Format = "auto" // sniff each payload
)

// ParseFormat converts a string to Format, defaulting to FormatAuto
func ParseFormat(s string) Format {
	switch s {
	case "delta":
		return FormatDelta
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}
