package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSnapshot is returned for structurally invalid payloads
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrFetchFailure is returned when the endpoint could not be read
	ErrFetchFailure = errors.New("fetch failure")
	// ErrLayoutOverflow is reported when more topologies exist than grid cells
	ErrLayoutOverflow = errors.New("layout overflow")
	// ErrUnknownFormat is returned for an unsupported wire format name
	ErrUnknownFormat = errors.New("unknown wire format")
	// ErrTopologyNotFound is returned when a named topology is not bound
	ErrTopologyNotFound = errors.New("topology not found")
)

// MalformedError describes where a snapshot failed to parse
type MalformedError struct {
	Line     int // 1-based record number, 0 when not line oriented
	Topology string
	Reason   string
}

func (e *MalformedError) Error() string {
	switch {
	case e.Line > 0 && e.Topology != "":
		return fmt.Sprintf("malformed snapshot: line %d (topology %q): %s", e.Line, e.Topology, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("malformed snapshot: line %d: %s", e.Line, e.Reason)
	case e.Topology != "":
		return fmt.Sprintf("malformed snapshot: topology %q: %s", e.Topology, e.Reason)
	}
	return "malformed snapshot: " + e.Reason
}

// Is lets errors.Is match ErrMalformedSnapshot
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedSnapshot
}

// Malformed builds a MalformedError with a formatted reason
func Malformed(line int, topology, format string, args ...any) error {
	return &MalformedError{
		Line:     line,
		Topology: topology,
		Reason:   fmt.Sprintf(format, args...),
	}
}
