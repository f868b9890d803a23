package adapter

import (
	"context"
)

// AdapterType describes where an adapter reads snapshots from
type AdapterType string

const (
	// AdapterTypeHTTP polls the data endpoint over HTTP
	AdapterTypeHTTP AdapterType = "http"
	// AdapterTypeFile reads a snapshot file from disk
	AdapterTypeFile AdapterType = "file"
)

// Fetcher defines the interface for snapshot sources
type Fetcher interface {
	// Name returns a human readable identifier for the source
	Name() string

	// Type returns how this adapter reaches its source
	Type() AdapterType

	// Fetch returns the raw payload of the current snapshot. Failures wrap
	// domain.ErrFetchFailure.
	Fetch(ctx context.Context) ([]byte, error)
}
