package adapter

import (
	"context"
	"fmt"
	"os"

	"topowatch/internal/domain"
)

// FileFetcher reads a snapshot from a local file on every fetch
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for path
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Name returns the file path
func (f *FileFetcher) Name() string {
	return f.path
}

// Type returns AdapterTypeFile
func (f *FileFetcher) Type() AdapterType {
	return AdapterTypeFile
}

// Fetch reads the whole file
func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	return data, nil
}
