package source

import (
	"context"

	"topowatch/internal/domain"
)

// Repository supplies the topologies the data endpoint serves
type Repository interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Close() error
}

// StaticRepository serves a fixed snapshot
type StaticRepository struct {
	snap *domain.Snapshot
}

// NewStaticRepository wraps a snapshot
func NewStaticRepository(snap *domain.Snapshot) *StaticRepository {
	return &StaticRepository{snap: snap}
}

// Snapshot returns the wrapped snapshot
func (r *StaticRepository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return r.snap, nil
}

// Close is a no-op
func (r *StaticRepository) Close() error {
	return nil
}
