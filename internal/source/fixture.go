package source

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"topowatch/internal/codec"
	"topowatch/internal/domain"
	"topowatch/internal/metrics"
)

// FixtureRepository serves topologies from a YAML fixture file. The file is
// read once on creation and again whenever Reload is called; a fixture that
// fails to parse leaves the previous content in place.
type FixtureRepository struct {
	path    string
	codec   *codec.YAMLCodec
	metrics *metrics.Registry

	mu   sync.RWMutex
	snap *domain.Snapshot
}

// NewFixtureRepository loads a fixture file
func NewFixtureRepository(path string, m *metrics.Registry) (*FixtureRepository, error) {
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	r := &FixtureRepository{
		path:    path,
		codec:   codec.NewYAMLCodec(),
		metrics: m,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the fixture file path
func (r *FixtureRepository) Path() string {
	return r.path
}

// Reload re-reads the fixture file
func (r *FixtureRepository) Reload() error {
	snap, err := r.load()
	r.metrics.RecordReload(err)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()

	log.Printf("Loaded fixture %s: %d topologies", r.path, snap.Len())
	return nil
}

func (r *FixtureRepository) load() (*domain.Snapshot, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	snap, err := r.codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", r.path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("validate fixture %s: %w", r.path, err)
	}
	return snap, nil
}

// Snapshot returns the last successfully loaded fixture
func (r *FixtureRepository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap, nil
}

// Watch reloads the fixture whenever the file changes, until ctx is done
func (r *FixtureRepository) Watch(ctx context.Context, debounce time.Duration) error {
	w := NewWatcher(r.path, func() {
		if err := r.Reload(); err != nil {
			log.Printf("Failed to reload fixture: %v", err)
		}
	}).WithDebounce(debounce)
	return w.Watch(ctx)
}

// Close is a no-op
func (r *FixtureRepository) Close() error {
	return nil
}
