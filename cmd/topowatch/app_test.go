package main

import (
	"context"
	"path/filepath"
	"testing"

	"topowatch/internal/adapter"
	"topowatch/internal/config"
	"topowatch/internal/domain"
	"topowatch/internal/metrics"
	"topowatch/internal/source/sqlite"
)

func TestOverridesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	o := overrides{endpoint: "http://10.0.0.5:8080", format: "json", mode: "single"}

	if err := o.apply(cfg); err != nil {
		t.Fatalf("apply() error: %v", err)
	}
	if cfg.Endpoint.URL != "http://10.0.0.5:8080" {
		t.Errorf("Endpoint.URL = %s", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Format != config.FormatJSON {
		t.Errorf("Endpoint.Format = %s", cfg.Endpoint.Format)
	}
	if cfg.Layout.Mode != config.LayoutSingle {
		t.Errorf("Layout.Mode = %s", cfg.Layout.Mode)
	}
}

func TestOverridesRejectInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := (overrides{endpoint: "::nope"}).apply(cfg); err == nil {
		t.Error("expected validation error for a bad endpoint")
	}
}

func TestNewFetcher(t *testing.T) {
	tests := []struct {
		url  string
		want adapter.AdapterType
	}{
		{"http://127.0.0.1:8080", adapter.AdapterTypeHTTP},
		{"file:///tmp/snapshot.txt", adapter.AdapterTypeFile},
	}

	for _, tt := range tests {
		cfg := config.DefaultConfig()
		cfg.Endpoint.URL = tt.url

		f, err := newFetcher(cfg)
		if err != nil {
			t.Fatalf("newFetcher(%s) error: %v", tt.url, err)
		}
		if f.Type() != tt.want {
			t.Errorf("newFetcher(%s).Type() = %s, want %s", tt.url, f.Type(), tt.want)
		}
	}
}

func TestNewDashboard(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout.Mode = config.LayoutSingle

	dash, err := newDashboard(cfg, metrics.NewRegistry())
	if err != nil {
		t.Fatalf("newDashboard() error: %v", err)
	}
	if dash.Bus() == nil {
		t.Error("dashboard has no event bus")
	}
	if fs := dash.Latest(); len(fs.Frames) != 0 {
		t.Errorf("fresh dashboard has %d frames", len(fs.Frames))
	}
}

func TestPruneTopologies(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "topologies.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error: %v", err)
	}
	defer repo.Close()

	stored := domain.NewSnapshot()
	for _, name := range []string{"lab", "edge", "core"} {
		topo := domain.NewTopology(name)
		topo.PutNode(domain.NewNode(0, domain.Endpoint{Address: "10.0.0.1", Name: name}))
		stored.Put(topo)
	}
	if err := repo.Import(ctx, stored); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	keep := domain.NewSnapshot()
	keep.Put(domain.NewTopology("edge"))

	removed, err := pruneTopologies(ctx, repo, keep)
	if err != nil {
		t.Fatalf("pruneTopologies() error: %v", err)
	}
	if len(removed) != 2 || removed[0] != "lab" || removed[1] != "core" {
		t.Errorf("removed = %v, want [lab core]", removed)
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("expected 1 topology left, got %d", snap.Len())
	}
	if _, ok := snap.Get("edge"); !ok {
		t.Error("expected edge to survive the prune")
	}
}
