package main

import (
	"fmt"
	"log"
	"strings"

	"topowatch/internal/adapter"
	"topowatch/internal/codec"
	"topowatch/internal/config"
	"topowatch/internal/dashboard"
	"topowatch/internal/drag"
	"topowatch/internal/metrics"
	"topowatch/internal/physics"
	"topowatch/internal/poller"
	"topowatch/internal/store"
)

// overrides holds command line values that take precedence over the config file
type overrides struct {
	endpoint string
	format   string
	mode     string
}

func (o overrides) apply(cfg *config.Config) error {
	if o.endpoint != "" {
		cfg.Endpoint.URL = o.endpoint
	}
	if o.format != "" {
		cfg.Endpoint.Format = config.ParseFormat(o.format)
	}
	if o.mode != "" {
		cfg.Layout.Mode = config.ParseLayoutMode(o.mode)
	}
	return cfg.Validate()
}

// newFetcher picks a fetcher for the endpoint URL. file:// URLs are read
// from disk, which is handy for replaying a captured payload.
func newFetcher(cfg *config.Config) (adapter.Fetcher, error) {
	if path, ok := strings.CutPrefix(cfg.Endpoint.URL, "file://"); ok {
		return adapter.NewFileFetcher(path), nil
	}
	return adapter.NewHTTPFetcher(cfg.Endpoint.URL, cfg.Endpoint.Path, cfg.Endpoint.Timeout.Duration())
}

// newDashboard builds the store, poller and drag controller from the config
// and wires them into a dashboard
func newDashboard(cfg *config.Config, m *metrics.Registry) (*dashboard.Dashboard, error) {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	format, err := codec.ParseFormat(string(cfg.Endpoint.Format))
	if err != nil {
		return nil, err
	}

	simOpts := physics.DefaultOptions()
	simOpts.Charge = cfg.Physics.Charge

	mode := store.ModeGrid
	if cfg.Layout.Mode == config.LayoutSingle {
		mode = store.ModeSingle
	}

	st := store.New(physics.NewFactory(simOpts), store.Options{
		Mode:        mode,
		MaxGridSide: cfg.Layout.MaxGridSide,
		Width:       cfg.Layout.Width,
		Height:      cfg.Layout.Height,
	})

	p := poller.New(fetcher, st, poller.Options{
		Format:    format,
		Reheat:    cfg.Poll.Reheat,
		SizeRetry: cfg.Poll.SizeRetry.Duration(),
		Selective: cfg.Poll.Selective || mode == store.ModeSingle,
	}, m)

	dc := drag.NewController(st, cfg.Drag.AlphaTarget, m)

	log.Printf("Polling %s via %s fetcher", cfg.EndpointURL(), fetcher.Type())

	return dashboard.New(st, p, dc, dashboard.NewEventBus(), dashboard.Options{
		PollInterval: cfg.Poll.Interval.Duration(),
		PhysicsTick:  cfg.Physics.Tick.Duration(),
	}, m), nil
}
