package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"topowatch/internal/codec"
	"topowatch/internal/config"
	"topowatch/internal/domain"
	"topowatch/internal/handler"
	"topowatch/internal/metrics"
	"topowatch/internal/source"
	"topowatch/internal/source/sqlite"
)

func sourceCmd() *cobra.Command {
	var (
		addr     string
		format   string
		fixture  string
		database string
		path     string
	)

	cmd := &cobra.Command{
		Use:   "source",
		Short: "Serve topologies as a data endpoint",
		Long: `Serve topologies from a YAML fixture or a SQLite database at GET /data,
encoded in the delta or JSON wire format. A fixture is reloaded when the
file changes.

  topowatch source --fixture lab.yaml
  topowatch source --db topologies.db --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Source.Addr = addr
			}
			if format != "" {
				cfg.Source.Format = config.ParseFormat(format)
			}
			if fixture != "" {
				cfg.Source.Fixture = fixture
				cfg.Source.Database = ""
			}
			if database != "" {
				cfg.Source.Database = database
				if fixture == "" {
					cfg.Source.Fixture = ""
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			banner("data endpoint")
			return runSource(cfg, path)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, :8080)")
	cmd.Flags().StringVar(&format, "format", "", "wire format: delta or json")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture file")
	cmd.Flags().StringVar(&database, "db", "", "SQLite database file")
	cmd.Flags().StringVar(&path, "path", source.DefaultPath, "path the snapshot is served at")
	cmd.MarkFlagsMutuallyExclusive("fixture", "db")

	cmd.AddCommand(importCmd())

	return cmd
}

func openRepository(ctx context.Context, cfg *config.Config, m *metrics.Registry) (source.Repository, error) {
	switch {
	case cfg.Source.Fixture != "":
		repo, err := source.NewFixtureRepository(cfg.Source.Fixture, m)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := repo.Watch(ctx, cfg.Source.Debounce.Duration()); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Fixture watcher stopped: %v", err)
			}
		}()
		return repo, nil

	case cfg.Source.Database != "":
		repo, err := sqlite.New(cfg.Source.Database)
		if err != nil {
			return nil, err
		}
		log.Printf("Database opened: %s", cfg.Source.Database)
		return repo, nil
	}

	return nil, errors.New("no topology source: set --fixture or --db (or source.fixture / source.database)")
}

func runSource(cfg *config.Config, path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.DefaultRegistry()

	repo, err := openRepository(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer repo.Close()

	srv, err := source.NewServer(repo, codec.Format(cfg.Source.Format), path, m)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("/", srv)

	server := &http.Server{
		Addr:         cfg.Source.Addr,
		Handler:      handler.Chain(mux, handler.Recover, handler.Logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Serving %s snapshots at %s%s", srv.Format(), cfg.Source.Addr, path)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return err
	}

	log.Println("Shutting down data endpoint...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	return nil
}

func importCmd() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "import <fixture.yaml> <database.db>",
		Short: "Load a YAML fixture into a SQLite database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := source.NewFixtureRepository(args[0], metrics.NewRegistry())
			if err != nil {
				return err
			}
			snap, err := fixture.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			repo, err := sqlite.New(args[1])
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Import(cmd.Context(), snap); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Printf("Imported %d topologies into %s\n", snap.Len(), args[1])

			if prune {
				removed, err := pruneTopologies(cmd.Context(), repo, snap)
				if err != nil {
					return fmt.Errorf("prune: %w", err)
				}
				for _, name := range removed {
					fmt.Printf("Removed topology %s\n", name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "remove topologies that are not in the fixture")
	return cmd
}

// pruneTopologies deletes every stored topology that keep does not name
func pruneTopologies(ctx context.Context, repo *sqlite.Repository, keep *domain.Snapshot) ([]string, error) {
	stored, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range stored.Order {
		if _, ok := keep.Get(name); ok {
			continue
		}
		if err := repo.DeleteTopology(ctx, name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}
