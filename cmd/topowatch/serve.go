package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"topowatch/internal/dashboard"
	"topowatch/internal/handler"
	"topowatch/internal/hub"
	"topowatch/internal/metrics"
)

func serveCmd() *cobra.Command {
	var (
		addr string
		o    overrides
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Long: `Poll the topology endpoint and serve the dashboard to browsers.

Frames are streamed over Server-Sent Events at /events; pointer, resize and
selection input arrives over the websocket at /ws/input.

  topowatch serve
  topowatch serve --endpoint http://10.0.0.5:8080 --mode single`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := o.apply(cfg); err != nil {
				return err
			}

			banner("dashboard server")
			return serve(cfg.Server.Addr, func(m *metrics.Registry) (*dashboard.Dashboard, error) {
				return newDashboard(cfg, m)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config, :3000)")
	cmd.Flags().StringVar(&o.endpoint, "endpoint", "", "base URL of the topology endpoint")
	cmd.Flags().StringVar(&o.format, "format", "", "wire format: delta, json or auto")
	cmd.Flags().StringVar(&o.mode, "mode", "", "layout mode: grid or single")

	return cmd
}

func serve(addr string, build func(m *metrics.Registry) (*dashboard.Dashboard, error)) error {
	log.Println("Starting topowatch server...")

	m := metrics.DefaultRegistry()
	dash, err := build(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize SSE hub
	sseHub := hub.New(m)
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan dashboard.Event, 100)
	dash.Bus().Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- dash.Run(ctx)
	}()

	// Initialize HTTP handlers
	dashHandler := handler.NewDashboardHandler(dash)
	inputServer := hub.NewInputServer(dash, m)

	static, err := handler.Static()
	if err != nil {
		return err
	}

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/frames", dashHandler.GetFrames)
	mux.HandleFunc("GET /api/topologies", dashHandler.ListTopologies)
	mux.HandleFunc("POST /api/selection", dashHandler.SetSelection)
	mux.HandleFunc("POST /api/viewport", dashHandler.SetViewport)
	mux.HandleFunc("GET /api/health", dashHandler.Health)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /ws/input", inputServer)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("/", static)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
		handler.Metrics(m),
	)

	// Streams are long lived, so no write timeout
	server := &http.Server{
		Addr:        addr,
		Handler:     finalHandler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		cancel()
		return err
	case err := <-loopDone:
		log.Printf("Dashboard loop exited: %v", err)
	}

	log.Println("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
