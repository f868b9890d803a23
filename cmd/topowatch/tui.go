package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"topowatch/internal/metrics"
	"topowatch/internal/tui"
)

func tuiCmd() *cobra.Command {
	var (
		o       overrides
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the dashboard in the terminal",
		Long: `Poll the topology endpoint and draw the topologies in the terminal.

Drag nodes with the mouse; tab and shift+tab change the selected topology.
Log output goes to a file because the terminal is taken by the display.

  topowatch tui --endpoint http://127.0.0.1:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := o.apply(cfg); err != nil {
				return err
			}

			f, err := tea.LogToFile(logFile, "")
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			log.SetFlags(log.LstdFlags | log.Lshortfile)

			dash, err := newDashboard(cfg, metrics.DefaultRegistry())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loopDone := make(chan error, 1)
			go func() {
				loopDone <- dash.Run(ctx)
			}()

			err = tui.Run(ctx, dash, dash.Bus())
			stop()
			<-loopDone
			return err
		},
	}

	cmd.Flags().StringVar(&o.endpoint, "endpoint", "", "base URL of the topology endpoint")
	cmd.Flags().StringVar(&o.format, "format", "", "wire format: delta, json or auto")
	cmd.Flags().StringVar(&o.mode, "mode", "", "layout mode: grid or single")
	cmd.Flags().StringVar(&logFile, "log", "topowatch-tui.log", "log file")

	return cmd
}
