package main

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"topowatch/internal/config"
)

var version = "0.1.0"

// Banner colors
var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "topowatch",
	Short: "topowatch - live network topology dashboard",
	Long: brand.Sprint("topowatch") + " polls an endpoint for topology snapshots and draws them\n" +
		subtle.Sprint("as interactive force-directed graphs in the browser or the terminal"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetVersionTemplate("topowatch {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search "+config.ConfigFileName+" and XDG paths)")

	rootCmd.AddCommand(
		serveCmd(),
		tuiCmd(),
		sourceCmd(),
		configCmd(),
	)
}

// loadConfig loads the config named by --config or found on the search path
func loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if path == "" {
		log.Println("No config file found, using defaults")
	} else {
		log.Printf("Config loaded: %s", path)
	}
	return cfg, nil
}

func banner(subtitle string) {
	fmt.Printf("%s %s - %s\n", brand.Sprint("topowatch"), subtle.Sprint(version), subtitle)
}
