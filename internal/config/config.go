// Package config provides configuration management for topowatch.
//
// Config file locations (priority order):
//  1. $TOPOWATCH_CONFIG
//  2. ./topowatch.yaml
//  3. $XDG_CONFIG_HOME/topowatch/config.yaml
//  4. ~/.config/topowatch/config.yaml
//  5. /etc/topowatch/config.yaml
//
// A few keys can also be overridden from the environment, see applyEnv.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultEndpointURL   = "http://127.0.0.1:8080"
	DefaultEndpointPath  = "data"
	DefaultTimeout       = 5 * time.Second
	DefaultPollInterval  = time.Second
	DefaultSizeRetry     = 100 * time.Millisecond
	DefaultReheat        = 0.5
	DefaultMaxGridSide   = 5
	DefaultAlphaTarget   = 0.3
	DefaultPhysicsTick   = 16 * time.Millisecond
	DefaultCharge        = -2000
	DefaultServerAddr    = ":3000"
	DefaultSourceAddr    = ":8080"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Environment overrides
const (
	EnvEndpointURL = "TOPOWATCH_ENDPOINT_URL"
	EnvServerAddr  = "TOPOWATCH_SERVER_ADDR"
	EnvSourceAddr  = "TOPOWATCH_SOURCE_ADDR"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Endpoint.URL == "" {
		c.Endpoint.URL = DefaultEndpointURL
	}
	if c.Endpoint.Path == "" {
		c.Endpoint.Path = DefaultEndpointPath
	}
	if c.Endpoint.Format == "" {
		c.Endpoint.Format = FormatAuto
	}
	if c.Endpoint.Timeout == 0 {
		c.Endpoint.Timeout = Duration(DefaultTimeout)
	}

	if c.Poll.Interval == 0 {
		c.Poll.Interval = Duration(DefaultPollInterval)
	}
	if c.Poll.SizeRetry == 0 {
		c.Poll.SizeRetry = Duration(DefaultSizeRetry)
	}
	if c.Poll.Reheat == 0 {
		c.Poll.Reheat = DefaultReheat
	}

	if c.Layout.Mode == "" {
		c.Layout.Mode = LayoutGrid
	}
	if c.Layout.MaxGridSide == 0 {
		c.Layout.MaxGridSide = DefaultMaxGridSide
	}

	if c.Drag.AlphaTarget == 0 {
		c.Drag.AlphaTarget = DefaultAlphaTarget
	}

	if c.Physics.Tick == 0 {
		c.Physics.Tick = Duration(DefaultPhysicsTick)
	}
	if c.Physics.Charge == 0 {
		c.Physics.Charge = DefaultCharge
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	if c.Source.Addr == "" {
		c.Source.Addr = DefaultSourceAddr
	}
	if c.Source.Format == "" {
		c.Source.Format = FormatDelta
	}
	if c.Source.Debounce == 0 {
		c.Source.Debounce = Duration(DefaultWatchDebounce)
	}
}

// applyEnv lets the environment override addresses, which is what
// containers usually need to change
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndpointURL); v != "" {
		c.Endpoint.URL = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvSourceAddr); v != "" {
		c.Source.Addr = v
	}
}

// Validate checks the config against its field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var problems []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
	}
	return nil
}

// EndpointURL returns the full URL polled for snapshots
func (c *Config) EndpointURL() string {
	return strings.TrimSuffix(c.Endpoint.URL, "/") + "/" + strings.TrimPrefix(c.Endpoint.Path, "/")
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Endpoint: %s (format %s, every %s)\n",
		c.EndpointURL(), c.Endpoint.Format, c.Poll.Interval.Duration())
	summary += fmt.Sprintf("Layout: %s, max grid %dx%d\n",
		c.Layout.Mode, c.Layout.MaxGridSide, c.Layout.MaxGridSide)
	summary += fmt.Sprintf("Physics: tick %s, charge %g, drag alpha %g",
		c.Physics.Tick.Duration(), c.Physics.Charge, c.Drag.AlphaTarget)

	return summary
}
