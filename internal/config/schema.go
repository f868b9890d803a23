package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Endpoint EndpointConfig `yaml:"endpoint"`
	Poll     PollConfig     `yaml:"poll"`
	Layout   LayoutConfig   `yaml:"layout"`
	Drag     DragConfig     `yaml:"drag"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Server   ServerConfig   `yaml:"server"`
	Source   SourceConfig   `yaml:"source"`
}

// EndpointConfig locates the snapshot endpoint the dashboard polls
type EndpointConfig struct {
	URL     string   `yaml:"url" validate:"required,url"`
	Path    string   `yaml:"path"`
	Format  Format   `yaml:"format" validate:"oneof=delta json auto"`
	Timeout Duration `yaml:"timeout" validate:"gt=0"`
}

// PollConfig controls the polling cadence
type PollConfig struct {
	Interval  Duration `yaml:"interval" validate:"gt=0"`
	SizeRetry Duration `yaml:"size_retry" validate:"gt=0"`
	Reheat    float64  `yaml:"reheat" validate:"gte=0,lte=1"`
	Selective bool     `yaml:"selective"`
}

// LayoutConfig controls how topologies share the surface
type LayoutConfig struct {
	Mode        LayoutMode `yaml:"mode" validate:"oneof=grid single"`
	MaxGridSide int        `yaml:"max_grid_side" validate:"gte=1"`
	Width       float64    `yaml:"width" validate:"gte=0"`  // 0 = not yet measured
	Height      float64    `yaml:"height" validate:"gte=0"` // 0 = not yet measured
}

// DragConfig holds pointer interaction settings
type DragConfig struct {
	AlphaTarget float64 `yaml:"alpha_target" validate:"gt=0,lte=1"`
}

// PhysicsConfig holds integrator settings
type PhysicsConfig struct {
	Tick   Duration `yaml:"tick" validate:"gt=0"`
	Charge float64  `yaml:"charge" validate:"lt=0"`
}

// ServerConfig holds the dashboard HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// SourceConfig holds the reference data endpoint settings
type SourceConfig struct {
	Addr     string   `yaml:"addr" validate:"required"`
	Format   Format   `yaml:"format" validate:"oneof=delta json"`
	Fixture  string   `yaml:"fixture,omitempty" validate:"excluded_with=Database"`
	Database string   `yaml:"database,omitempty"`
	Debounce Duration `yaml:"debounce" validate:"gte=0"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
