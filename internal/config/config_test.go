package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLayoutMode(t *testing.T) {
	tests := []struct {
		input string
		want  LayoutMode
	}{
		{"grid", LayoutGrid},
		{"single", LayoutSingle},
		{"invalid", LayoutGrid}, // Default
		{"", LayoutGrid},        // Default
	}

	for _, tt := range tests {
		if got := ParseLayoutMode(tt.input); got != tt.want {
			t.Errorf("ParseLayoutMode(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"delta", FormatDelta},
		{"json", FormatJSON},
		{"auto", FormatAuto},
		{"xml", FormatAuto},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Poll.Interval.Duration() != time.Second {
		t.Errorf("Poll.Interval = %s, want 1s", cfg.Poll.Interval.Duration())
	}
	if cfg.Poll.Reheat != 0.5 {
		t.Errorf("Poll.Reheat = %g, want 0.5", cfg.Poll.Reheat)
	}
	if cfg.Layout.MaxGridSide != 5 {
		t.Errorf("Layout.MaxGridSide = %d, want 5", cfg.Layout.MaxGridSide)
	}
	if cfg.Layout.Width != 0 || cfg.Layout.Height != 0 {
		t.Error("surface size should start unmeasured")
	}
	if cfg.Drag.AlphaTarget != 0.3 {
		t.Errorf("Drag.AlphaTarget = %g, want 0.3", cfg.Drag.AlphaTarget)
	}
	if cfg.Endpoint.Format != FormatAuto {
		t.Errorf("Endpoint.Format = %s, want auto", cfg.Endpoint.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		url, path, want string
	}{
		{"http://127.0.0.1:8080", "data", "http://127.0.0.1:8080/data"},
		{"http://127.0.0.1:8080/", "/data", "http://127.0.0.1:8080/data"},
		{"http://host/api", "snapshot", "http://host/api/snapshot"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Endpoint.URL = tt.url
		cfg.Endpoint.Path = tt.path
		if got := cfg.EndpointURL(); got != tt.want {
			t.Errorf("EndpointURL(%q, %q) = %s, want %s", tt.url, tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad format", func(c *Config) { c.Endpoint.Format = "xml" }, "Format"},
		{"bad url", func(c *Config) { c.Endpoint.URL = "not a url" }, "URL"},
		{"bad mode", func(c *Config) { c.Layout.Mode = "stack" }, "Mode"},
		{"negative width", func(c *Config) { c.Layout.Width = -1 }, "Width"},
		{"reheat above one", func(c *Config) { c.Poll.Reheat = 2 }, "Reheat"},
		{"repulsive charge", func(c *Config) { c.Physics.Charge = 10 }, "Charge"},
		{"two sources", func(c *Config) {
			c.Source.Fixture = "lab.yaml"
			c.Source.Database = "lab.db"
		}, "Fixture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Endpoint.Format = FormatJSON
	cfg.Layout.Mode = LayoutSingle
	cfg.Poll.Interval = Duration(250 * time.Millisecond)
	cfg.Source.Fixture = "lab.yaml"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Endpoint.Format != FormatJSON {
		t.Errorf("Endpoint.Format = %s, want json", loaded.Endpoint.Format)
	}
	if loaded.Layout.Mode != LayoutSingle {
		t.Errorf("Layout.Mode = %s, want single", loaded.Layout.Mode)
	}
	if loaded.Poll.Interval.Duration() != 250*time.Millisecond {
		t.Errorf("Poll.Interval = %s, want 250ms", loaded.Poll.Interval.Duration())
	}
	if loaded.Source.Fixture != "lab.yaml" {
		t.Errorf("Source.Fixture = %q, want lab.yaml", loaded.Source.Fixture)
	}
}

func TestLoadPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := "endpoint:\n  url: http://example.test:9000\npoll:\n  interval: 2s\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.EndpointURL() != "http://example.test:9000/data" {
		t.Errorf("EndpointURL() = %s", cfg.EndpointURL())
	}
	if cfg.Poll.Interval.Duration() != 2*time.Second {
		t.Errorf("Poll.Interval = %s, want 2s", cfg.Poll.Interval.Duration())
	}
	// Unset keys get defaults
	if cfg.Physics.Tick.Duration() != DefaultPhysicsTick {
		t.Errorf("Physics.Tick = %s, want %s", cfg.Physics.Tick.Duration(), DefaultPhysicsTick)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.yaml")
		os.WriteFile(path, []byte("poll: [\n"), 0644)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(tmpDir, "duration.yaml")
		os.WriteFile(path, []byte("poll:\n  interval: soon\n"), 0644)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected duration error")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(tmpDir, "invalid.yaml")
		os.WriteFile(path, []byte("layout:\n  mode: stack\n"), 0644)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvEndpointURL, "http://override.test:1234")
	t.Setenv(EnvServerAddr, ":4000")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Endpoint.URL != "http://override.test:1234" {
		t.Errorf("Endpoint.URL = %s", cfg.Endpoint.URL)
	}
	if cfg.Server.Addr != ":4000" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Set working directory to temp
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	// Should find config in working directory
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path wins when it exists
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
