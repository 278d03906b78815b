package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arena.Width != 800 || cfg.Arena.Height != 600 {
		t.Fatalf("arena = %dx%d, want 800x600", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Arena.Regular != 10 || cfg.Arena.Monster != 2 || cfg.Arena.Repellent != 3 {
		t.Fatalf("counts = %+v", cfg.Arena)
	}
	if cfg.Loop.TickRate != 400*time.Millisecond {
		t.Fatalf("tick rate = %s, want 400ms", cfg.Loop.TickRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigball.toml")
	body := `
[arena]
width = 320
regular = 4
seed = 99

[loop]
tick_rate = "50ms"
max_ticks = 200

[render]
mode = "none"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arena.Width != 320 || cfg.Arena.Height != 600 {
		t.Fatalf("arena = %dx%d, want 320x600", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Arena.Regular != 4 || cfg.Arena.Monster != 2 || cfg.Arena.Seed != 99 {
		t.Fatalf("arena = %+v", cfg.Arena)
	}
	if cfg.Loop.TickRate != 50*time.Millisecond || cfg.Loop.MaxTicks != 200 {
		t.Fatalf("loop = %+v", cfg.Loop)
	}
	if cfg.Render.Mode != RenderNone || cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("render/logging = %+v %+v", cfg.Render, cfg.Logging)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[arena\nwidth = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Arena.Width = 0 }, "arena size"},
		{"negative height", func(c *Config) { c.Arena.Height = -10 }, "arena size"},
		{"negative count", func(c *Config) { c.Arena.Monster = -1 }, "arena counts"},
		{"negative max ticks", func(c *Config) { c.Loop.MaxTicks = -1 }, "max ticks"},
		{"unknown render", func(c *Config) { c.Render.Mode = "svg" }, "render mode"},
		{"database without dsn", func(c *Config) { c.Database.Enabled = true; c.Database.DSN = "" }, "dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
