package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Camera.FovDeg != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FovDeg)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected clip 0.1..100, got %f..%f", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.Orbit.Distance != 3 {
		t.Errorf("expected orbit distance 3, got %f", cfg.Camera.Orbit.Distance)
	}
	if cfg.Camera.Fly.MoveSpeed != 5 {
		t.Errorf("expected fly speed 5, got %f", cfg.Camera.Fly.MoveSpeed)
	}

	if cfg.Lighting.PointEnabled {
		t.Error("expected point light to be disabled by default")
	}
	if cfg.Render.Strategy != "scene" {
		t.Errorf("expected strategy 'scene', got %s", cfg.Render.Strategy)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

camera:
  mode: ortho
  controller: fly
  orbit:
    distance: 7.5

lighting:
  point_enabled: true
  point_intensity: 4
  sun_azimuth: 45
  sun_elevation: 30

assets:
  model: "models/helmet.glb"

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Camera.Mode != "ortho" {
		t.Errorf("expected mode ortho, got %s", cfg.Camera.Mode)
	}
	if cfg.Camera.Controller != "fly" {
		t.Errorf("expected controller fly, got %s", cfg.Camera.Controller)
	}
	if cfg.Camera.Orbit.Distance != 7.5 {
		t.Errorf("expected orbit distance 7.5, got %f", cfg.Camera.Orbit.Distance)
	}
	// Unset nested fields keep their defaults.
	if cfg.Camera.Orbit.MaxDistance != 30 {
		t.Errorf("expected max distance 30 kept, got %f", cfg.Camera.Orbit.MaxDistance)
	}
	if !cfg.Lighting.PointEnabled {
		t.Error("expected point light enabled")
	}
	if cfg.Lighting.SunAzimuth == nil || *cfg.Lighting.SunAzimuth != 45 {
		t.Errorf("expected sun azimuth 45, got %v", cfg.Lighting.SunAzimuth)
	}
	if cfg.Lighting.SunElevation == nil || *cfg.Lighting.SunElevation != 30 {
		t.Errorf("expected sun elevation 30, got %v", cfg.Lighting.SunElevation)
	}
	if cfg.Assets.Model != "models/helmet.glb" {
		t.Errorf("expected model path, got %s", cfg.Assets.Model)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[window]
width = 800
height = 600

[render]
strategy = "direct"
primitive = "quad"
textured = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load toml config: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Render.Strategy != "direct" || cfg.Render.Primitive != "quad" || !cfg.Render.Textured {
		t.Errorf("unexpected render section: %+v", cfg.Render)
	}
	if cfg.Camera.FovDeg != 60 {
		t.Errorf("expected fov default kept, got %f", cfg.Camera.FovDeg)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative samples", func(c *Config) { c.Window.Samples = -1 }},
		{"bad mode", func(c *Config) { c.Camera.Mode = "fisheye" }},
		{"bad controller", func(c *Config) { c.Camera.Controller = "tank" }},
		{"bad strategy", func(c *Config) { c.Render.Strategy = "deferred" }},
		{"inverted clip", func(c *Config) { c.Camera.Near, c.Camera.Far = 10, 1 }},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "pbrview.toml")
	if err := os.WriteFile(configPath, []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find pbrview.toml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { flags.debug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { flags.debug = false },
		},
		{
			name:  "model flag",
			setup: func() { flags.model = "box.glb" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Model != "box.glb" {
					t.Errorf("expected model box.glb, got %s", cfg.Assets.Model)
				}
			},
			teardown: func() { flags.model = "" },
		},
		{
			name:  "controller and ortho flags",
			setup: func() { flags.controller = "fly"; flags.ortho = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.Controller != "fly" {
					t.Errorf("expected controller fly, got %s", cfg.Camera.Controller)
				}
				if cfg.Camera.Mode != "ortho" {
					t.Errorf("expected ortho mode, got %s", cfg.Camera.Mode)
				}
			},
			teardown: func() { flags.controller = ""; flags.ortho = false },
		},
		{
			name:  "direct flag",
			setup: func() { flags.direct = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Strategy != "direct" {
					t.Errorf("expected direct strategy, got %s", cfg.Render.Strategy)
				}
			},
			teardown: func() { flags.direct = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { flags.fullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { flags.fullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { flags.width = 2560; flags.height = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() { flags.width = 0; flags.height = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	flags.config = configPath
	flags.width = 1920
	defer func() {
		flags.config = ""
		flags.width = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"saved.yaml", "saved.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Camera.Controller = "fly"
			cfg.Lighting.PointRadius = 12
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if loaded.Camera.Controller != "fly" {
				t.Errorf("expected controller fly, got %s", loaded.Camera.Controller)
			}
			if loaded.Lighting.PointRadius != 12 {
				t.Errorf("expected radius 12, got %f", loaded.Lighting.PointRadius)
			}
		})
	}
}

func TestRegisterParsesArgs(t *testing.T) {
	var o overrides
	fs := flag.NewFlagSet("pbrview", flag.ContinueOnError)
	o.register(fs)

	args := []string{"-model", "duck.glb", "-width", "640", "-windowed", "-fullscreen", "-direct"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := Default()
	o.apply(cfg)
	if cfg.Assets.Model != "duck.glb" {
		t.Errorf("expected model duck.glb, got %s", cfg.Assets.Model)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 720 {
		t.Errorf("expected 640x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected -fullscreen to win over -windowed")
	}
	if cfg.Render.Strategy != "direct" {
		t.Errorf("expected direct strategy, got %s", cfg.Render.Strategy)
	}
	if cfg.Camera.Controller != "orbit" {
		t.Errorf("expected untouched controller orbit, got %s", cfg.Camera.Controller)
	}
}
