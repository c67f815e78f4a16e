package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user config directory and the local config files.
const AppName = "pbrview"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Load builds the effective configuration: defaults, then the config file
// if one is found, then command-line flags.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing candidate: the working
// directory wins over the user config directory, YAML over TOML.
func findConfigFile() string {
	dir := ConfigDir()
	for _, path := range []string{
		AppName + ".yaml",
		AppName + ".toml",
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.toml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for the viewer. It falls
// back to ~/.config when the platform reports none.
func ConfigDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, AppName)
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", AppName)
}

// codec pairs the encoder and decoder chosen by file extension.
type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

// codecFor picks TOML for .toml files and YAML for anything else.
func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return codec{marshal: toml.Marshal, unmarshal: toml.Unmarshal}
	}
	return codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
}

// loadFromFile decodes path over cfg. Keys absent from the file keep their
// current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return codecFor(path).unmarshal(data, cfg)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.Samples < 0 {
		return fmt.Errorf("%w: window samples %d", ErrInvalid, c.Window.Samples)
	}
	if !oneOf(c.Camera.Mode, "perspective", "ortho") {
		return fmt.Errorf("%w: camera mode %q", ErrInvalid, c.Camera.Mode)
	}
	if !oneOf(c.Camera.Controller, "orbit", "fly") {
		return fmt.Errorf("%w: camera controller %q", ErrInvalid, c.Camera.Controller)
	}
	if !oneOf(c.Render.Strategy, "scene", "direct") {
		return fmt.Errorf("%w: render strategy %q", ErrInvalid, c.Render.Strategy)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: clip range near=%v far=%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
