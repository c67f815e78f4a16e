package config

import "flag"

// overrides holds command-line values. Zero values mean "not given" and
// leave the loaded config alone.
type overrides struct {
	config     string
	debug      bool
	model      string
	texture    string
	controller string
	ortho      bool
	direct     bool
	exportDir  string
	windowed   bool
	fullscreen bool
	width      int
	height     int
}

var flags overrides

func init() {
	flags.register(flag.CommandLine)
}

func (o *overrides) register(fs *flag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&o.model, "model", "", "glTF/GLB model to load")
	fs.StringVar(&o.texture, "texture", "", "Texture for the direct draw path")
	fs.StringVar(&o.controller, "controller", "", "Camera controller: orbit or fly")
	fs.BoolVar(&o.ortho, "ortho", false, "Start with an orthographic projection")
	fs.BoolVar(&o.direct, "direct", false, "Start on the direct draw path")
	fs.StringVar(&o.exportDir, "export-dir", "", "Directory for OBJ export")
	fs.BoolVar(&o.windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&o.fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&o.width, "width", 0, "Window width")
	fs.IntVar(&o.height, "height", 0, "Window height")
}

// ParseFlags parses command-line flags. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the path given with -config, if any.
func ConfigPath() string {
	return flags.config
}

func applyFlags(cfg *Config) {
	flags.apply(cfg)
}

func (o *overrides) apply(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	if o.debug {
		cfg.Logging.Level = "debug"
	}
	setString(&cfg.Assets.Model, o.model)
	setString(&cfg.Assets.Texture, o.texture)
	setString(&cfg.Assets.ExportDir, o.exportDir)
	setString(&cfg.Camera.Controller, o.controller)
	if o.ortho {
		cfg.Camera.Mode = "ortho"
	}
	if o.direct {
		cfg.Render.Strategy = "direct"
	}
	// -fullscreen wins when both are given.
	if o.windowed {
		cfg.Window.Fullscreen = false
	}
	if o.fullscreen {
		cfg.Window.Fullscreen = true
	}
	setInt(&cfg.Window.Width, o.width)
	setInt(&cfg.Window.Height, o.height)
}
