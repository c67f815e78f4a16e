// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Lighting LightingConfig `yaml:"lighting" toml:"lighting"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Samples    int    `yaml:"samples" toml:"samples"`
}

// CameraConfig holds projection and controller settings.
type CameraConfig struct {
	Mode       string      `yaml:"mode" toml:"mode"`             // "perspective" or "ortho"
	Controller string      `yaml:"controller" toml:"controller"` // "orbit" or "fly"
	FovDeg     float32     `yaml:"fov_deg" toml:"fov_deg"`
	Near       float32     `yaml:"near" toml:"near"`
	Far        float32     `yaml:"far" toml:"far"`
	Orbit      OrbitConfig `yaml:"orbit" toml:"orbit"`
	Fly        FlyConfig   `yaml:"fly" toml:"fly"`
}

// OrbitConfig holds orbit controller tunables.
type OrbitConfig struct {
	Distance      float32    `yaml:"distance" toml:"distance"`
	MinDistance   float32    `yaml:"min_distance" toml:"min_distance"`
	MaxDistance   float32    `yaml:"max_distance" toml:"max_distance"`
	MinPitchDeg   float32    `yaml:"min_pitch_deg" toml:"min_pitch_deg"`
	MaxPitchDeg   float32    `yaml:"max_pitch_deg" toml:"max_pitch_deg"`
	RotateSpeed   float32    `yaml:"rotate_speed" toml:"rotate_speed"`
	PixelToDegree float32    `yaml:"pixel_to_degree" toml:"pixel_to_degree"`
	ZoomSpeed     float32    `yaml:"zoom_speed" toml:"zoom_speed"`
	Target        [3]float32 `yaml:"target" toml:"target"`
}

// FlyConfig holds free-fly controller tunables.
type FlyConfig struct {
	MoveSpeed  float32    `yaml:"move_speed" toml:"move_speed"`
	SprintMul  float32    `yaml:"sprint_mul" toml:"sprint_mul"`
	MouseSens  float32    `yaml:"mouse_sens" toml:"mouse_sens"`
	PitchLimit float32    `yaml:"pitch_limit" toml:"pitch_limit"` // radians
	Start      [3]float32 `yaml:"start" toml:"start"`
}

// LightingConfig holds the initial lighting state.
type LightingConfig struct {
	SunDirection [3]float32 `yaml:"sun_direction" toml:"sun_direction"`
	// SunAzimuth and SunElevation, in degrees, replace SunDirection when
	// both are set.
	SunAzimuth     *float32   `yaml:"sun_azimuth,omitempty" toml:"sun_azimuth,omitempty"`
	SunElevation   *float32   `yaml:"sun_elevation,omitempty" toml:"sun_elevation,omitempty"`
	Ambient        float32    `yaml:"ambient" toml:"ambient"`
	PointEnabled   bool       `yaml:"point_enabled" toml:"point_enabled"`
	PointPosition  [3]float32 `yaml:"point_position" toml:"point_position"`
	PointRadius    float32    `yaml:"point_radius" toml:"point_radius"`
	PointColor     [3]float32 `yaml:"point_color" toml:"point_color"`
	PointIntensity float32    `yaml:"point_intensity" toml:"point_intensity"`
	Exposure       float32    `yaml:"exposure" toml:"exposure"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color" toml:"clear_color"`
	Strategy   string     `yaml:"strategy" toml:"strategy"`   // "scene" or "direct"
	Primitive  string     `yaml:"primitive" toml:"primitive"` // direct path: "triangle" or "quad"
	Textured   bool       `yaml:"textured" toml:"textured"`
}

// AssetsConfig holds model and export paths.
type AssetsConfig struct {
	Model     string `yaml:"model" toml:"model"`
	Texture   string `yaml:"texture" toml:"texture"`
	ExportDir string `yaml:"export_dir" toml:"export_dir"`
	MTLName   string `yaml:"mtl_name" toml:"mtl_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "pbrview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
		},
		Camera: CameraConfig{
			Mode:       "perspective",
			Controller: "orbit",
			FovDeg:     60,
			Near:       0.1,
			Far:        100,
			Orbit: OrbitConfig{
				Distance:      3,
				MinDistance:   0.5,
				MaxDistance:   30,
				MinPitchDeg:   -85,
				MaxPitchDeg:   85,
				RotateSpeed:   1,
				PixelToDegree: 0.01,
				ZoomSpeed:     0.1,
			},
			Fly: FlyConfig{
				MoveSpeed:  5,
				SprintMul:  2.5,
				MouseSens:  0.0025,
				PitchLimit: 1.55,
				Start:      [3]float32{0, 1.6, 3},
			},
		},
		Lighting: LightingConfig{
			SunDirection:   [3]float32{-0.5, -1, -0.3},
			Ambient:        0.15,
			PointEnabled:   false,
			PointPosition:  [3]float32{2, 2, 2},
			PointRadius:    5,
			PointColor:     [3]float32{1, 1, 1},
			PointIntensity: 3,
			Exposure:       1,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.188, 0.188, 0.188, 1},
			Strategy:   "scene",
			Primitive:  "triangle",
			Textured:   false,
		},
		Assets: AssetsConfig{
			Model:     "",
			ExportDir: "export",
			MTLName:   "scene.mtl",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
