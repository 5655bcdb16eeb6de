// Package config loads and validates the viewer configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the top-level viewer configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Stars    StarsConfig    `toml:"stars"`
	Camera   CameraConfig   `toml:"camera"`
	Bloom    BloomConfig    `toml:"bloom"`
	Engine   EngineConfig   `toml:"engine"`
	Controls ControlsConfig `toml:"controls"`
}

// WindowConfig sizes and titles the window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// StarsConfig describes the generated star field.
type StarsConfig struct {
	Count int        `toml:"count"`
	Seed  int64      `toml:"seed"`
	Size  float32    `toml:"size"`
	Min   [3]float32 `toml:"min"`
	Max   [3]float32 `toml:"max"`
}

// CameraConfig holds the initial camera and picking setup.
type CameraConfig struct {
	Fov            float32    `toml:"fov"`
	Near           float32    `toml:"near"`
	Far            float32    `toml:"far"`
	Position       [3]float32 `toml:"position"`
	PointThreshold float32    `toml:"point_threshold"`
}

// BloomConfig holds the initial bloom parameters.
type BloomConfig struct {
	Exposure  float32 `toml:"exposure"`
	Strength  float32 `toml:"strength"`
	Threshold float32 `toml:"threshold"`
	Radius    float32 `toml:"radius"`
}

// EngineConfig controls the loops and diagnostics.
type EngineConfig struct {
	TickRate     int    `toml:"tick_rate"` // hover picks per second
	FrameLimit   int    `toml:"frame_limit"`
	Profile      bool   `toml:"profile"`
	PickWorkers  int    `toml:"pick_workers"`
	PickChunk    int    `toml:"pick_chunk"`
	ParamsFile   string `toml:"params_file"`
	WatchParams  bool   `toml:"watch_params"`
	ReloadMillis int    `toml:"reload_millis"`
}

// ControlsConfig tunes the mouse camera controls.
type ControlsConfig struct {
	ZoomPower       float32 `toml:"zoom_power"`
	TranslatePower  float32 `toml:"translate_power"`
	WheelDecayMs    int     `toml:"wheel_decay_ms"`
	WheelScale      float32 `toml:"wheel_scale"`
	PanNormalize    string  `toml:"pan_normalize"`
	PanDepthScaling bool    `toml:"pan_depth_scaling"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-stars",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Stars: StarsConfig{
			Count: 100,
			Seed:  1,
			Size:  1,
			Min:   [3]float32{-5, -2, -50},
			Max:   [3]float32{5, 2, 50},
		},
		Camera: CameraConfig{
			Fov:            50,
			Near:           0.1,
			Far:            1000,
			Position:       [3]float32{0, 0, 5},
			PointThreshold: 0.1,
		},
		Bloom: BloomConfig{
			Exposure:  1,
			Strength:  2,
			Threshold: 0.5,
			Radius:    1,
		},
		Engine: EngineConfig{
			TickRate:     60,
			FrameLimit:   0,
			PickWorkers:  4,
			PickChunk:    4096,
			WatchParams:  true,
			ReloadMillis: 200,
		},
		Controls: ControlsConfig{
			ZoomPower:      10,
			TranslatePower: 20,
			WheelDecayMs:   100,
			WheelScale:     100,
			PanNormalize:   "width",
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file keep their default.
//
// Parameters:
//   - path: path to the TOML file
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: read, decode, or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode unmarshals TOML data into cfg, leaving unspecified keys untouched.
//
// Parameters:
//   - data: TOML document
//   - cfg: destination, usually pre-filled with Default()
//
// Returns:
//   - error: decode error
func Decode(data []byte, cfg *Config) error {
	return toml.Unmarshal(data, cfg)
}

// Encode marshals cfg as TOML.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - []byte: TOML document
//   - error: encode error
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks value ranges. Every failure wraps ErrInvalid.
//
// Returns:
//   - error: the first violation found, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Stars.Count < 0:
		return invalid("stars.count %d must not be negative", c.Stars.Count)
	case c.Stars.Size <= 0:
		return invalid("stars.size %v must be positive", c.Stars.Size)
	case c.Stars.Min[0] > c.Stars.Max[0] || c.Stars.Min[1] > c.Stars.Max[1] || c.Stars.Min[2] > c.Stars.Max[2]:
		return invalid("stars.min %v exceeds stars.max %v", c.Stars.Min, c.Stars.Max)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return invalid("camera.fov %v must be in (0, 180)", c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return invalid("camera near/far %v/%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	case c.Camera.Position[2] < 0:
		return invalid("camera.position z %v must not be negative", c.Camera.Position[2])
	case c.Camera.PointThreshold < 0:
		return invalid("camera.point_threshold %v must not be negative", c.Camera.PointThreshold)
	case c.Engine.TickRate <= 0:
		return invalid("engine.tick_rate %d must be positive", c.Engine.TickRate)
	case c.Engine.FrameLimit < 0:
		return invalid("engine.frame_limit %d must not be negative", c.Engine.FrameLimit)
	case c.Engine.PickWorkers <= 0 || c.Engine.PickChunk <= 0:
		return invalid("engine.pick_workers and engine.pick_chunk must be positive")
	case c.Controls.WheelDecayMs <= 0:
		return invalid("controls.wheel_decay_ms %d must be positive", c.Controls.WheelDecayMs)
	case c.Controls.PanNormalize != "width" && c.Controls.PanNormalize != "height":
		return invalid("controls.pan_normalize %q must be \"width\" or \"height\"", c.Controls.PanNormalize)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
