// Package config loads viewer configuration from a TOML file, with defaults
// applied for every field the file omits.
package config

import (
	"fmt"
	"os"

	"github.com/Irrgh/webgpu-engine/common"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root viewer configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig configures the viewport window.
type WindowConfig struct {
	// Title is the window title.
	Title string `toml:"title"`
	// Width and Height are the initial window size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	// MSAA is the multisample count for anti-aliased overlays (1, 4, or 8).
	MSAA uint32 `toml:"msaa"`
	// VSync selects the vsync present mode; false presents uncapped.
	VSync bool `toml:"vsync"`
	// MinimumAllocation is the minimum GPU buffer allocation in bytes.
	MinimumAllocation uint64 `toml:"minimum_allocation"`
	// PresentSource is the shared texture label blitted to the window
	// ("color", "depth", "objectIndex", "normal").
	PresentSource string `toml:"present_source"`
	// ForceSoftware requests the software fallback adapter.
	ForceSoftware bool `toml:"force_software"`
}

// EngineConfig configures the engine loops.
type EngineConfig struct {
	// TickRate is the scene update rate in ticks per second.
	TickRate float64 `toml:"tick_rate"`
	// FrameLimit caps the render loop in frames per second; 0 = uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	// Profiling enables periodic frame/memory statistics logging.
	Profiling bool `toml:"profiling"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Viewer",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			MSAA:              4,
			VSync:             true,
			MinimumAllocation: 256,
			PresentSource:     "color",
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from the given TOML file, filling omitted
// fields with defaults and normalizing invalid values. A missing file is not
// an error: the defaults are returned.
//
// Parameters:
//   - path: the TOML file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error if the file exists but cannot be read or parsed
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("config: no file found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// Parse decodes a TOML document over the defaults.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: an error if the document cannot be parsed
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyLogLevel sets the global log level from the configuration. Unknown
// levels are ignored with a warning.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		log.Warn("config: unknown log level", "level", c.Log.Level)
		return
	}
	log.SetLevel(level)
}

// normalize clamps out-of-range values back to sane defaults.
func (c *Config) normalize() {
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	c.Window.Title = common.Coalesce(c.Window.Title, "Viewer")

	switch c.Renderer.MSAA {
	case 1, 4, 8:
	default:
		log.Warn("config: unsupported msaa sample count, using 4", "msaa", c.Renderer.MSAA)
		c.Renderer.MSAA = 4
	}
	if c.Renderer.MinimumAllocation == 0 {
		c.Renderer.MinimumAllocation = 256
	}
	c.Renderer.PresentSource = common.Coalesce(c.Renderer.PresentSource, "color")
	c.Log.Level = common.Coalesce(c.Log.Level, "info")

	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = 60
	}
	if c.Engine.FrameLimit < 0 {
		c.Engine.FrameLimit = 0
	}
}
