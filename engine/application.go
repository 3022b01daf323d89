package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/math"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting size in screen coordinates.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// Directory holding the compiled SPIR-V shaders.
	ShaderDir string `toml:"shader_dir"`
	// Directory holding the game assets. Empty disables the asset manager.
	AssetDir string `toml:"asset_dir"`
	// Bitmap font for text grids, relative to AssetDir.
	Font          string     `toml:"font"`
	ClearColor    [4]float32 `toml:"clear_color"`
	GamepadPollMS int        `toml:"gamepad_poll_ms"`
	VSync         bool       `toml:"vsync"`
	// Enables the Vulkan validation layers.
	Validation bool `toml:"validation"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	c := renderer.DefaultClearColor
	return &ApplicationConfig{
		Name:          "Tinta",
		Width:         1280,
		Height:        720,
		LogLevel:      "info",
		ShaderDir:     "shaders",
		AssetDir:      "assets",
		Font:          "fonts/default.fnt",
		ClearColor:    [4]float32{c.R, c.G, c.B, c.A},
		GamepadPollMS: 22,
		VSync:         true,
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults. A missing
// file yields the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("no config at %s, using defaults", path)
			return cfg, nil
		}
		return nil, &core.ConfigurationError{Reason: "read " + path, Err: err}
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &core.ConfigurationError{Reason: "parse " + path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return &core.ConfigurationError{Reason: fmt.Sprintf("window size %dx%d", c.Width, c.Height)}
	}
	if c.GamepadPollMS <= 0 {
		return &core.ConfigurationError{Reason: fmt.Sprintf("gamepad_poll_ms must be positive, got %d", c.GamepadPollMS)}
	}
	for _, v := range c.ClearColor {
		if math.Clamp(v, 0, 1) != v {
			return &core.ConfigurationError{Reason: fmt.Sprintf("clear_color %v outside [0, 1]", c.ClearColor)}
		}
	}
	return nil
}

func (c *ApplicationConfig) clearColor() renderer.Color {
	return renderer.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

func (c *ApplicationConfig) gamepadPollInterval() time.Duration {
	return time.Duration(c.GamepadPollMS) * time.Millisecond
}
