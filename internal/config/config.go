// Package config defines the run configuration: which script to execute,
// how to connect it to the renderer, and how the surface is shaped.
// Configuration is a TOML document, loaded once at startup.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pixelbus/pixelbus/internal/interpolation"
)

// Version is the config schema version this build reads.
const Version = "v1"

// Config is the root of a run configuration.
type Config struct {
	Version string        `toml:"version"`
	Script  ScriptConfig  `toml:"script"`
	Channel ChannelConfig `toml:"channel"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Logging LogConfig     `toml:"logging"`
	Assets  []AssetEntry  `toml:"assets"`
}

// ScriptConfig locates the guest script.
type ScriptConfig struct {
	// Path is the script source file, required. Supports ${VAR} expansion.
	Path string `toml:"path" env_interpolation:"yes"`
}

// ChannelConfig selects the transport between main and script threads.
type ChannelConfig struct {
	// Mode is "shared-memory", "message-passing", or "automatic" (default).
	Mode string `toml:"mode"`
}

// CanvasConfig shapes the render surface and frame pacing.
type CanvasConfig struct {
	Width  int32 `toml:"width"`
	Height int32 `toml:"height"`
	FPS    int   `toml:"fps"`
}

// LogConfig tunes process logging.
type LogConfig struct {
	// Level is trace, debug, info, warn, or error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// AssetEntry pre-registers one named asset, in addition to whatever the
// script registers itself at load time.
type AssetEntry struct {
	Name string `toml:"name"`
	Path string `toml:"path" env_interpolation:"yes"`
}

// NewConfig loads configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no config data provided")
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("failed to interpolate config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}
	return cfg, nil
}

// Default returns a config with every optional field at its default.
// Script.Path has no default; validation rejects a config without one.
func Default() *Config {
	return &Config{
		Version: Version,
		Channel: ChannelConfig{Mode: "automatic"},
		Canvas:  CanvasConfig{Width: 800, Height: 600, FPS: 60},
		Logging: LogConfig{Level: "info", Format: "text"},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{script: %s, mode: %s, canvas: %dx%d@%d}",
		c.Script.Path, c.Channel.Mode, c.Canvas.Width, c.Canvas.Height, c.Canvas.FPS)
}
