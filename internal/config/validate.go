package config

import (
	"errors"
	"fmt"

	"github.com/pixelbus/pixelbus/internal/channel"
	"github.com/pixelbus/pixelbus/internal/logging"
)

// Validate checks the whole document and reports every problem at once.
func (c *Config) Validate() error {
	var errz []error

	if c.Version != "" && c.Version != Version {
		errz = append(errz, fmt.Errorf("%w: %q, expected %q", ErrUnsupportedVersion, c.Version, Version))
	}
	if c.Script.Path == "" {
		errz = append(errz, ErrMissingScript)
	}
	if _, err := channel.ParseMode(c.Channel.Mode); err != nil {
		errz = append(errz, err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		errz = append(errz, err)
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errz = append(errz, fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.FPS < 1 || c.Canvas.FPS > 240 {
		errz = append(errz, fmt.Errorf("%w: %d", ErrInvalidFPS, c.Canvas.FPS))
	}

	seen := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		if a.Name == "" {
			errz = append(errz, fmt.Errorf("asset %d: missing name", i))
		}
		if a.Path == "" {
			errz = append(errz, fmt.Errorf("asset %q: missing path", a.Name))
		}
		if seen[a.Name] {
			errz = append(errz, fmt.Errorf("asset %q: duplicate name", a.Name))
		}
		seen[a.Name] = true
	}

	return errors.Join(errz...)
}
