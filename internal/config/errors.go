package config

import "errors"

var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrMissingScript      = errors.New("script.path is required")
	ErrInvalidCanvas      = errors.New("canvas dimensions must be positive")
	ErrInvalidFPS         = errors.New("canvas.fps must be between 1 and 240")
)
