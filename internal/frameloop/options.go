package frameloop

import (
	"context"
	"log/slog"

	"github.com/pixelbus/pixelbus/internal/wire"
)

type Option func(*Runner)

// WithLogger sets a custom logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		r.logger = slog.New(handler)
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// WithFPS sets the frame rate. Values outside 1-240 fall back to the
// default.
func WithFPS(fps int) Option {
	return func(r *Runner) {
		if fps >= 1 && fps <= 240 {
			r.fps = fps
		}
	}
}

// WithCanvasSize sets the initial canvas size published at startup.
func WithCanvasSize(size wire.CanvasSize) Option {
	return func(r *Runner) {
		if size.Width > 0 && size.Height > 0 {
			r.canvas = size
		}
	}
}
