package channel

import (
	"log/slog"
	"time"
)

type config struct {
	logger       *slog.Logger
	pollInterval time.Duration
}

func newConfig(group string, opts []Option) config {
	cfg := config{
		logger:       slog.Default().WithGroup(group),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a channel end at construction.
type Option func(*config)

// WithLogger sets a custom logger for the channel end.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the channel end.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) {
		c.logger = slog.New(handler)
	}
}

// WithPollInterval overrides the shared-memory wait poll interval. It has
// no effect on the message-passing transport, which blocks for real.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}
