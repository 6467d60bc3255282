package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/pixelbus/pixelbus/internal/channel"
)

var _ supervisor.Runnable = (*Runner)(nil)

// Runner adapts a Host to the supervision tree: it reads the script from
// disk, walks the host through its lifecycle, and blocks until shutdown.
type Runner struct {
	scriptPath string
	ch         channel.Channel
	logger     *slog.Logger
	hostOpts   []HostOption
	preload    []Asset

	host      *Host
	runCancel context.CancelFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogHandler sets a custom log handler for the Runner and the
// Host it manages.
func WithRunnerLogHandler(handler slog.Handler) RunnerOption {
	return func(r *Runner) {
		r.logger = slog.New(handler)
		r.hostOpts = append(r.hostOpts, WithLogHandler(handler))
	}
}

// WithHostOptions forwards options to the managed Host.
func WithHostOptions(opts ...HostOption) RunnerOption {
	return func(r *Runner) {
		r.hostOpts = append(r.hostOpts, opts...)
	}
}

// WithAssets registers named asset sources on the host before the script
// loads, so configuration can supply assets the script does not register
// itself.
func WithAssets(assets ...Asset) RunnerOption {
	return func(r *Runner) {
		r.preload = append(r.preload, assets...)
	}
}

// NewRunner creates a supervisable script host for one script file.
func NewRunner(scriptPath string, ch channel.Channel, opts ...RunnerOption) (*Runner, error) {
	if scriptPath == "" {
		return nil, fmt.Errorf("script path is required")
	}
	if ch == nil {
		return nil, fmt.Errorf("runner requires a channel")
	}
	r := &Runner{
		scriptPath: scriptPath,
		ch:         ch,
		logger:     slog.Default().WithGroup("host.Runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "host.Runner"
}

// Host returns the managed host, nil before Run.
func (r *Runner) Host() *Host {
	return r.host
}

// Run implements the supervisor.Runnable interface. It boots the host,
// loads the script, and blocks until the context ends.
func (r *Runner) Run(ctx context.Context) error {
	src, err := os.ReadFile(r.scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	h, err := New(r.ch, r.hostOpts...)
	if err != nil {
		return fmt.Errorf("failed to create host: %w", err)
	}
	r.host = h
	defer h.Dispose()

	if err := h.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize host: %w", err)
	}
	for _, a := range r.preload {
		if err := h.Assets().Register(a.Name, a.Path); err != nil {
			return fmt.Errorf("failed to register asset %q: %w", a.Name, err)
		}
	}
	if err := h.LoadCode(r.scriptPath, string(src)); err != nil {
		return fmt.Errorf("script failed to load: %w", err)
	}

	runCtx, runCancel := context.WithCancel(ctx)
	r.runCancel = runCancel
	defer runCancel()

	if err := h.Start(runCtx); err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}
	r.logger.Info("Script host started", "script", r.scriptPath)

	<-runCtx.Done()
	r.logger.Info("Script host shutting down")
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	if r.runCancel != nil {
		r.runCancel()
	}
}
