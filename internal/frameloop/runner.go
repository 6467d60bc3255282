// Package frameloop drives the main-thread side of a run: it paces frames,
// publishes input and timing to the script channel, signals the frame tick,
// and hands completed draw batches to the renderer. One Runner pairs with
// one script host on the other end of the channel.
package frameloop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/pixelbus/pixelbus/internal/channel"
	"github.com/pixelbus/pixelbus/internal/finitestate"
	"github.com/pixelbus/pixelbus/internal/input"
	"github.com/pixelbus/pixelbus/internal/render"
	"github.com/pixelbus/pixelbus/internal/wire"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// DefaultFPS is the frame pacing used when no rate is configured.
const DefaultFPS = 60

// Runner is the main-thread frame pump. Run blocks pacing frames until the
// context ends or Stop is called.
type Runner struct {
	ch       channel.Channel
	capture  *input.Capture
	renderer render.Renderer
	canvas   wire.CanvasSize
	fps      int

	logger *slog.Logger
	fsm    finitestate.Machine

	runCancel context.CancelFunc
	parentCtx context.Context
}

// NewRunner creates a frame pump over the main end of a channel. The
// renderer receives every batch the script produces; the capture supplies
// the per-frame input snapshot.
func NewRunner(
	ch channel.Channel,
	capture *input.Capture,
	renderer render.Renderer,
	opts ...Option,
) (*Runner, error) {
	if ch == nil {
		return nil, fmt.Errorf("frameloop requires a channel")
	}
	if capture == nil {
		return nil, fmt.Errorf("frameloop requires an input capture")
	}
	if renderer == nil {
		return nil, fmt.Errorf("frameloop requires a renderer")
	}

	runner := &Runner{
		ch:        ch,
		capture:   capture,
		renderer:  renderer,
		canvas:    wire.CanvasSize{Width: 800, Height: 600},
		fps:       DefaultFPS,
		logger:    slog.Default().WithGroup("frameloop.Runner"),
		parentCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	fsm, err := finitestate.New(runner.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = fsm

	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "frameloop.Runner"
}

// Run implements the supervisor.Runnable interface. It publishes the canvas
// size, then ticks frames at the configured rate until cancellation.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, runCancel := context.WithCancel(ctx)
	r.runCancel = runCancel
	defer runCancel()

	r.ch.SetCanvasSize(r.canvas)

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	interval := time.Second / time.Duration(r.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("Frame loop running", "fps", r.fps, "interval", interval)

	start := time.Now()
	last := start
	var frame uint32

loop:
	for {
		select {
		case <-r.parentCtx.Done():
			r.logger.Debug("Parent context canceled")
			break loop
		case <-runCtx.Done():
			r.logger.Debug("Run context canceled")
			break loop
		case now := <-ticker.C:
			frame++
			r.tick(wire.TimingInfo{
				Delta: now.Sub(last).Seconds(),
				Total: now.Sub(start).Seconds(),
				Frame: frame,
			})
			last = now
		}
	}

	r.logger.Info("Frame loop shutting down", "frames", frame)

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// tick publishes one frame to the script side, then drains and renders
// whatever the previous frame produced. The drain happens after the signal
// so the script works on tick N while the renderer draws tick N-1.
func (r *Runner) tick(timing wire.TimingInfo) {
	r.ch.SetInputState(r.capture.State())
	r.ch.SetTiming(timing)
	r.ch.SignalFrameReady()
	r.capture.Update()

	if cmds := r.ch.DrawCommands(); cmds != nil {
		r.renderer.Execute(cmds)
	}
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping frame loop")
	if err := r.fsm.TransitionIfCurrentState(finitestate.StatusRunning, finitestate.StatusStopping); err != nil {
		r.logger.Debug("Note: state transition failed", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// Resize updates the canvas size for subsequent frames.
func (r *Runner) Resize(size wire.CanvasSize) {
	r.canvas = size
	r.ch.SetCanvasSize(size)
	r.logger.Debug("Canvas resized", "width", size.Width, "height", size.Height)
}
