// Package host runs one guest game script on a background goroutine,
// driving one callback invocation per frame. The interpreter is treated as
// a black box: the host executes a file, holds the callback the script
// registers as an opaque callable, and invokes it through a call-and-catch
// wrapper so an unbounded number of script failures never takes down the
// frame loop.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofrs/uuid/v5"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/pixelbus/pixelbus/internal/channel"
	"github.com/pixelbus/pixelbus/internal/host/finitestate"
	"github.com/pixelbus/pixelbus/internal/wire"
)

// ErrorHandler receives contained script failures. Called from the loop
// goroutine, once per failed frame.
type ErrorHandler func(ScriptError)

// fileOptions enables the language features game scripts lean on. The
// dialect is fixed here so every host instance accepts the same programs.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Host owns one interpreter instance and the background end of a frame
// channel. Lifecycle: New → Initialize → LoadCode → Start → Stop/Dispose.
// A stopped or errored host cannot be restarted; build a new one.
type Host struct {
	id     string
	logger *slog.Logger
	fsm    finitestate.Machine
	ch     channel.Channel
	assets *Manifest

	mu          sync.Mutex
	initialized bool
	disposed    bool
	thread      *starlark.Thread
	predeclared starlark.StringDict
	globals     starlark.StringDict
	callback    starlark.Callable
	entry       string
	errHandler  ErrorHandler
	runCancel   context.CancelFunc
	loopDone    chan struct{}

	// Frame-local state. Written by the loop goroutine at each wake and
	// read by API builtins during the callback; LoadCode writes happen
	// strictly before Start.
	commands   []wire.DrawCommand
	frameInput wire.InputState
	frameTime  wire.TimingInfo
	frameSize  wire.CanvasSize

	disposeOnce sync.Once
}

// HostOption configures a Host at construction.
type HostOption func(*Host)

// WithLogger sets a custom logger for the host.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the host.
func WithLogHandler(handler slog.Handler) HostOption {
	return func(h *Host) {
		h.logger = slog.New(handler)
	}
}

// WithErrorHandler registers the script-failure handler.
func WithErrorHandler(fn ErrorHandler) HostOption {
	return func(h *Host) {
		h.errHandler = fn
	}
}

// New creates an idle host bound to the background end of a channel.
func New(ch channel.Channel, opts ...HostOption) (*Host, error) {
	if ch == nil {
		return nil, fmt.Errorf("host requires a channel")
	}
	id := uuid.Must(uuid.NewV4()).String()
	h := &Host{
		id:     id,
		ch:     ch,
		assets: NewManifest(),
		logger: slog.Default().WithGroup("host.Host").With("host_id", id),
	}
	for _, opt := range opts {
		opt(h)
	}
	fsm, err := finitestate.New(h.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	h.fsm = fsm
	return h, nil
}

// String identifies the host instance in logs and supervision trees.
func (h *Host) String() string {
	return "host.Host<" + h.id + ">"
}

// State returns the current lifecycle state.
func (h *Host) State() string {
	return h.fsm.GetState()
}

// Assets exposes the manifest so the embedder can enumerate registered
// sources and record decoded dimensions.
func (h *Host) Assets() *Manifest {
	return h.assets
}

// SetErrorHandler replaces the script-failure handler.
func (h *Host) SetErrorHandler(fn ErrorHandler) {
	h.mu.Lock()
	h.errHandler = fn
	h.mu.Unlock()
}

// Initialize creates the interpreter instance. Calling it twice is a
// lifecycle error; the host returns to idle on success.
func (h *Host) Initialize() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed {
		return ErrDisposed
	}
	if h.initialized {
		return ErrAlreadyInitialized
	}
	if err := h.fsm.Transition(finitestate.StatusInitializing); err != nil {
		return fmt.Errorf("cannot initialize from state %q: %w", h.fsm.GetState(), err)
	}

	h.thread = &starlark.Thread{
		Name: h.id,
		Print: func(_ *starlark.Thread, msg string) {
			h.logger.Info("script print", "msg", msg)
		},
	}
	h.predeclared = h.apiEnv()
	h.initialized = true

	if err := h.fsm.Transition(finitestate.StatusIdle); err != nil {
		h.toError(err)
		return err
	}
	h.logger.Debug("interpreter initialized")
	return nil
}

// LoadCode executes the script's top level, which is where the guest
// registers its frame callback and assets. The host state is unchanged:
// load failures are script-level errors returned to the caller, and the
// host stays idle for a corrected reload.
func (h *Host) LoadCode(filename, src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed {
		return ErrDisposed
	}
	if !h.initialized {
		return ErrNotInitialized
	}
	if state := h.fsm.GetState(); state != finitestate.StatusIdle {
		return fmt.Errorf("cannot load code in state %q", state)
	}
	if filename == "" {
		filename = "script.star"
	}

	h.frameSize = h.ch.CanvasSize()
	globals, err := starlark.ExecFileOptions(fileOptions, h.thread, filename, src, h.predeclared)
	if err != nil {
		serr := newScriptError(filename, err)
		h.logger.Warn("script load failed", "error", serr)
		return serr
	}
	h.globals = globals
	h.logger.Debug("script loaded", "file", filename)
	return nil
}

// Start seals the asset manifest and launches the frame loop. It requires
// completed initialization and a registered frame callback.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed {
		return ErrDisposed
	}
	if !h.initialized {
		return ErrNotInitialized
	}
	if h.callback == nil {
		return ErrNoCallback
	}
	if err := h.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("cannot start from state %q: %w", h.fsm.GetState(), err)
	}

	h.assets.Seal()
	runCtx, cancel := context.WithCancel(ctx)
	h.runCancel = cancel
	h.loopDone = make(chan struct{})
	go h.loop(runCtx)
	h.logger.Info("script host running", "assets", len(h.assets.Assets()))
	return nil
}

// loop is the background frame loop: wake on the frame signal, snapshot
// input and timing, invoke the callback, flush whatever it drew. The loop
// survives script failures; only cancellation, channel closure, or leaving
// the running state ends it.
func (h *Host) loop(ctx context.Context) {
	defer close(h.loopDone)
	for {
		if err := h.ch.WaitForFrame(ctx); err != nil {
			h.logger.Debug("frame loop exiting", "reason", err)
			return
		}
		if h.fsm.GetState() != finitestate.StatusRunning {
			return
		}

		h.frameInput = h.ch.InputState()
		h.frameTime = h.ch.Timing()
		h.frameSize = h.ch.CanvasSize()
		h.commands = h.commands[:0]

		h.callFrame()

		// Commands accumulated before a mid-frame failure still flush.
		if len(h.commands) > 0 {
			h.ch.SendDrawCommands(h.commands)
		}
	}
}

// callFrame invokes the registered callback inside the error boundary.
func (h *Host) callFrame() {
	h.mu.Lock()
	cb := h.callback
	entry := h.entry
	handler := h.errHandler
	h.mu.Unlock()

	if _, err := starlark.Call(h.thread, cb, nil, nil); err != nil {
		serr := newScriptError(entry, err)
		h.logger.Warn("frame callback failed", "error", serr)
		if handler != nil {
			handler(*serr)
		}
	}
}

// Stop ends the run cooperatively: the loop exits at its next wake, a
// worst case of one frame period. Safe to call in any state.
func (h *Host) Stop() {
	h.mu.Lock()
	cancel := h.runCancel
	h.runCancel = nil
	if h.fsm.TransitionBool(finitestate.StatusStopped) {
		h.logger.Info("script host stopped")
	}
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Dispose releases the interpreter and detaches the channel. Idempotent,
// safe while the loop is mid-iteration, and guarantees no further channel
// access once it returns.
func (h *Host) Dispose() {
	h.disposeOnce.Do(func() {
		h.Stop()
		h.mu.Lock()
		done := h.loopDone
		h.mu.Unlock()
		if done != nil {
			<-done
		}

		h.mu.Lock()
		h.disposed = true
		if h.thread != nil {
			h.thread.Cancel("host disposed")
		}
		h.thread = nil
		h.callback = nil
		h.globals = nil
		h.predeclared = nil
		h.mu.Unlock()
		h.logger.Debug("host disposed")
	})
}

// toError moves the host to the terminal error state, logging rather than
// failing when the transition itself is rejected.
func (h *Host) toError(cause error) {
	if err := h.fsm.Transition(finitestate.StatusError); err != nil {
		h.logger.Error("failed to transition to error state", "error", err, "cause", cause)
	}
}
