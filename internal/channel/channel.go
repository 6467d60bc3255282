// Package channel carries frame data between the main thread and the
// background script thread. Two interchangeable transports implement the
// same contract: a shared-memory region with atomic field access, and a
// message-passing fallback for contexts where a shared region cannot be
// used. Both behave as single-slot mailboxes: at most one frame signal and
// one draw-command batch are ever in flight, and a new write overwrites an
// unconsumed one instead of queueing behind it.
package channel

import (
	"context"
	"errors"

	"github.com/pixelbus/pixelbus/internal/wire"
)

var (
	// ErrClosed is returned by WaitForFrame after Close.
	ErrClosed = errors.New("channel closed")
	// ErrNoRegion is raised when a shared-memory end is constructed without
	// a region. Configuration errors surface at construction, not first use.
	ErrNoRegion = errors.New("shared-memory channel requires a region")
	// ErrNoPort is the message-passing equivalent of ErrNoRegion.
	ErrNoPort = errors.New("message-passing channel requires a port")
	// ErrWaiterActive is returned when WaitForFrame is called while another
	// wait is already parked. The background side is a single consumer.
	ErrWaiterActive = errors.New("a frame wait is already in progress")
)

// Channel is the transport contract shared by both implementations.
//
// The main thread calls the Set* methods, SignalFrameReady, and
// DrawCommands; the background thread calls the getters, SendDrawCommands,
// and WaitForFrame. No method blocks except WaitForFrame.
type Channel interface {
	// SendDrawCommands publishes one frame's command batch. Called at most
	// once per frame tick by the background side. An oversized batch is
	// truncated with a logged warning, never an error.
	SendDrawCommands(cmds []wire.DrawCommand)

	// DrawCommands drains the pending batch, clearing the slot. Returns nil
	// when nothing was sent since the last drain, or when the pending
	// payload failed to decode.
	DrawCommands() []wire.DrawCommand

	SetInputState(s wire.InputState)
	InputState() wire.InputState

	SetTiming(t wire.TimingInfo)
	Timing() wire.TimingInfo

	SetCanvasSize(sz wire.CanvasSize)
	CanvasSize() wire.CanvasSize

	// SignalFrameReady marks a new frame snapshot as available and wakes a
	// blocked WaitForFrame. Signaling over an unconsumed signal overwrites
	// it; signals never accumulate.
	SignalFrameReady()

	// WaitForFrame blocks until a frame signal is pending, consuming it.
	// A signal issued before the call resolves it immediately. Returns
	// ctx.Err on cancellation or ErrClosed after Close.
	WaitForFrame(ctx context.Context) error

	// Close releases the end's resources. Idempotent; a blocked
	// WaitForFrame on this end unblocks with ErrClosed.
	Close()
}
