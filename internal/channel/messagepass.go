package channel

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// portBuffer bounds each direction of a port pair. The protocol is
// single-slot per field, so the buffer only has to absorb short bursts;
// when it is full the newest message is dropped with a warning, mirroring
// the lossy degradation of the shared-memory transport.
const portBuffer = 16

type msgKind uint8

const (
	msgInput msgKind = iota + 1
	msgTiming
	msgCanvas
	msgCommands
	msgFrameReady
)

// message is one whole-state update. Exactly one payload field is
// meaningful, selected by kind; there are no partial updates on the wire.
type message struct {
	kind     msgKind
	input    wire.InputState
	timing   wire.TimingInfo
	canvas   wire.CanvasSize
	commands []wire.DrawCommand
}

// Port is one endpoint of a bidirectional in-process message pair.
//
// The frame signal travels out-of-band on a shared flag rather than in the
// message stream: signalOut is set by this end and signalIn is the peer's
// flag, consumed exactly once per set. Signals raised while the flag is
// still set collapse into the one pending delivery, matching the
// single-slot contract of the shared-memory transport.
type Port struct {
	send chan<- message
	recv <-chan message

	signalOut *atomic.Bool
	signalIn  *atomic.Bool
}

// NewPortPair returns two connected ports; messages posted on one arrive on
// the other in order.
func NewPortPair() (*Port, *Port) {
	ab := make(chan message, portBuffer)
	ba := make(chan message, portBuffer)
	abSignal := new(atomic.Bool)
	baSignal := new(atomic.Bool)
	a := &Port{send: ab, recv: ba, signalOut: abSignal, signalIn: baSignal}
	b := &Port{send: ba, recv: ab, signalOut: baSignal, signalIn: abSignal}
	return a, b
}

var _ Channel = (*MessagePassing)(nil)

// MessagePassing implements the channel contract by mirroring every logical
// field locally and exchanging whole-state messages with the peer end. A
// pump goroutine applies incoming messages in arrival order, so a reader
// never observes a half-applied update.
type MessagePassing struct {
	port   *Port
	logger *slog.Logger

	mu       sync.Mutex
	input    wire.InputState
	timing   wire.TimingInfo
	canvas   wire.CanvasSize
	commands []wire.DrawCommand

	// pendingSignal records a frame-ready that arrived while nobody was
	// waiting; the next WaitForFrame consumes it immediately. waiter is the
	// at-most-one parked wait; only the pump resolves it, exactly once.
	pendingSignal bool
	waiter        chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// NewMessagePassing wraps a port as a channel end. A nil port is a
// configuration error raised here, not deferred to first use.
func NewMessagePassing(port *Port, opts ...Option) (*MessagePassing, error) {
	if port == nil {
		return nil, ErrNoPort
	}
	cfg := newConfig("channel.MessagePassing", opts)
	c := &MessagePassing{
		port:   port,
		logger: cfg.logger,
		done:   make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

func (c *MessagePassing) pump() {
	for {
		select {
		case <-c.done:
			return
		case m := <-c.port.recv:
			c.apply(m)
		}
	}
}

func (c *MessagePassing) apply(m message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch m.kind {
	case msgInput:
		c.input = m.input
	case msgTiming:
		c.timing = m.timing
	case msgCanvas:
		c.canvas = m.canvas
	case msgCommands:
		// Single-slot: an unread batch is overwritten, not queued behind.
		c.commands = m.commands
	case msgFrameReady:
		// The wake rides the message stream but the signal itself lives on
		// the shared flag; a failed consume means a parked wait already took
		// it directly.
		if !c.port.signalIn.CompareAndSwap(true, false) {
			return
		}
		if c.waiter != nil {
			close(c.waiter)
			c.waiter = nil
		} else {
			c.pendingSignal = true
		}
	}
}

func (c *MessagePassing) post(m message) {
	select {
	case <-c.done:
	case c.port.send <- m:
	default:
		c.logger.Warn("peer port full, dropping message", "kind", m.kind)
	}
}

func (c *MessagePassing) SendDrawCommands(cmds []wire.DrawCommand) {
	batch := append([]wire.DrawCommand(nil), cmds...)
	c.mu.Lock()
	c.commands = batch
	c.mu.Unlock()
	c.post(message{kind: msgCommands, commands: batch})
}

func (c *MessagePassing) DrawCommands() []wire.DrawCommand {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmds := c.commands
	c.commands = nil
	return cmds
}

func (c *MessagePassing) SetInputState(s wire.InputState) {
	s = s.Clone()
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
	c.post(message{kind: msgInput, input: s})
}

func (c *MessagePassing) InputState() wire.InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.Clone()
}

func (c *MessagePassing) SetTiming(t wire.TimingInfo) {
	c.mu.Lock()
	c.timing = t
	c.mu.Unlock()
	c.post(message{kind: msgTiming, timing: t})
}

func (c *MessagePassing) Timing() wire.TimingInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timing
}

func (c *MessagePassing) SetCanvasSize(sz wire.CanvasSize) {
	c.mu.Lock()
	c.canvas = sz
	c.mu.Unlock()
	c.post(message{kind: msgCanvas, canvas: sz})
}

func (c *MessagePassing) CanvasSize() wire.CanvasSize {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas
}

func (c *MessagePassing) SignalFrameReady() {
	// An unconsumed earlier signal absorbs this one; only the flag's
	// false-to-true transition posts a wake.
	if !c.port.signalOut.CompareAndSwap(false, true) {
		return
	}
	c.post(message{kind: msgFrameReady})
}

func (c *MessagePassing) WaitForFrame(ctx context.Context) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.mu.Lock()
	if c.pendingSignal {
		c.pendingSignal = false
		c.mu.Unlock()
		return nil
	}
	// Consume a signal the pump has not applied yet; the stale wake message
	// is ignored when its flag consume fails.
	if c.port.signalIn.CompareAndSwap(true, false) {
		c.mu.Unlock()
		return nil
	}
	if c.waiter != nil {
		c.mu.Unlock()
		return ErrWaiterActive
	}
	w := make(chan struct{})
	c.waiter = w
	c.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		c.mu.Lock()
		if c.waiter == w {
			c.waiter = nil
		}
		c.mu.Unlock()
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Close stops the pump and unblocks a parked wait. Idempotent.
func (c *MessagePassing) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
