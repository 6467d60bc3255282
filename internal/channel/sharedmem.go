package channel

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// DefaultPollInterval is the wake-check period used by WaitForFrame on the
// shared-memory transport. Go offers no blocking wait on an atomic word, so
// the wait is a short-interval poll; the interval bounds the extra wake
// latency a frame can see.
const DefaultPollInterval = time.Millisecond

var _ Channel = (*SharedMemory)(nil)

// SharedMemory is one end of the shared-memory transport. Both ends hold
// the same *Region; every access goes through the region's atomic fields.
type SharedMemory struct {
	region       *Region
	logger       *slog.Logger
	pollInterval time.Duration
	closed       atomic.Bool
	waiting      atomic.Bool
}

// NewSharedMemory wraps a shared region as a channel end. A nil region is a
// configuration error raised here, not deferred to first use.
func NewSharedMemory(region *Region, opts ...Option) (*SharedMemory, error) {
	if region == nil {
		return nil, ErrNoRegion
	}
	cfg := newConfig("channel.SharedMemory", opts)
	return &SharedMemory{
		region:       region,
		logger:       cfg.logger,
		pollInterval: cfg.pollInterval,
	}, nil
}

// SendDrawCommands serializes the batch straight into the region's payload
// area. A batch that does not fit is cut at a command boundary and the rest
// dropped with a warning; adjacent fields are never overrun.
func (c *SharedMemory) SendDrawCommands(cmds []wire.DrawCommand) {
	if c.closed.Load() {
		return
	}
	n, count := wire.EncodeCommands(c.region.payload[:], cmds)
	if count < len(cmds) {
		c.logger.Warn("draw command payload truncated",
			"sent", count,
			"dropped", len(cmds)-count,
			"capacity", PayloadCapacity,
		)
	}
	// Payload bytes land before the header words; the reader loads the
	// count first, so it never sees a length for bytes not yet written.
	c.region.payloadLen.Store(uint32(n))
	c.region.commandCount.Store(uint32(count))
}

// DrawCommands drains the pending batch. The count swap clears the slot, so
// a second call without an intervening send returns nil.
func (c *SharedMemory) DrawCommands() []wire.DrawCommand {
	if c.closed.Load() {
		return nil
	}
	count := c.region.commandCount.Swap(0)
	if count == 0 {
		return nil
	}
	n := c.region.payloadLen.Swap(0)
	if n == 0 || n > PayloadCapacity {
		return nil
	}
	buf := make([]byte, n)
	copy(buf, c.region.payload[:n])
	cmds, err := wire.DecodeCommands(buf, int(count))
	if err != nil {
		c.logger.Warn("discarding malformed draw command payload", "error", err)
		return nil
	}
	return cmds
}

func (c *SharedMemory) SetInputState(s wire.InputState) { c.region.setInput(s) }
func (c *SharedMemory) InputState() wire.InputState     { return c.region.input() }

func (c *SharedMemory) SetTiming(t wire.TimingInfo) { c.region.setTiming(t) }
func (c *SharedMemory) Timing() wire.TimingInfo     { return c.region.timing() }

func (c *SharedMemory) SetCanvasSize(sz wire.CanvasSize) { c.region.setCanvas(sz) }
func (c *SharedMemory) CanvasSize() wire.CanvasSize      { return c.region.canvas() }

// SignalFrameReady stores 1 into the flag. A still-unconsumed previous
// signal is simply overwritten; the mailbox holds at most one.
func (c *SharedMemory) SignalFrameReady() {
	c.region.frameReady.Store(1)
}

// WaitForFrame consumes a pending signal, or polls for one. The CAS both
// observes and resets the flag, closing the missed-wakeup window between a
// check and a park.
func (c *SharedMemory) WaitForFrame(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.waiting.CompareAndSwap(false, true) {
		return ErrWaiterActive
	}
	defer c.waiting.Store(false)

	if c.region.frameReady.CompareAndSwap(1, 0) {
		return nil
	}
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.closed.Load() {
				return ErrClosed
			}
			if c.region.frameReady.CompareAndSwap(1, 0) {
				return nil
			}
		}
	}
}

// Close marks this end released. Idempotent. The region itself is plain
// memory reclaimed once both ends drop it.
func (c *SharedMemory) Close() {
	c.closed.Store(true)
}
