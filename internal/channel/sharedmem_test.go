package channel

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelbus/pixelbus/internal/testutil"
	"github.com/pixelbus/pixelbus/internal/wire"
)

func TestNewSharedMemoryRequiresRegion(t *testing.T) {
	t.Parallel()

	_, err := NewSharedMemory(nil)
	assert.ErrorIs(t, err, ErrNoRegion)
}

func TestSharedMemoryOversizedPayload(t *testing.T) {
	t.Parallel()

	region := NewRegion()
	logBuf := &testutil.ThreadSafeBuffer{}
	logHandler := slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelWarn})
	main, err := NewSharedMemory(region, WithLogHandler(logHandler))
	require.NoError(t, err)
	defer main.Close()
	background, err := NewSharedMemory(region, WithLogHandler(logHandler))
	require.NoError(t, err)
	defer background.Close()

	// Each text command carries a large string so a modest count overflows
	// the payload area.
	big := string(make([]byte, 60_000))
	batch := []wire.DrawCommand{
		wire.Clear(),
		wire.Text(big, 0, 0),
		wire.Text(big, 0, 0), // cannot fit alongside the first
		wire.FillRect(0, 0, 1, 1),
	}

	require.NotPanics(t, func() {
		background.SendDrawCommands(batch)
	})

	got := main.DrawCommands()
	require.NotNil(t, got)
	assert.Less(t, len(got), len(batch))
	// Whatever survives decodes to exactly what was encoded, in order.
	assert.Equal(t, wire.OpClear, got[0].Op)
	if len(got) > 1 {
		assert.Equal(t, wire.OpText, got[1].Op)
		assert.Equal(t, big, got[1].Text)
	}

	// Truncation is silent on the wire but visible in the logs.
	assert.Contains(t, logBuf.String(), "truncat")
}

func TestSharedMemoryMalformedPayload(t *testing.T) {
	t.Parallel()

	region := NewRegion()
	main, err := NewSharedMemory(region)
	require.NoError(t, err)
	defer main.Close()

	// Simulate a corrupt producer: a command count with a payload too short
	// to hold it.
	region.payload[0] = byte(wire.OpClear)
	region.payloadLen.Store(2)
	region.commandCount.Store(5)

	assert.NotPanics(t, func() {
		assert.Nil(t, main.DrawCommands())
	})
	// The slot is cleared even though the payload was garbage.
	assert.Nil(t, main.DrawCommands())
}

func TestSharedMemoryZeroCountShortCircuits(t *testing.T) {
	t.Parallel()

	region := NewRegion()
	main, err := NewSharedMemory(region)
	require.NoError(t, err)
	defer main.Close()

	// Zero count with a stale length must not attempt a decode.
	region.payloadLen.Store(12)
	region.commandCount.Store(0)
	assert.Nil(t, main.DrawCommands())

	// Non-zero count with zero length likewise means "no commands".
	region.commandCount.Store(3)
	region.payloadLen.Store(0)
	assert.Nil(t, main.DrawCommands())
}

func TestSharedMemoryEmptyBatch(t *testing.T) {
	t.Parallel()

	main, background := newSharedPair(t)
	background.SendDrawCommands(nil)
	assert.Nil(t, main.DrawCommands())
}
