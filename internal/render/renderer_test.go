package render

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelbus/pixelbus/internal/wire"
)

func TestRecorderKeepsBatchesInOrder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	assert.Zero(t, r.Count())
	assert.Nil(t, r.Last())

	first := []wire.DrawCommand{wire.Clear(), wire.FillRect(0, 0, 4, 4)}
	second := []wire.DrawCommand{wire.Text("hi", 1, 2)}
	r.Execute(first)
	r.Execute(second)

	require.Equal(t, 2, r.Count())
	batches := r.Batches()
	assert.Equal(t, first, batches[0])
	assert.Equal(t, second, batches[1])
	assert.Equal(t, second, r.Last())
}

func TestRecorderCopiesBatch(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	batch := []wire.DrawCommand{wire.Clear()}
	r.Execute(batch)

	// Mutating the caller's slice must not leak into the record.
	batch[0] = wire.FillRect(9, 9, 9, 9)
	assert.Equal(t, []wire.DrawCommand{wire.Clear()}, r.Last())
}

func TestRecorderReset(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Execute([]wire.DrawCommand{wire.Clear()})
	r.Reset()
	assert.Zero(t, r.Count())
	assert.Nil(t, r.Last())
}

func TestTracerSkipsUnknownOps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := NewTracer(logger)

	tr.Execute([]wire.DrawCommand{
		wire.Clear(),
		{Op: wire.Op(250), Args: []float64{1, 2}},
		wire.FillRect(0, 0, 1, 1),
	})

	out := buf.String()
	assert.Contains(t, out, "clear")
	assert.Contains(t, out, "fillRect")
	assert.Contains(t, out, "skipped unknown draw ops")
	assert.Contains(t, out, "count=1")
}

func TestTracerNilLogger(t *testing.T) {
	t.Parallel()

	tr := NewTracer(nil)
	assert.NotPanics(t, func() {
		tr.Execute([]wire.DrawCommand{wire.Clear()})
	})
}
