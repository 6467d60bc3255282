// Package render defines the main-thread consumer side of the draw-command
// stream. The process embedding the frame loop supplies the Renderer that
// rasterizes commands onto a real surface; this package ships a recording
// implementation for tests and a tracing one for debugging without a
// surface.
package render

import (
	"log/slog"
	"sync"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// Renderer executes one frame's command batch. Execute is only ever called
// from the frame loop goroutine, with batches in submission order.
type Renderer interface {
	Execute(cmds []wire.DrawCommand)
}

// ImageTable resolves decoded pixel sizes for named image assets. The host
// asset manifest satisfies it.
type ImageTable interface {
	ImageSize(name string) (w, h int, ok bool)
}

// Recorder retains every executed batch for later inspection.
type Recorder struct {
	mu      sync.Mutex
	batches [][]wire.DrawCommand
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Execute stores a copy of the batch.
func (r *Recorder) Execute(cmds []wire.DrawCommand) {
	batch := append([]wire.DrawCommand(nil), cmds...)
	r.mu.Lock()
	r.batches = append(r.batches, batch)
	r.mu.Unlock()
}

// Batches returns all recorded batches in execution order.
func (r *Recorder) Batches() [][]wire.DrawCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]wire.DrawCommand(nil), r.batches...)
}

// Last returns the most recent batch, or nil when nothing has executed.
func (r *Recorder) Last() []wire.DrawCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[len(r.batches)-1]
}

// Count returns how many batches have executed.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// Reset discards all recorded batches.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.batches = nil
	r.mu.Unlock()
}

// Tracer logs each command instead of drawing it. Commands with ops this
// build does not know are counted and skipped, which is the required
// forward-compatibility behavior for any consumer.
type Tracer struct {
	logger *slog.Logger
}

// NewTracer returns a renderer that logs at debug level.
func NewTracer(logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{logger: logger.WithGroup("render.Tracer")}
}

func (t *Tracer) Execute(cmds []wire.DrawCommand) {
	skipped := 0
	for _, cmd := range cmds {
		if !cmd.Op.Known() {
			skipped++
			continue
		}
		t.logger.Debug("draw",
			"op", cmd.Op.String(),
			"args", cmd.Args,
			"text", cmd.Text,
		)
	}
	if skipped > 0 {
		t.logger.Warn("skipped unknown draw ops", "count", skipped, "batch", len(cmds))
	}
}
