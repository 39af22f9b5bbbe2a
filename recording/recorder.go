package recording

import (
	"errors"
	"fmt"

	"github.com/gogpu/compose"
)

// ErrUnknownBackend is returned by NewBackend for unregistered names.
var ErrUnknownBackend = errors.New("recording: unknown backend")

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderOptions)

type recorderOptions struct {
	optimizer   *compose.Optimizer
	batching    bool
	offsetDedup bool
}

func defaultRecorderOptions() recorderOptions {
	return recorderOptions{
		optimizer: compose.NewOptimizer(),
		batching:  true,
	}
}

// WithOptimizer sets the optimizer applied to every context before it is
// drawn. Passing nil disables splitting.
func WithOptimizer(o *compose.Optimizer) RecorderOption {
	return func(opts *recorderOptions) {
		opts.optimizer = o
	}
}

// WithBatching controls whether uniformly styled vector forms are offered
// to the batch matcher. It is on by default.
func WithBatching(enabled bool) RecorderOption {
	return func(opts *recorderOptions) {
		opts.batching = enabled
	}
}

// WithOffsetDedup removes near-duplicate offsets from every batch with
// compose.FilterRedundantOffsets. Off by default: it sorts the offsets and
// drops overlapping placements, which changes the output wherever shapes
// are translucent.
func WithOffsetDedup(enabled bool) RecorderOption {
	return func(opts *recorderOptions) {
		opts.offsetDedup = enabled
	}
}

// Stats summarizes what a recording pass did.
type Stats struct {
	Contexts   int // contexts visited
	Splits     int // contexts rewritten by the optimizer
	Batches    int // batch commands recorded
	Batched    int // primitives covered by batch commands
	Primitives int // primitives recorded one by one
}

// Recorder is the draw routine between a scene graph and a backend. It
// walks a context tree in draw order, optimizes each context once before
// descending into it, offers each uniformly styled vector form to the
// batch matcher, and records the resulting commands.
//
// Example:
//
//	rec := recording.NewRecorder(210, 297)
//	r := rec.Record(scene)
//	err := r.Playback(recording.MustBackend("svg"))
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height float64
	opts          recorderOptions
	commands      []Command
	stats         Stats
}

// NewRecorder creates a Recorder for a canvas of the given size in
// millimeters.
func NewRecorder(width, height float64, opts ...RecorderOption) *Recorder {
	o := defaultRecorderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Recorder{
		width:    width,
		height:   height,
		opts:     o,
		commands: make([]Command, 0, 256),
	}
}

// Width returns the canvas width in millimeters.
func (r *Recorder) Width() float64 { return r.width }

// Height returns the canvas height in millimeters.
func (r *Recorder) Height() float64 { return r.height }

// Record draws ctx into the recorder and returns the finished Recording.
// The recorder is reset first, so it can be reused. ctx is not modified.
func (r *Recorder) Record(ctx *compose.Context) *Recording {
	r.commands = make([]Command, 0, cap(r.commands))
	r.stats = Stats{}
	r.walk(ctx, compose.Style{})

	compose.Logger().Info("recording: recorded scene",
		"contexts", r.stats.Contexts,
		"splits", r.stats.Splits,
		"batches", r.stats.Batches,
		"batched", r.stats.Batched,
		"primitives", r.stats.Primitives)

	return &Recording{
		width:    r.width,
		height:   r.height,
		commands: r.commands,
		stats:    r.stats,
	}
}

func (r *Recorder) walk(ctx *compose.Context, inherited compose.Style) {
	if ctx == nil {
		return
	}
	r.stats.Contexts++
	if r.opts.optimizer != nil {
		if opt := r.opts.optimizer.Optimize(ctx); opt != ctx {
			r.stats.Splits++
			ctx = opt
		}
	}

	base := compose.ResolveScalar(ctx, inherited)
	uniform := !compose.HasVectorProperties(ctx)
	for _, f := range ctx.Forms() {
		if !f.IsVector() {
			r.drawPrimitive(f.At(0), base)
			continue
		}
		if uniform && r.opts.batching && f.Len() > 1 {
			if b, ok := compose.TryBatchForm(f); ok {
				r.drawBatch(b, base)
				continue
			}
		}
		for i := range f.Len() {
			r.drawPrimitive(f.At(i), compose.ResolveIndex(ctx, base, i))
		}
	}

	for _, child := range ctx.Children() {
		r.walk(child, base)
	}
}

func (r *Recorder) drawPrimitive(p compose.Primitive, style compose.Style) {
	r.commands = append(r.commands, DrawPrimitiveCommand{Primitive: p, Style: style})
	r.stats.Primitives++
}

func (r *Recorder) drawBatch(b compose.FormBatch, style compose.Style) {
	if r.opts.offsetDedup {
		b.Offsets = compose.FilterRedundantOffsets(b.Offsets)
	}
	r.commands = append(r.commands, DrawBatchCommand{Batch: b, Style: style})
	r.stats.Batches++
	r.stats.Batched += b.Len()
}

// Recording is an immutable list of recorded drawing commands.
// It can be replayed to any Backend implementation.
type Recording struct {
	width, height float64
	commands      []Command
	stats         Stats
}

// Width returns the canvas width in millimeters.
func (r *Recording) Width() float64 { return r.width }

// Height returns the canvas height in millimeters.
func (r *Recording) Height() float64 { return r.height }

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command { return r.commands }

// Stats returns the counters gathered while recording.
func (r *Recording) Stats() Stats { return r.stats }

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return fmt.Errorf("recording: begin: %w", err)
	}

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case DrawPrimitiveCommand:
			backend.DrawPrimitive(c.Primitive, c.Style)
		case DrawBatchCommand:
			backend.DrawBatch(c.Batch, c.Style)
		}
	}

	if err := backend.End(); err != nil {
		return fmt.Errorf("recording: end: %w", err)
	}
	return nil
}
