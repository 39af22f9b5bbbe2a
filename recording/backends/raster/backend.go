// Package raster provides a raster backend for the recording system.
// It renders recordings to an RGBA image with golang.org/x/image/vector.
//
// Every primitive is rasterized into a coverage mask positioned on a
// quarter-pixel grid, then composited onto the canvas with the style's
// fill or stroke color. Batches reuse one cached mask per subpixel phase
// of the template, so a batch of a thousand circles rasterizes at most
// sixteen masks per paint.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/compose/recording/backends/raster"
//
//	// Create via registry
//	backend, _ := recording.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend(raster.WithScale(8))
//
//	// Playback recording
//	rec.Playback(backend)
//
//	// Get output
//	backend.SaveToFile("output.png")
//	img := backend.Image()
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/internal/stamp"
	"github.com/gogpu/compose/recording"
)

// DefaultScale is the default resolution in pixels per millimeter
// (about 100 dpi).
const DefaultScale = 4.0

var (
	// ErrInvalidSize is returned by Begin for negative or non-finite sizes.
	ErrInvalidSize = errors.New("raster: invalid canvas size")

	// ErrNotRendered is returned by output methods called before End.
	ErrNotRendered = errors.New("raster: nothing rendered")
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	background compose.RGBA
	scale      float64
	stamps     int
}

// WithBackground sets the color the canvas is cleared to. The default is
// white.
func WithBackground(c compose.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithScale sets the resolution in pixels per millimeter. Values <= 0 are
// ignored.
func WithScale(pxPerMM float64) Option {
	return func(o *options) {
		if pxPerMM > 0 {
			o.scale = pxPerMM
		}
	}
}

// WithStampCache sets how many batch masks are kept per cache shard.
// A negative capacity disables the cache; batches are then rasterized one
// placement at a time.
func WithStampCache(capacity int) Option {
	return func(o *options) {
		o.stamps = capacity
	}
}

// Backend renders recordings to a pixel image.
// It implements recording.Backend, recording.WriterBackend,
// recording.FileBackend, and recording.ImageBackend.
type Backend struct {
	opts   options
	img    *image.RGBA
	stamps *stamp.Cache
	done   bool
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend(opts ...Option) *Backend {
	o := options{
		background: compose.White,
		scale:      DefaultScale,
	}
	for _, opt := range opts {
		opt(&o)
	}
	b := &Backend{opts: o}
	if o.stamps >= 0 {
		b.stamps = stamp.New(o.stamps)
	}
	return b
}

// Begin allocates a canvas for width x height millimeters and clears it
// to the background color.
func (b *Backend) Begin(width, height float64) error {
	if !validSize(width) || !validSize(height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	w := int(math.Ceil(width * b.opts.scale))
	h := int(math.Ceil(height * b.opts.scale))
	b.img = image.NewRGBA(image.Rect(0, 0, w, h))
	b.done = false
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(b.opts.background.NRGBA()), image.Point{}, draw.Src)
	return nil
}

func validSize(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// End finalizes the rendering.
// After End is called, output methods (WriteTo, SaveToFile) can be used.
func (b *Backend) End() error {
	if b.img == nil {
		return ErrNotRendered
	}
	b.done = true
	if b.stamps != nil {
		st := b.stamps.Stats()
		compose.Logger().Debug("raster: finished",
			"width", b.img.Bounds().Dx(),
			"height", b.img.Bounds().Dy(),
			"stamps", st.Len,
			"stampHits", st.Hits,
			"stampMisses", st.Misses)
	}
	return nil
}

// DrawPrimitive fills, then strokes, a single primitive.
func (b *Backend) DrawPrimitive(p compose.Primitive, style compose.Style) {
	if b.img == nil || p == nil {
		return
	}
	bounds := p.Bounds()
	shape := p.Translate(compose.Pt(-bounds.Min.X, -bounds.Min.Y))
	b.paint(shape, bounds.Min, style, false)
}

// DrawBatch draws the template at every offset. Masks are shared between
// placements with the same subpixel phase.
func (b *Backend) DrawBatch(batch compose.FormBatch, style compose.Style) {
	if b.img == nil || batch.Template == nil {
		return
	}
	bounds := batch.Template.Bounds()
	shape := batch.Template.Translate(compose.Pt(-bounds.Min.X, -bounds.Min.Y))
	for _, off := range batch.Offsets {
		b.paint(shape, bounds.Min.Add(off), style, b.stamps != nil)
	}
}

// paint composites shape, normalized so that its bounds start at the
// origin, with its bounds' top-left corner placed at anchor (in mm).
func (b *Backend) paint(shape compose.Primitive, anchor compose.Point, style compose.Style, cached bool) {
	if shape.Kind() != compose.KindLine {
		if c, _ := style.FillColor(); c.A > 0 {
			b.composite(shape, anchor, false, 0, c, cached)
		}
	}
	if c, ok := style.StrokeColor(); ok && c.A > 0 {
		if w := style.LineWidth(); w > 0 {
			b.composite(shape, anchor, true, w, c, cached)
		}
	}
}

func (b *Backend) composite(shape compose.Primitive, anchor compose.Point, stroke bool, width float64, c compose.RGBA, cached bool) {
	s := b.opts.scale
	ix, qx := quantize(anchor.X * s)
	iy, qy := quantize(anchor.Y * s)
	key := stamp.Key{
		Shape:  shape,
		Stroke: stroke,
		Width:  width,
		Scale:  s,
		PhaseX: qx,
		PhaseY: qy,
	}

	var mask *image.Alpha
	if cached {
		mask = b.stamps.GetOrCreate(key, func() *image.Alpha { return rasterize(key) })
	} else {
		mask = rasterize(key)
	}

	m := margin(key)
	r := mask.Bounds().Add(image.Pt(ix-m, iy-m))
	draw.DrawMask(b.img, r, image.NewUniform(c.NRGBA()), image.Point{}, mask, image.Point{}, draw.Over)
}

// quantize splits a pixel coordinate into its integer part and a phase in
// quarters of a pixel.
func quantize(v float64) (int, uint8) {
	i := math.Floor(v)
	q := math.Round((v - i) * 4)
	if q == 4 {
		return int(i) + 1, 0
	}
	return int(i), uint8(q)
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, ErrNotRendered
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.img)
	return cw.n, err
}

// SaveToFile saves the rendered content as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	if !b.done {
		return ErrNotRendered
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if err := png.Encode(f, b.img); err != nil {
		_ = f.Close()
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return f.Close()
}

// Image returns the rendered image, or nil before End.
func (b *Backend) Image() image.Image {
	if !b.done {
		return nil
	}
	return b.img
}

// Width returns the canvas width in pixels.
func (b *Backend) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dx()
}

// Height returns the canvas height in pixels.
func (b *Backend) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dy()
}

// StampStats returns the counters of the batch mask cache.
func (b *Backend) StampStats() stamp.Stats {
	if b.stamps == nil {
		return stamp.Stats{}
	}
	return b.stamps.Stats()
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
