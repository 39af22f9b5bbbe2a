package recording

import (
	"image"
	"io"

	"github.com/gogpu/compose"
)

// Backend is the interface that all output backends must implement.
// Backends receive already-optimized drawing commands and translate them
// to their output format (raster pixels, SVG elements, ...).
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Draw a FormBatch exactly as if every primitive of
//     batch.Primitives() had been passed to DrawPrimitive in order
//  3. Choose its own strategy for batches (cached stamp, <use> tag, ...)
type Backend interface {
	// Begin initializes the backend for a canvas of the given size in
	// millimeters. It must be called before any drawing operations.
	Begin(width, height float64) error

	// End finalizes the rendering and prepares the output.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error

	// DrawPrimitive draws one primitive with its resolved style.
	DrawPrimitive(p compose.Primitive, style compose.Style)

	// DrawBatch draws the batch template once per offset, all with the
	// same style.
	DrawBatch(batch compose.FormBatch, style compose.Style)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// ImageBackend extends Backend with access to rasterized pixels.
type ImageBackend interface {
	Backend

	// Image returns the rendered image, or nil before End().
	Image() image.Image
}
