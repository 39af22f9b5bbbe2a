// Package svg provides an SVG backend for the recording system.
//
// Coordinates are written in millimeters: the root element carries
// width="…mm" and a matching viewBox. Single primitives become <circle>,
// <ellipse>, <rect> and <line> elements. A batch defines its template once
// in <defs> and places it with one <use> per offset inside a <g> that
// carries the shared style, which is where batching pays off in document
// size.
//
// # Example
//
//	import _ "github.com/gogpu/compose/recording/backends/svg"
//
//	backend, _ := recording.NewBackend("svg")
//	rec.Playback(backend)
//	backend.(recording.FileBackend).SaveToFile("output.svg")
package svg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/recording"
)

var (
	// ErrInvalidSize is returned by Begin for negative or non-finite sizes.
	ErrInvalidSize = errors.New("svg: invalid canvas size")

	// ErrNotRendered is returned by output methods called before End.
	ErrNotRendered = errors.New("svg: nothing rendered")
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	})
}

// Backend writes recordings as an SVG document.
type Backend struct {
	buf       bytes.Buffer
	templates map[compose.Primitive]string
	begun     bool
	done      bool
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a new SVG backend.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(&b.buf, format, a...)
}

// Begin starts a document for a width x height millimeter canvas.
func (b *Backend) Begin(width, height float64) error {
	if !validSize(width) || !validSize(height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	b.buf.Reset()
	b.templates = make(map[compose.Primitive]string)
	b.begun, b.done = true, false

	w, h := num(width), num(height)
	b.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="%smm" height="%smm" viewBox="0 0 %s %s">
`, w, h, w, h)
	return nil
}

func validSize(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// End closes the document.
func (b *Backend) End() error {
	if !b.begun {
		return ErrNotRendered
	}
	b.printf("</svg>\n")
	b.begun, b.done = false, true
	compose.Logger().Debug("svg: finished", "bytes", b.buf.Len(), "templates", len(b.templates))
	return nil
}

// DrawPrimitive writes one styled element.
func (b *Backend) DrawPrimitive(p compose.Primitive, style compose.Style) {
	if !b.begun || p == nil {
		return
	}
	b.buf.WriteString(element(p, "", attrs(p.Kind(), style)))
}

// DrawBatch writes the template into <defs> on first use, then one <use>
// per offset inside a styled group.
func (b *Backend) DrawBatch(batch compose.FormBatch, style compose.Style) {
	if !b.begun || batch.Template == nil || batch.Len() == 0 {
		return
	}
	id, ok := b.templates[batch.Template]
	if !ok {
		id = "t" + strconv.Itoa(len(b.templates))
		b.templates[batch.Template] = id
		b.printf("<defs>\n%s</defs>\n", element(batch.Template, id, ""))
	}

	b.printf("<g%s>\n", attrs(batch.Template.Kind(), style))
	for _, o := range batch.Offsets {
		b.printf(`<use xlink:href="#%s" x="%s" y="%s"/>`+"\n", id, num(o.X), num(o.Y))
	}
	b.printf("</g>\n")
}

// element renders p. extra is appended to its attributes.
func element(p compose.Primitive, id, extra string) string {
	idAttr := ""
	if id != "" {
		idAttr = fmt.Sprintf(` id="%s"`, id)
	}
	switch p := p.(type) {
	case compose.Circle:
		return fmt.Sprintf(`<circle%s cx="%s" cy="%s" r="%s"%s/>`+"\n",
			idAttr, num(p.Center.X), num(p.Center.Y), num(p.Radius), extra)
	case compose.Ellipse:
		return fmt.Sprintf(`<ellipse%s cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
			idAttr, num(p.Center.X), num(p.Center.Y), num(p.RX), num(p.RY), extra)
	case compose.Rectangle:
		r := p.Bounds()
		return fmt.Sprintf(`<rect%s x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			idAttr, num(r.Min.X), num(r.Min.Y), num(r.Width()), num(r.Height()), extra)
	case compose.Line:
		return fmt.Sprintf(`<line%s x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			idAttr, num(p.From.X), num(p.From.Y), num(p.To.X), num(p.To.Y), extra)
	}
	return fmt.Sprintf("<g%s%s/>\n", idAttr, extra)
}

// attrs renders the presentation attributes of style, each with a leading
// space.
func attrs(kind compose.PrimitiveKind, style compose.Style) string {
	var buf bytes.Buffer
	if kind != compose.KindLine {
		c, _ := style.FillColor()
		fmt.Fprintf(&buf, ` fill="%s"`, hex(c))
		if c.A < 1 {
			fmt.Fprintf(&buf, ` fill-opacity="%s"`, num(c.A))
		}
	}
	if c, ok := style.StrokeColor(); ok {
		fmt.Fprintf(&buf, ` stroke="%s" stroke-width="%s"`, hex(c), num(style.LineWidth()))
		if c.A < 1 {
			fmt.Fprintf(&buf, ` stroke-opacity="%s"`, num(c.A))
		}
	}
	return buf.String()
}

func hex(c compose.RGBA) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// num formats v with at most four decimals, which is a tenth of a micron.
func num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// WriteTo writes the document to w.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, ErrNotRendered
	}
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// SaveToFile writes the document to a file.
func (b *Backend) SaveToFile(path string) error {
	if !b.done {
		return ErrNotRendered
	}
	if err := os.WriteFile(path, b.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("svg: %w", err)
	}
	return nil
}

// Bytes returns the finished document, or nil before End.
func (b *Backend) Bytes() []byte {
	if !b.done {
		return nil
	}
	return b.buf.Bytes()
}
