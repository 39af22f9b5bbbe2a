package compose

import "fmt"

// PrimitiveKind identifies the shape of a Primitive.
type PrimitiveKind int

const (
	// KindCircle is a Circle.
	KindCircle PrimitiveKind = iota

	// KindEllipse is an Ellipse.
	KindEllipse

	// KindRectangle is a Rectangle.
	KindRectangle

	// KindLine is a Line.
	KindLine
)

var primitiveKindNames = [...]string{
	KindCircle:    "Circle",
	KindEllipse:   "Ellipse",
	KindRectangle: "Rectangle",
	KindLine:      "Line",
}

// String returns the name of the kind.
func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveKindNames) && k >= 0 {
		return primitiveKindNames[k]
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(k))
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the height of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Primitive describes a single shape. All implementations are comparable
// value types, so two primitives are identical iff they compare equal
// with ==.
//
// The set of primitives is closed: new shapes are added in this package
// together with a matching case in TryBatch.
type Primitive interface {
	// Kind returns the shape kind.
	Kind() PrimitiveKind

	// Bounds returns the bounding box of the shape.
	Bounds() Rect

	// Translate returns the shape moved by d.
	Translate(d Point) Primitive

	isPrimitive()
}

// Circle is a circle given by its center and radius.
type Circle struct {
	Center Point
	Radius float64
}

// Kind implements Primitive.
func (Circle) Kind() PrimitiveKind { return KindCircle }

// Bounds implements Primitive.
func (c Circle) Bounds() Rect {
	return Rect{
		Min: Pt(c.Center.X-c.Radius, c.Center.Y-c.Radius),
		Max: Pt(c.Center.X+c.Radius, c.Center.Y+c.Radius),
	}
}

// Translate implements Primitive.
func (c Circle) Translate(d Point) Primitive {
	c.Center = c.Center.Add(d)
	return c
}

func (Circle) isPrimitive() {}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center Point
	RX, RY float64
}

// Kind implements Primitive.
func (Ellipse) Kind() PrimitiveKind { return KindEllipse }

// Bounds implements Primitive.
func (e Ellipse) Bounds() Rect {
	return Rect{
		Min: Pt(e.Center.X-e.RX, e.Center.Y-e.RY),
		Max: Pt(e.Center.X+e.RX, e.Center.Y+e.RY),
	}
}

// Translate implements Primitive.
func (e Ellipse) Translate(d Point) Primitive {
	e.Center = e.Center.Add(d)
	return e
}

func (Ellipse) isPrimitive() {}

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	Min           Point
	Width, Height float64
}

// Kind implements Primitive.
func (Rectangle) Kind() PrimitiveKind { return KindRectangle }

// Bounds implements Primitive. Negative sizes extend the rectangle to the
// left or upwards.
func (r Rectangle) Bounds() Rect {
	x0, x1 := r.Min.X, r.Min.X+r.Width
	y0, y1 := r.Min.Y, r.Min.Y+r.Height
	return Rect{Min: Pt(min(x0, x1), min(y0, y1)), Max: Pt(max(x0, x1), max(y0, y1))}
}

// Translate implements Primitive.
func (r Rectangle) Translate(d Point) Primitive {
	r.Min = r.Min.Add(d)
	return r
}

func (Rectangle) isPrimitive() {}

// Line is a straight segment.
type Line struct {
	From, To Point
}

// Kind implements Primitive.
func (Line) Kind() PrimitiveKind { return KindLine }

// Bounds implements Primitive.
func (l Line) Bounds() Rect {
	return Rect{
		Min: Pt(min(l.From.X, l.To.X), min(l.From.Y, l.To.Y)),
		Max: Pt(max(l.From.X, l.To.X), max(l.From.Y, l.To.Y)),
	}
}

// Translate implements Primitive.
func (l Line) Translate(d Point) Primitive {
	l.From = l.From.Add(d)
	l.To = l.To.Add(d)
	return l
}

func (Line) isPrimitive() {}
