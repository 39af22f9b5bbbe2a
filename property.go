package compose

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// PropertyKind identifies the style attribute a PropertyValue sets.
type PropertyKind int

const (
	// PropFill is the fill color.
	PropFill PropertyKind = iota

	// PropStroke is the stroke color.
	PropStroke

	// PropLineWidth is the stroke width in millimeters.
	PropLineWidth

	// PropFillOpacity multiplies the fill alpha.
	PropFillOpacity

	// PropStrokeOpacity multiplies the stroke alpha.
	PropStrokeOpacity

	numPropertyKinds
)

var propertyKindNames = [...]string{
	PropFill:          "Fill",
	PropStroke:        "Stroke",
	PropLineWidth:     "LineWidth",
	PropFillOpacity:   "FillOpacity",
	PropStrokeOpacity: "StrokeOpacity",
}

// String returns the name of the kind.
func (k PropertyKind) String() string {
	if k >= 0 && k < numPropertyKinds {
		return propertyKindNames[k]
	}
	return fmt.Sprintf("PropertyKind(%d)", int(k))
}

// PropertyValue is a single style attribute. Implementations are comparable
// value types; equality is ==. Hash is deterministic across runs.
type PropertyValue interface {
	// Kind returns the attribute this value sets.
	Kind() PropertyKind

	// Hash returns a deterministic 64-bit hash of the value.
	Hash() uint64

	isProperty()
}

// Fill sets the fill color.
type Fill struct {
	Color RGBA
}

// Kind implements PropertyValue.
func (Fill) Kind() PropertyKind { return PropFill }

// Hash implements PropertyValue.
func (f Fill) Hash() uint64 { return hashFloats(PropFill, f.Color.R, f.Color.G, f.Color.B, f.Color.A) }

func (Fill) isProperty() {}

// Stroke sets the stroke color.
type Stroke struct {
	Color RGBA
}

// Kind implements PropertyValue.
func (Stroke) Kind() PropertyKind { return PropStroke }

// Hash implements PropertyValue.
func (s Stroke) Hash() uint64 {
	return hashFloats(PropStroke, s.Color.R, s.Color.G, s.Color.B, s.Color.A)
}

func (Stroke) isProperty() {}

// LineWidth sets the stroke width.
type LineWidth struct {
	Width float64
}

// Kind implements PropertyValue.
func (LineWidth) Kind() PropertyKind { return PropLineWidth }

// Hash implements PropertyValue.
func (w LineWidth) Hash() uint64 { return hashFloats(PropLineWidth, w.Width) }

func (LineWidth) isProperty() {}

// FillOpacity multiplies the alpha of the fill color.
type FillOpacity struct {
	Opacity float64
}

// Kind implements PropertyValue.
func (FillOpacity) Kind() PropertyKind { return PropFillOpacity }

// Hash implements PropertyValue.
func (o FillOpacity) Hash() uint64 { return hashFloats(PropFillOpacity, o.Opacity) }

func (FillOpacity) isProperty() {}

// StrokeOpacity multiplies the alpha of the stroke color.
type StrokeOpacity struct {
	Opacity float64
}

// Kind implements PropertyValue.
func (StrokeOpacity) Kind() PropertyKind { return PropStrokeOpacity }

// Hash implements PropertyValue.
func (o StrokeOpacity) Hash() uint64 { return hashFloats(PropStrokeOpacity, o.Opacity) }

func (StrokeOpacity) isProperty() {}

// isNaN reports whether any component of v is NaN.
func isNaN(v PropertyValue) bool {
	switch v := v.(type) {
	case Fill:
		return v.Color.hasNaN()
	case Stroke:
		return v.Color.hasNaN()
	case LineWidth:
		return math.IsNaN(v.Width)
	case FillOpacity:
		return math.IsNaN(v.Opacity)
	case StrokeOpacity:
		return math.IsNaN(v.Opacity)
	}
	return false
}

func (c RGBA) hasNaN() bool {
	return math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B) || math.IsNaN(c.A)
}

// hashFloats computes FNV-1a over the kind tag followed by the IEEE bits
// of each value. Negative zero is folded into zero so that values equal
// under == hash equally.
func hashFloats(kind PropertyKind, vs ...float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(kind))
	_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	for _, v := range vs {
		if v == 0 {
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
