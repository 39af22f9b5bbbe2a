package compose

// DefaultLineWidth is the stroke width in millimeters used when no
// LineWidth property is in effect.
const DefaultLineWidth = 0.3

// Style is the resolved set of property values in effect for one
// primitive: at most one value per PropertyKind. Style is comparable.
type Style struct {
	values [numPropertyKinds]PropertyValue
}

// StyleOf returns a style holding vs. Later values override earlier ones
// of the same kind.
func StyleOf(vs ...PropertyValue) Style {
	var s Style
	for _, v := range vs {
		s = s.With(v)
	}
	return s
}

// With returns s with v in effect.
func (s Style) With(v PropertyValue) Style {
	if v == nil {
		return s
	}
	if k := v.Kind(); k >= 0 && k < numPropertyKinds {
		s.values[k] = v
	}
	return s
}

// Get returns the value in effect for kind.
func (s Style) Get(kind PropertyKind) (PropertyValue, bool) {
	if kind < 0 || kind >= numPropertyKinds {
		return nil, false
	}
	v := s.values[kind]
	return v, v != nil
}

// FillColor returns the fill color with FillOpacity applied. The second
// result is false when no Fill is in effect; backends then use black,
// matching SVG.
func (s Style) FillColor() (RGBA, bool) {
	c := Black
	f, ok := s.values[PropFill].(Fill)
	if ok {
		c = f.Color
	}
	if o, has := s.values[PropFillOpacity].(FillOpacity); has {
		c.A *= o.Opacity
	}
	return c, ok
}

// StrokeColor returns the stroke color with StrokeOpacity applied. The
// second result is false when no Stroke is in effect and nothing should be
// stroked.
func (s Style) StrokeColor() (RGBA, bool) {
	st, ok := s.values[PropStroke].(Stroke)
	if !ok {
		return RGBA{}, false
	}
	c := st.Color
	if o, has := s.values[PropStrokeOpacity].(StrokeOpacity); has {
		c.A *= o.Opacity
	}
	return c, true
}

// LineWidth returns the stroke width in effect.
func (s Style) LineWidth() float64 {
	if w, ok := s.values[PropLineWidth].(LineWidth); ok {
		return w.Width
	}
	return DefaultLineWidth
}

// Drawable is one primitive with its resolved style.
type Drawable struct {
	Primitive Primitive
	Style     Style
}

// Flatten returns every primitive reachable from ctx with its resolved
// style, in draw order.
//
// Scalar properties of a context apply to its forms and are inherited by
// its descendants. Vector properties apply only to the sibling vector
// forms, element by element, and take precedence over scalar properties
// of the same kind. Among properties of the same vectorness a later one
// overrides an earlier one.
func Flatten(ctx *Context) []Drawable {
	var out []Drawable
	flatten(ctx, Style{}, &out)
	return out
}

func flatten(ctx *Context, inherited Style, out *[]Drawable) {
	if ctx == nil {
		return
	}
	base := ResolveScalar(ctx, inherited)

	for _, f := range ctx.forms {
		if !f.IsVector() {
			*out = append(*out, Drawable{Primitive: f.At(0), Style: base})
			continue
		}
		for i := range f.Len() {
			*out = append(*out, Drawable{
				Primitive: f.At(i),
				Style:     ResolveIndex(ctx, base, i),
			})
		}
	}
	for _, child := range ctx.children {
		flatten(child, base, out)
	}
}

// ResolveScalar returns inherited with the scalar properties of ctx
// applied.
func ResolveScalar(ctx *Context, inherited Style) Style {
	s := inherited
	for _, p := range ctx.properties {
		if !p.IsVector() {
			s = s.With(p.items[0])
		}
	}
	return s
}

// ResolveIndex returns the style of element i of the vector forms of ctx,
// where base is the result of ResolveScalar.
func ResolveIndex(ctx *Context, base Style, i int) Style {
	s := base
	for _, p := range ctx.properties {
		if p.IsVector() {
			s = s.With(p.At(min(i, p.Len()-1)))
		}
	}
	return s
}

// HasVectorProperties reports whether ctx binds any property by index.
func HasVectorProperties(ctx *Context) bool {
	for _, p := range ctx.properties {
		if p.IsVector() {
			return true
		}
	}
	return false
}
