package compose

// Node is anything that can be composed into a Context: a Form, a
// Property or a child *Context.
type Node interface {
	isNode()
}

// seq is an ordered list of values that is either a scalar (one value that
// applies to every sibling primitive) or a vector (one value per index).
type seq[T any] struct {
	items  []T
	vector bool
}

// Len returns the number of values. A scalar has length 1.
func (s seq[T]) Len() int { return len(s.items) }

// IsVector reports whether the values are positionally bound to siblings.
func (s seq[T]) IsVector() bool { return s.vector }

// At returns the i-th value. For a scalar every index yields the single value.
func (s seq[T]) At(i int) T {
	if !s.vector {
		return s.items[0]
	}
	return s.items[i]
}

// vectorLen returns the length of a vector and 0 for a scalar.
func (s seq[T]) vectorLen() int {
	if !s.vector {
		return 0
	}
	return len(s.items)
}

func (s seq[T]) filter(indices []int) seq[T] {
	items := make([]T, len(indices))
	for k, i := range indices {
		items[k] = s.items[i]
	}
	return seq[T]{items: items, vector: true}
}

// Form is a form child of a Context: one primitive or a vector of
// primitives. Forms are immutable after construction.
type Form struct {
	seq[Primitive]
}

// FormOf returns a scalar form holding p.
func FormOf(p Primitive) Form {
	return Form{seq[Primitive]{items: []Primitive{p}}}
}

// Forms returns a vector form holding ps in order. The slice is copied.
func Forms(ps ...Primitive) Form {
	return Form{seq[Primitive]{items: append([]Primitive(nil), ps...), vector: true}}
}

// CircleForms returns a vector form of circles with a shared radius.
func CircleForms(centers []Point, radius float64) Form {
	ps := make([]Primitive, len(centers))
	for i, c := range centers {
		ps[i] = Circle{Center: c, Radius: radius}
	}
	return Form{seq[Primitive]{items: ps, vector: true}}
}

// Primitives returns a copy of the primitives in the form.
func (f Form) Primitives() []Primitive {
	return append([]Primitive(nil), f.items...)
}

// Filter returns a vector form holding the elements at indices, in the
// order given.
func (f Form) Filter(indices []int) Form {
	return Form{f.filter(indices)}
}

func (Form) isNode() {}

// Property is a property child of a Context: one style value or a vector
// of style values of the same kind. Properties are immutable after
// construction.
type Property struct {
	seq[PropertyValue]
}

// PropertyOf returns a scalar property holding v.
func PropertyOf(v PropertyValue) Property {
	return Property{seq[PropertyValue]{items: []PropertyValue{v}}}
}

// Properties returns a vector property holding vs in order. All values
// should share one PropertyKind. The slice is copied.
func Properties(vs ...PropertyValue) Property {
	return Property{seq[PropertyValue]{items: append([]PropertyValue(nil), vs...), vector: true}}
}

// Fills returns a vector fill property.
func Fills(colors ...RGBA) Property {
	vs := make([]PropertyValue, len(colors))
	for i, c := range colors {
		vs[i] = Fill{Color: c}
	}
	return Property{seq[PropertyValue]{items: vs, vector: true}}
}

// Kind returns the kind of the values held.
func (p Property) Kind() PropertyKind {
	return p.items[0].Kind()
}

// Values returns a copy of the values in the property.
func (p Property) Values() []PropertyValue {
	return append([]PropertyValue(nil), p.items...)
}

// Filter returns a vector property holding the elements at indices, in
// the order given.
func (p Property) Filter(indices []int) Property {
	return Property{p.filter(indices)}
}

func (Property) isNode() {}
