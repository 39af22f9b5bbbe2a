package compose

import (
	"errors"
	"fmt"
	"slices"
)

// Errors reported by Context.Validate.
var (
	// ErrLengthMismatch is returned when vector siblings in one context
	// have different lengths.
	ErrLengthMismatch = errors.New("compose: vector siblings have different lengths")

	// ErrEmptyValue is returned for a form or property with no values.
	ErrEmptyValue = errors.New("compose: empty form or property")

	// ErrMixedKinds is returned for a vector property whose values set
	// different attributes.
	ErrMixedKinds = errors.New("compose: vector property mixes property kinds")

	// ErrDuplicateKind is returned when one context sets the same property
	// kind more than once.
	ErrDuplicateKind = errors.New("compose: property kind set twice in one context")

	// ErrNaN is returned for a property value holding NaN. NaN is unequal
	// to itself, so such values can be neither grouped nor counted.
	ErrNaN = errors.New("compose: NaN property value")
)

// Context is a node of the scene graph. It holds ordered form children,
// ordered property children and ordered child contexts.
//
// A context draws its forms in order, then its child contexts in order.
// Its properties style its own forms and are inherited by descendants;
// a descendant property of the same kind takes precedence. Vector forms
// and vector properties of the same context are bound by index.
//
// Every child context is owned by exactly one parent. Contexts built with
// Add are mutable until handed to the optimizer or a recorder; from then
// on they must be treated as read-only.
type Context struct {
	forms      []Form
	properties []Property
	children   []*Context
}

// NewContext creates a context holding the given nodes.
func NewContext(nodes ...Node) *Context {
	c := &Context{}
	c.Add(nodes...)
	return c
}

// Add appends each node to the matching child list, preserving order.
// Nil contexts are ignored. Add returns c for chaining.
func (c *Context) Add(nodes ...Node) *Context {
	for _, n := range nodes {
		switch n := n.(type) {
		case Form:
			c.forms = append(c.forms, n)
		case Property:
			c.properties = append(c.properties, n)
		case *Context:
			if n != nil {
				c.children = append(c.children, n)
			}
		}
	}
	return c
}

// Compose returns a shallow copy of parent with nodes appended. parent is
// not modified.
func Compose(parent *Context, nodes ...Node) *Context {
	return parent.Clone().Add(nodes...)
}

// Clone returns a shallow copy of c. The copy owns its child lists, so
// adding or removing children does not affect c; forms, properties and
// child contexts themselves are shared.
func (c *Context) Clone() *Context {
	return &Context{
		forms:      slices.Clone(c.forms),
		properties: slices.Clone(c.properties),
		children:   slices.Clone(c.children),
	}
}

// Forms returns the form children in order.
func (c *Context) Forms() []Form { return slices.Clone(c.forms) }

// Properties returns the property children in order.
func (c *Context) Properties() []Property { return slices.Clone(c.properties) }

// Children returns the child contexts in order.
func (c *Context) Children() []*Context { return slices.Clone(c.children) }

// NumForms returns the number of form children.
func (c *Context) NumForms() int { return len(c.forms) }

// NumProperties returns the number of property children.
func (c *Context) NumProperties() int { return len(c.properties) }

// NumChildren returns the number of child contexts.
func (c *Context) NumChildren() int { return len(c.children) }

func (*Context) isNode() {}

// Validate checks the tree rooted at c for the construction invariants the
// optimizer relies on: non-empty values, single-kind vector properties, at
// most one property per kind in each context and a common length among
// vector siblings, and no NaN property values. The optimizer itself never
// calls Validate.
func (c *Context) Validate() error {
	n := -1
	check := func(what string, i, l int) error {
		if n < 0 {
			n = l
			return nil
		}
		if l != n {
			return fmt.Errorf("%w: %s %d has length %d, want %d", ErrLengthMismatch, what, i, l, n)
		}
		return nil
	}
	for i, f := range c.forms {
		if f.Len() == 0 {
			return fmt.Errorf("%w: form %d", ErrEmptyValue, i)
		}
		if f.IsVector() {
			if err := check("form", i, f.Len()); err != nil {
				return err
			}
		}
	}
	var kinds [numPropertyKinds]bool
	for i, p := range c.properties {
		if p.Len() == 0 {
			return fmt.Errorf("%w: property %d", ErrEmptyValue, i)
		}
		if k := p.Kind(); k >= 0 && k < numPropertyKinds {
			if kinds[k] {
				return fmt.Errorf("%w: %v", ErrDuplicateKind, k)
			}
			kinds[k] = true
		}
		for _, v := range p.items {
			if isNaN(v) {
				return fmt.Errorf("%w: property %d", ErrNaN, i)
			}
		}
		if !p.IsVector() {
			continue
		}
		kind := p.Kind()
		for _, v := range p.items {
			if v.Kind() != kind {
				return fmt.Errorf("%w: property %d", ErrMixedKinds, i)
			}
		}
		if err := check("property", i, p.Len()); err != nil {
			return err
		}
	}
	for _, child := range c.children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}
