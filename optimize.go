package compose

import (
	"encoding/binary"
	"hash/fnv"
)

// Optimizer rewrites contexts into a shape that backends can batch.
// An Optimizer is immutable and safe for concurrent use.
type Optimizer struct {
	opts optimizerOptions
}

// NewOptimizer creates an optimizer with the given options.
func NewOptimizer(opts ...Option) *Optimizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Optimizer{opts: o}
}

var defaultOptimizer = NewOptimizer()

// Threshold returns the minimum vector length that triggers a split.
func (o *Optimizer) Threshold() int { return o.opts.threshold }

// OptimizeBatching is Optimize with the default configuration.
func OptimizeBatching(ctx *Context) *Context {
	return defaultOptimizer.Optimize(ctx)
}

// splitPlan records the quantities behind a split decision.
type splitPlan struct {
	maxFormLength int
	maxCount      int
	maxUnique     int
	split         bool
}

// plan decides whether splitting ctx is worthwhile.
func (o *Optimizer) plan(ctx *Context) splitPlan {
	var p splitPlan
	for _, f := range ctx.forms {
		p.maxFormLength = max(p.maxFormLength, f.vectorLen())
	}
	if p.maxFormLength < o.opts.threshold {
		return p
	}

	p.maxCount = p.maxFormLength/o.opts.threshold + 1
	limit := p.maxCount
	if o.opts.exactCardinality {
		limit = -1
	}
	for _, prop := range ctx.properties {
		if !prop.IsVector() {
			continue
		}
		p.maxUnique = max(p.maxUnique, countUnique(prop, limit))
	}
	if p.maxUnique == 0 {
		return p
	}

	p.split = p.maxFormLength/p.maxUnique+1 >= o.opts.threshold
	return p
}

// countUnique counts the distinct values of prop. Once the count exceeds
// limit the scan stops and the partial count is returned, so the result is
// exact only up to limit+1. A negative limit counts everything.
func countUnique(prop Property, limit int) int {
	seen := make(map[PropertyValue]struct{})
	for _, v := range prop.items {
		seen[v] = struct{}{}
		if limit >= 0 && len(seen) > limit {
			break
		}
	}
	return len(seen)
}

// Optimize splits ctx into per-style groups when its vector children are
// long and its vector properties take few distinct values.
//
// If no split is worthwhile ctx itself is returned. Otherwise a new
// context is returned; ctx is never modified. The new context keeps the
// scalar forms and properties of ctx in place, drops its vector forms and
// vector properties, and gains one child context per distinct property
// tuple. Each group child holds the filtered vector forms of its indices,
// in their original relative order, and one scalar value per excised
// property. Groups are ordered by the first index that belongs to them
// and are prepended to the pre-existing child contexts rather than
// appended after them. A context draws its forms before its children, so
// this keeps the groups drawn before everything that was drawn after the
// excised forms.
//
// Vector siblings are assumed to share one length and property values are
// assumed free of NaN; neither is checked here (see Context.Validate). A
// NaN value never equals another value, so it ends up in a group of its
// own.
func (o *Optimizer) Optimize(ctx *Context) *Context {
	if ctx == nil {
		return nil
	}
	p := o.plan(ctx)
	if !p.split {
		return ctx
	}

	out := ctx.Clone()
	forms, props := out.excise()
	groups := o.partition(forms[0].Len(), props)

	subs := make([]*Context, 0, len(groups)+len(out.children))
	for _, g := range groups {
		sub := &Context{
			forms:      make([]Form, len(forms)),
			properties: make([]Property, len(props)),
		}
		for j, f := range forms {
			sub.forms[j] = f.Filter(g.indices)
		}
		for j, prop := range props {
			sub.properties[j] = PropertyOf(prop.At(g.indices[0]))
		}
		subs = append(subs, sub)
	}
	out.children = append(subs, out.children...)

	Logger().Debug("compose: split context",
		"elements", forms[0].Len(),
		"groups", len(groups),
		"forms", len(forms),
		"properties", len(props),
		"maxUnique", p.maxUnique)
	return out
}

// excise removes every vector form and vector property from c, in place,
// and returns them in their original relative order.
func (c *Context) excise() (forms []Form, props []Property) {
	keptForms := c.forms[:0]
	for _, f := range c.forms {
		if f.IsVector() {
			forms = append(forms, f)
		} else {
			keptForms = append(keptForms, f)
		}
	}
	c.forms = keptForms

	keptProps := c.properties[:0]
	for _, p := range c.properties {
		if p.IsVector() {
			props = append(props, p)
		} else {
			keptProps = append(keptProps, p)
		}
	}
	c.properties = keptProps
	return forms, props
}

// group is the set of indices sharing one property tuple.
type group struct {
	indices []int
}

// partition groups the indices 0..n-1 by their property tuple across
// props. Keys are an order-sensitive hash of the per-value hashes. With
// collision checking on, indices whose keys match but whose tuples differ
// are chained into separate groups.
func (o *Optimizer) partition(n int, props []Property) []*group {
	var groups []*group
	buckets := make(map[uint64][]*group)

	h := fnv.New64a()
	var buf [8]byte
	for i := range n {
		h.Reset()
		for _, p := range props {
			binary.LittleEndian.PutUint64(buf[:], o.opts.hasher(p.At(i)))
			_, _ = h.Write(buf[:]) // fnv.Write never returns an error
		}
		key := h.Sum64()

		var g *group
		for _, cand := range buckets[key] {
			if !o.opts.collisionCheck || sameTuple(props, cand.indices[0], i) {
				g = cand
				break
			}
		}
		if g == nil {
			g = &group{}
			groups = append(groups, g)
			buckets[key] = append(buckets[key], g)
		}
		g.indices = append(g.indices, i)
	}
	return groups
}

// sameTuple reports whether indices a and b carry equal values on every
// property.
func sameTuple(props []Property, a, b int) bool {
	for _, p := range props {
		if p.At(a) != p.At(b) {
			return false
		}
	}
	return true
}
