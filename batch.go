package compose

import "slices"

// OffsetTolerance is the L1 distance in millimeters under which two batch
// offsets are considered the same placement.
const OffsetTolerance = 0.05

// FormBatch is a template primitive drawn once per offset. Drawing the
// batch is equivalent to drawing Template.Translate(o) for every o in
// Offsets, in order.
//
// A FormBatch is produced by TryBatch at draw time. It is not a Node and
// never appears inside a Context.
type FormBatch struct {
	Template Primitive
	Offsets  []Point
}

// Len returns the number of placements.
func (b FormBatch) Len() int { return len(b.Offsets) }

// Primitives expands the batch back into one primitive per offset.
func (b FormBatch) Primitives() []Primitive {
	ps := make([]Primitive, len(b.Offsets))
	for i, o := range b.Offsets {
		ps[i] = b.Template.Translate(o)
	}
	return ps
}

// TryBatch reports whether prims can be drawn as one template plus
// per-instance offsets and, if so, returns that batch.
//
// A single primitive always matches: the template is the primitive itself
// with a zero offset, and callers gain nothing from drawing it as a batch.
// Circles match when every element has the same radius; the template is
// then a circle of that radius at the origin and the offsets are the
// original centers in order. Every other input returns false and must be
// drawn unbatched.
func TryBatch(prims []Primitive) (FormBatch, bool) {
	switch len(prims) {
	case 0:
		return FormBatch{}, false
	case 1:
		return FormBatch{Template: prims[0], Offsets: []Point{{}}}, true
	}

	switch first := prims[0].(type) {
	case Circle:
		return batchCircles(first, prims)
	default:
		return FormBatch{}, false
	}
}

// TryBatchForm is TryBatch over the primitives of f.
func TryBatchForm(f Form) (FormBatch, bool) {
	return TryBatch(f.items)
}

func batchCircles(first Circle, prims []Primitive) (FormBatch, bool) {
	offsets := make([]Point, len(prims))
	for i, p := range prims {
		c, ok := p.(Circle)
		if !ok || c.Radius != first.Radius {
			return FormBatch{}, false
		}
		offsets[i] = c.Center
	}
	return FormBatch{
		Template: Circle{Radius: first.Radius},
		Offsets:  offsets,
	}, true
}

// FilterRedundantOffsets returns offsets sorted by Point.Less with
// near-duplicates removed. A point is dropped when its L1 distance to the
// last retained point is at most OffsetTolerance. The input is not
// modified.
//
// Because each candidate is compared with the last retained point rather
// than its sorted neighbour, a chain of closely spaced points keeps one
// point every time the accumulated distance exceeds the tolerance.
func FilterRedundantOffsets(offsets []Point) []Point {
	if len(offsets) == 0 {
		return []Point{}
	}

	sorted := slices.Clone(offsets)
	slices.SortFunc(sorted, Point.Compare)

	kept := sorted[:1]
	last := sorted[0]
	for _, p := range sorted[1:] {
		if p.ManhattanDistance(last) <= OffsetTolerance {
			continue
		}
		kept = append(kept, p)
		last = p
	}
	return kept
}
