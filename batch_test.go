package compose

import (
	"testing"
)

func TestTryBatch_Circles(t *testing.T) {
	centers := []Point{Pt(1, 2), Pt(10, 20), Pt(-3, 4.5), Pt(1, 2)}
	prims := make([]Primitive, len(centers))
	for i, c := range centers {
		prims[i] = Circle{Center: c, Radius: 5}
	}

	b, ok := TryBatch(prims)
	if !ok {
		t.Fatal("TryBatch() = false, want true for equal radii")
	}
	tmpl, isCircle := b.Template.(Circle)
	if !isCircle {
		t.Fatalf("Template = %T, want Circle", b.Template)
	}
	if tmpl.Radius != 5 {
		t.Errorf("Template.Radius = %v, want 5", tmpl.Radius)
	}
	if tmpl.Center != (Point{}) {
		t.Errorf("Template.Center = %v, want origin", tmpl.Center)
	}
	if b.Len() != len(centers) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(centers))
	}
	for i, c := range centers {
		if b.Offsets[i] != c {
			t.Errorf("Offsets[%d] = %v, want %v", i, b.Offsets[i], c)
		}
	}

	// Expanding the batch gives back the input.
	for i, p := range b.Primitives() {
		if p != prims[i] {
			t.Errorf("Primitives()[%d] = %v, want %v", i, p, prims[i])
		}
	}
}

func TestTryBatch_NoMatch(t *testing.T) {
	tests := []struct {
		name  string
		prims []Primitive
	}{
		{
			name:  "empty",
			prims: nil,
		},
		{
			name: "radius mismatch",
			prims: []Primitive{
				Circle{Center: Pt(0, 0), Radius: 5},
				Circle{Center: Pt(1, 0), Radius: 5},
				Circle{Center: Pt(2, 0), Radius: 7},
			},
		},
		{
			name: "mixed kinds",
			prims: []Primitive{
				Circle{Center: Pt(0, 0), Radius: 5},
				Ellipse{Center: Pt(1, 0), RX: 5, RY: 5},
			},
		},
		{
			name: "rectangles",
			prims: []Primitive{
				Rectangle{Min: Pt(0, 0), Width: 1, Height: 1},
				Rectangle{Min: Pt(2, 0), Width: 1, Height: 1},
			},
		},
		{
			name: "lines",
			prims: []Primitive{
				Line{From: Pt(0, 0), To: Pt(1, 1)},
				Line{From: Pt(1, 1), To: Pt(2, 2)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if b, ok := TryBatch(tt.prims); ok {
				t.Errorf("TryBatch() = %+v, true; want no match", b)
			}
		})
	}
}

func TestTryBatch_Singleton(t *testing.T) {
	for _, p := range []Primitive{
		Circle{Center: Pt(3, 4), Radius: 2},
		Rectangle{Min: Pt(1, 1), Width: 2, Height: 3},
	} {
		b, ok := TryBatch([]Primitive{p})
		if !ok {
			t.Fatalf("TryBatch(%v) = false, want trivial match", p)
		}
		if b.Template != p || len(b.Offsets) != 1 || b.Offsets[0] != (Point{}) {
			t.Errorf("TryBatch(%v) = %+v, want template %v at zero offset", p, b, p)
		}
	}
}

func TestTryBatchForm(t *testing.T) {
	f := CircleForms([]Point{Pt(0, 0), Pt(5, 5)}, 1.5)
	b, ok := TryBatchForm(f)
	if !ok || b.Len() != 2 {
		t.Fatalf("TryBatchForm() = %+v, %v; want 2 offsets", b, ok)
	}
	if _, ok := TryBatchForm(FormOf(Line{To: Pt(1, 1)})); !ok {
		t.Error("TryBatchForm(scalar) = false, want trivial match")
	}
}

func TestTryBatch_DoesNotModifyInput(t *testing.T) {
	prims := []Primitive{
		Circle{Center: Pt(1, 1), Radius: 2},
		Circle{Center: Pt(3, 3), Radius: 2},
	}
	b, _ := TryBatch(prims)
	b.Offsets[0] = Pt(100, 100)
	if prims[0].(Circle).Center != Pt(1, 1) {
		t.Error("batch offsets alias the input primitives")
	}
}

func TestFilterRedundantOffsets(t *testing.T) {
	tests := []struct {
		name string
		in   []Point
		want []Point
	}{
		{
			name: "empty",
			in:   nil,
			want: []Point{},
		},
		{
			name: "single",
			in:   []Point{Pt(1, 2)},
			want: []Point{Pt(1, 2)},
		},
		{
			name: "drop near duplicate",
			in:   []Point{Pt(0, 0), Pt(0.01, 0), Pt(1, 1)},
			want: []Point{Pt(0, 0), Pt(1, 1)},
		},
		{
			name: "sorted output",
			in:   []Point{Pt(3, 0), Pt(1, 5), Pt(1, 2)},
			want: []Point{Pt(1, 2), Pt(1, 5), Pt(3, 0)},
		},
		{
			name: "tolerance is inclusive",
			in:   []Point{Pt(0, 0), Pt(0.025, 0.025)},
			want: []Point{Pt(0, 0)},
		},
		{
			name: "exact duplicates",
			in:   []Point{Pt(2, 2), Pt(2, 2), Pt(2, 2)},
			want: []Point{Pt(2, 2)},
		},
		{
			// Each step is 0.03 from its neighbour; distance is measured
			// from the last retained point, so every second point stays.
			name: "drift bounded chain",
			in:   []Point{Pt(0, 0), Pt(0.03, 0), Pt(0.06, 0), Pt(0.09, 0), Pt(0.12, 0)},
			want: []Point{Pt(0, 0), Pt(0.06, 0), Pt(0.12, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRedundantOffsets(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterRedundantOffsets() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("FilterRedundantOffsets() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterRedundantOffsets_DoesNotModifyInput(t *testing.T) {
	in := []Point{Pt(5, 5), Pt(0, 0), Pt(5.01, 5)}
	_ = FilterRedundantOffsets(in)
	want := []Point{Pt(5, 5), Pt(0, 0), Pt(5.01, 5)}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input modified: %v", in)
		}
	}
}
