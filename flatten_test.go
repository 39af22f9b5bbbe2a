package compose

import "testing"

func TestFlatten_Resolution(t *testing.T) {
	inner := NewContext(
		FormOf(Line{From: Pt(0, 0), To: Pt(1, 0)}),
		PropertyOf(Stroke{Color: green}),
	)
	ctx := NewContext(
		PropertyOf(Fill{Color: red}),
		PropertyOf(Stroke{Color: blue}),
		FormOf(Rectangle{Width: 1, Height: 1}),
		Forms(Circle{Radius: 1}, Circle{Radius: 2}),
		Properties(Fill{Color: green}, Fill{Color: blue}),
		inner,
	)

	got := Flatten(ctx)
	want := []Drawable{
		{Rectangle{Width: 1, Height: 1}, StyleOf(Fill{Color: red}, Stroke{Color: blue})},
		{Circle{Radius: 1}, StyleOf(Fill{Color: green}, Stroke{Color: blue})},
		{Circle{Radius: 2}, StyleOf(Fill{Color: blue}, Stroke{Color: blue})},
		{Line{From: Pt(0, 0), To: Pt(1, 0)}, StyleOf(Fill{Color: red}, Stroke{Color: green})},
	}
	if len(got) != len(want) {
		t.Fatalf("Flatten() returned %d drawables, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Flatten()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStyle_Colors(t *testing.T) {
	var empty Style
	if c, ok := empty.FillColor(); ok || c != Black {
		t.Errorf("empty FillColor() = %v, %v; want black, false", c, ok)
	}
	if _, ok := empty.StrokeColor(); ok {
		t.Error("empty StrokeColor() reported a stroke")
	}
	if empty.LineWidth() != DefaultLineWidth {
		t.Errorf("empty LineWidth() = %v, want %v", empty.LineWidth(), DefaultLineWidth)
	}

	s := StyleOf(
		Fill{Color: red},
		FillOpacity{Opacity: 0.5},
		Stroke{Color: blue},
		StrokeOpacity{Opacity: 0.25},
		LineWidth{Width: 2},
	)
	if c, ok := s.FillColor(); !ok || c != red.WithAlpha(0.5) {
		t.Errorf("FillColor() = %v, %v; want %v", c, ok, red.WithAlpha(0.5))
	}
	if c, ok := s.StrokeColor(); !ok || c != blue.WithAlpha(0.25) {
		t.Errorf("StrokeColor() = %v, %v; want %v", c, ok, blue.WithAlpha(0.25))
	}
	if s.LineWidth() != 2 {
		t.Errorf("LineWidth() = %v, want 2", s.LineWidth())
	}
	if v, ok := s.Get(PropLineWidth); !ok || v != (LineWidth{Width: 2}) {
		t.Errorf("Get(PropLineWidth) = %v, %v", v, ok)
	}
	if _, ok := s.Get(PropertyKind(99)); ok {
		t.Error("Get(unknown kind) = true")
	}
}

func TestStyle_LaterOverrides(t *testing.T) {
	s := StyleOf(Fill{Color: red}, Fill{Color: blue})
	if c, _ := s.FillColor(); c != blue {
		t.Errorf("FillColor() = %v, want %v", c, blue)
	}
	if StyleOf(Fill{Color: red}) != StyleOf(Fill{Color: red}) {
		t.Error("equal styles compare unequal")
	}
}

func TestHasVectorProperties(t *testing.T) {
	if HasVectorProperties(NewContext(PropertyOf(Fill{Color: red}))) {
		t.Error("HasVectorProperties(scalar only) = true")
	}
	if !HasVectorProperties(NewContext(Fills(red, blue))) {
		t.Error("HasVectorProperties(vector) = false")
	}
}
