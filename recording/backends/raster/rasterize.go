package raster

import (
	"image"
	"iter"
	"math"
	"slices"

	"golang.org/x/image/vector"
	"honnef.co/go/curve"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/internal/stamp"
)

// tolerance is the flattening and stroking accuracy in pixels.
const tolerance = 0.1

// kappa places cubic Bézier control points for a quarter ellipse.
const kappa = 0.5522847498307936

// margin returns the padding, in pixels, around a shape inside its mask.
// A miter on a right angle reaches width/sqrt(2) past the outline, so a
// full stroke width of padding is enough for every primitive kind.
func margin(k stamp.Key) int {
	pad := 0.0
	if k.Stroke {
		pad = k.Width
	}
	return int(math.Ceil(pad*k.Scale)) + 1
}

// rasterize renders the coverage mask described by k.
func rasterize(k stamp.Key) *image.Alpha {
	s := k.Scale
	m := margin(k)
	fx := float64(k.PhaseX) / 4
	fy := float64(k.PhaseY) / 4
	bounds := k.Shape.Bounds()
	w := int(math.Ceil(bounds.Width()*s+fx)) + 2*m
	h := int(math.Ceil(bounds.Height()*s+fy)) + 2*m

	path := outline(k.Shape, s, compose.Pt(float64(m)+fx, float64(m)+fy))

	r := vector.NewRasterizer(w, h)
	if k.Stroke {
		st := curve.Stroke{
			Width:      k.Width * s,
			Join:       curve.MiterJoin,
			MiterLimit: 4,
			StartCap:   curve.ButtCap,
			EndCap:     curve.ButtCap,
		}
		stroked := curve.StrokePath(slices.Values(path), st, curve.StrokeOpts{}, tolerance)
		appendPath(r, stroked)
	} else {
		appendPath(r, slices.Values(path))
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// outline returns the path of p scaled by s and then moved by off.
func outline(p compose.Primitive, s float64, off compose.Point) []curve.PathElement {
	pt := func(x, y float64) curve.Point {
		return curve.Point{X: x*s + off.X, Y: y*s + off.Y}
	}

	switch p := p.(type) {
	case compose.Circle:
		return ellipse(p.Center, p.Radius, p.Radius, pt)
	case compose.Ellipse:
		return ellipse(p.Center, p.RX, p.RY, pt)
	case compose.Rectangle:
		x0, y0 := p.Min.X, p.Min.Y
		x1, y1 := x0+p.Width, y0+p.Height
		return []curve.PathElement{
			{Kind: curve.MoveToKind, P0: pt(x0, y0)},
			{Kind: curve.LineToKind, P0: pt(x1, y0)},
			{Kind: curve.LineToKind, P0: pt(x1, y1)},
			{Kind: curve.LineToKind, P0: pt(x0, y1)},
			{Kind: curve.ClosePathKind},
		}
	case compose.Line:
		return []curve.PathElement{
			{Kind: curve.MoveToKind, P0: pt(p.From.X, p.From.Y)},
			{Kind: curve.LineToKind, P0: pt(p.To.X, p.To.Y)},
		}
	}
	return nil
}

func ellipse(c compose.Point, rx, ry float64, pt func(x, y float64) curve.Point) []curve.PathElement {
	kx, ky := kappa*rx, kappa*ry
	cubic := func(x1, y1, x2, y2, x3, y3 float64) curve.PathElement {
		return curve.PathElement{Kind: curve.CubicToKind, P0: pt(x1, y1), P1: pt(x2, y2), P2: pt(x3, y3)}
	}
	return []curve.PathElement{
		{Kind: curve.MoveToKind, P0: pt(c.X+rx, c.Y)},
		cubic(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry),
		cubic(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y),
		cubic(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry),
		cubic(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y),
		{Kind: curve.ClosePathKind},
	}
}

func appendPath(r *vector.Rasterizer, path iter.Seq[curve.PathElement]) {
	for el := range path {
		switch el.Kind {
		case curve.MoveToKind:
			r.MoveTo(float32(el.P0.X), float32(el.P0.Y))
		case curve.LineToKind:
			r.LineTo(float32(el.P0.X), float32(el.P0.Y))
		case curve.QuadToKind:
			r.QuadTo(float32(el.P0.X), float32(el.P0.Y), float32(el.P1.X), float32(el.P1.Y))
		case curve.CubicToKind:
			r.CubeTo(
				float32(el.P0.X), float32(el.P0.Y),
				float32(el.P1.X), float32(el.P1.Y),
				float32(el.P2.X), float32(el.P2.Y),
			)
		case curve.ClosePathKind:
			r.ClosePath()
		}
	}
}
