package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/internal/stamp"
	"github.com/gogpu/compose/recording"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func render(t *testing.T, b *Backend, w, h float64, draw func(*Backend)) *image.RGBA {
	t.Helper()
	if err := b.Begin(w, h); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	draw(b)
	if err := b.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	return b.Image().(*image.RGBA)
}

func TestBackendRegistration(t *testing.T) {
	if !recording.IsRegistered("raster") {
		t.Fatal("raster backend not registered")
	}
	backend, err := recording.NewBackend("raster")
	if err != nil {
		t.Fatalf("failed to create raster backend: %v", err)
	}
	if _, ok := backend.(*Backend); !ok {
		t.Fatal("backend is not *raster.Backend")
	}
}

func TestBackendLifecycle(t *testing.T) {
	backend := NewBackend()

	if err := backend.Begin(25, 10); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if backend.Width() != 100 || backend.Height() != 40 {
		t.Errorf("size = %dx%d, want 100x40 at the default scale", backend.Width(), backend.Height())
	}
	if backend.Image() != nil {
		t.Error("Image() before End should be nil")
	}
	if err := backend.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	img := backend.Image()
	if img == nil {
		t.Fatal("Image() returned nil")
	}
	if got := img.(*image.RGBA).RGBAAt(50, 20); !near(got, white) {
		t.Errorf("background = %v, want white", got)
	}
}

func TestBackendInvalidSize(t *testing.T) {
	for _, size := range [][2]float64{{-1, 10}, {10, -1}} {
		if err := NewBackend().Begin(size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Begin(%v) = %v, want ErrInvalidSize", size, err)
		}
	}
	if err := NewBackend().End(); !errors.Is(err, ErrNotRendered) {
		t.Errorf("End() without Begin = %v, want ErrNotRendered", err)
	}
}

func TestBackendOptions(t *testing.T) {
	b := NewBackend(WithScale(10), WithScale(-3), WithBackground(compose.Black))
	img := render(t, b, 2, 3, func(*Backend) {})
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 30 {
		t.Errorf("bounds = %v, want 20x30", img.Bounds())
	}
	if got := img.RGBAAt(5, 5); !near(got, black) {
		t.Errorf("background = %v, want black", got)
	}
}

func TestBackendFillCircle(t *testing.T) {
	img := render(t, NewBackend(), 10, 10, func(b *Backend) {
		b.DrawPrimitive(
			compose.Circle{Center: compose.Pt(5, 5), Radius: 2},
			compose.StyleOf(compose.Fill{Color: compose.RGB(1, 0, 0)}),
		)
	})
	if got := img.RGBAAt(20, 20); !near(got, red) {
		t.Errorf("center = %v, want red", got)
	}
	if got := img.RGBAAt(2, 2); !near(got, white) {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestBackendDefaultFillIsBlack(t *testing.T) {
	img := render(t, NewBackend(), 10, 10, func(b *Backend) {
		b.DrawPrimitive(compose.Ellipse{Center: compose.Pt(5, 5), RX: 3, RY: 1}, compose.Style{})
	})
	if got := img.RGBAAt(20, 20); !near(got, black) {
		t.Errorf("center = %v, want black", got)
	}
}

func TestBackendStrokeRectangle(t *testing.T) {
	style := compose.StyleOf(
		compose.FillOpacity{Opacity: 0},
		compose.Stroke{Color: compose.RGB(0, 0, 1)},
		compose.LineWidth{Width: 0.5},
	)
	img := render(t, NewBackend(), 10, 10, func(b *Backend) {
		b.DrawPrimitive(compose.Rectangle{Min: compose.Pt(2, 2), Width: 6, Height: 6}, style)
	})
	if got := img.RGBAAt(8, 20); !near(got, blue) {
		t.Errorf("edge = %v, want blue", got)
	}
	if got := img.RGBAAt(20, 20); !near(got, white) {
		t.Errorf("interior = %v, want white (fill opacity 0)", got)
	}
}

func TestBackendStrokeLine(t *testing.T) {
	style := compose.StyleOf(compose.Stroke{Color: compose.Black}, compose.LineWidth{Width: 0.5})
	img := render(t, NewBackend(), 10, 10, func(b *Backend) {
		b.DrawPrimitive(compose.Line{From: compose.Pt(1, 5), To: compose.Pt(9, 5)}, style)
	})
	if got := img.RGBAAt(20, 20); !near(got, black) {
		t.Errorf("on line = %v, want black", got)
	}
	if got := img.RGBAAt(20, 10); !near(got, white) {
		t.Errorf("off line = %v, want white", got)
	}
}

func TestBackendLineWithoutStrokeDrawsNothing(t *testing.T) {
	img := render(t, NewBackend(), 10, 10, func(b *Backend) {
		b.DrawPrimitive(compose.Line{From: compose.Pt(1, 5), To: compose.Pt(9, 5)}, compose.Style{})
	})
	if got := img.RGBAAt(20, 20); !near(got, white) {
		t.Errorf("pixel = %v, want white", got)
	}
}

func scatter() *compose.Context {
	centers := make([]compose.Point, 50)
	for i := range centers {
		centers[i] = compose.Pt(float64(i%10)*2+1.3, float64(i/10)*2+1.1)
	}
	return compose.NewContext(
		compose.CircleForms(centers, 0.7),
		compose.PropertyOf(compose.Fill{Color: compose.RGB(1, 0, 0)}),
		compose.PropertyOf(compose.Stroke{Color: compose.Black}),
		compose.PropertyOf(compose.LineWidth{Width: 0.2}),
	)
}

func playback(t *testing.T, r *recording.Recording, b *Backend) *image.RGBA {
	t.Helper()
	if err := r.Playback(b); err != nil {
		t.Fatalf("Playback() = %v", err)
	}
	return b.Image().(*image.RGBA)
}

// near reports whether two colors differ by at most 2 per channel.
func near(a, b color.RGBA) bool {
	return absDiff(a.R, b.R) <= 2 && absDiff(a.G, b.G) <= 2 &&
		absDiff(a.B, b.B) <= 2 && absDiff(a.A, b.A) <= 2
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestBatchMatchesPrimitives(t *testing.T) {
	scene := scatter()
	batched := recording.NewRecorder(21, 11).Record(scene)
	single := recording.NewRecorder(21, 11, recording.WithBatching(false)).Record(scene)
	if batched.Stats().Batches != 1 || single.Stats().Primitives != 50 {
		t.Fatalf("unexpected recordings: %+v / %+v", batched.Stats(), single.Stats())
	}

	bb := NewBackend()
	a := playback(t, batched, bb)
	b := playback(t, single, NewBackend())

	worst := 0
	for i := range a.Pix {
		worst = max(worst, absDiff(a.Pix[i], b.Pix[i]))
	}
	if worst > 2 {
		t.Errorf("batched and per-primitive images differ by up to %d", worst)
	}

	st := bb.StampStats()
	if st.Misses > 32 {
		t.Errorf("Misses = %d, want at most 16 phases for fill and stroke each", st.Misses)
	}
	if st.Hits == 0 {
		t.Error("batch never reused a mask")
	}
}

func TestBatchWithoutStampCache(t *testing.T) {
	b := NewBackend(WithStampCache(-1))
	playback(t, recording.NewRecorder(21, 11).Record(scatter()), b)
	if st := b.StampStats(); st != (stamp.Stats{}) {
		t.Errorf("StampStats() = %+v, want zero with the cache disabled", st)
	}
}

func TestBackendWriteTo(t *testing.T) {
	b := NewBackend()
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); !errors.Is(err, ErrNotRendered) {
		t.Errorf("WriteTo before End = %v, want ErrNotRendered", err)
	}

	render(t, b, 5, 5, func(b *Backend) {
		b.DrawPrimitive(compose.Circle{Center: compose.Pt(2.5, 2.5), Radius: 1}, compose.Style{})
	})
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, buffer has %d bytes", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("decoded width = %d, want 20", img.Bounds().Dx())
	}
}

func TestBackendSaveToFile(t *testing.T) {
	b := NewBackend()
	path := filepath.Join(t.TempDir(), "out.png")
	render(t, b, 5, 5, func(*Backend) {})
	if err := b.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("file not written: %v", err)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		v     float64
		i     int
		phase uint8
	}{
		{0, 0, 0},
		{1.25, 1, 1},
		{1.5, 1, 2},
		{2.9, 3, 0},
		{-0.25, -1, 3},
	}
	for _, tt := range tests {
		i, q := quantize(tt.v)
		if i != tt.i || q != tt.phase {
			t.Errorf("quantize(%v) = %d, %d; want %d, %d", tt.v, i, q, tt.i, tt.phase)
		}
	}
}
