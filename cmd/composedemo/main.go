// Command composedemo builds a scatter plot scene, optimizes it and renders
// it with one of the registered backends.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/recording"
	_ "github.com/gogpu/compose/recording/backends/raster"
	_ "github.com/gogpu/compose/recording/backends/svg"
)

var palette = []string{"crimson", "royalblue", "seagreen", "darkorange", "purple", "teal", "goldenrod", "slategray"}

func main() {
	var (
		width     = flag.Float64("width", 160, "canvas width in millimeters")
		height    = flag.Float64("height", 100, "canvas height in millimeters")
		points    = flag.Int("n", 2000, "number of scatter points")
		colors    = flag.Int("colors", 3, "number of distinct point colors")
		backend   = flag.String("backend", "", "backend name (default: from the output extension)")
		output    = flag.String("output", "scatter.png", "output file")
		threshold = flag.Int("threshold", 100, "minimum form length worth splitting")
		workers   = flag.Int("workers", 1, "goroutines used to optimize subtrees")
		dedup     = flag.Bool("dedup", false, "drop near-duplicate batch offsets")
		verbose   = flag.Bool("v", false, "log optimizer decisions")
	)
	flag.Parse()
	if *points < 1 {
		log.Fatal("-n must be positive")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	compose.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	name := *backend
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(*output), ".")
		if name == "png" {
			name = "raster"
		}
	}
	b, err := recording.NewBackend(name)
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(recording.Backends(), ", "))
	}
	fb, ok := b.(recording.FileBackend)
	if !ok {
		log.Fatalf("backend %q cannot write files", name)
	}

	scene := buildScene(*width, *height, *points, max(1, min(*colors, len(palette))))
	if err := scene.Validate(); err != nil {
		log.Fatalf("invalid scene: %v", err)
	}

	opts := []compose.Option{compose.WithThreshold(*threshold), compose.WithWorkers(*workers)}
	scene = compose.OptimizeTree(scene, opts...)

	rec := recording.NewRecorder(*width, *height,
		recording.WithOptimizer(compose.NewOptimizer(opts...)),
		recording.WithOffsetDedup(*dedup),
	)
	r := rec.Record(scene)
	if err := r.Playback(b); err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := fb.SaveToFile(*output); err != nil {
		log.Fatalf("save: %v", err)
	}

	st := r.Stats()
	log.Printf("%s written with %s: %d batches (%d primitives), %d single primitives",
		*output, name, st.Batches, st.Batched, st.Primitives)
}

// buildScene returns a framed scatter plot: n circles colored from the
// first k palette entries, with a grid drawn in a child context.
func buildScene(w, h float64, n, k int) *compose.Context {
	rng := rand.New(rand.NewPCG(1, 2))

	centers := make([]compose.Point, n)
	fills := make([]compose.RGBA, n)
	for i := range centers {
		centers[i] = compose.Pt(5+rng.Float64()*(w-10), 5+rng.Float64()*(h-10))
		fills[i], _ = compose.Named(palette[rng.IntN(k)])
	}

	var lines []compose.Primitive
	for x := 10.0; x < w; x += 10 {
		lines = append(lines, compose.Line{From: compose.Pt(x, 0), To: compose.Pt(x, h)})
	}
	for y := 10.0; y < h; y += 10 {
		lines = append(lines, compose.Line{From: compose.Pt(0, y), To: compose.Pt(w, y)})
	}
	grid := compose.NewContext(
		compose.PropertyOf(compose.Stroke{Color: compose.Hex("#dddddd")}),
		compose.PropertyOf(compose.LineWidth{Width: 0.1}),
	)
	if len(lines) > 0 {
		grid.Add(compose.Forms(lines...))
	}

	points := compose.NewContext(
		compose.CircleForms(centers, 0.8),
		compose.Fills(fills...),
		compose.PropertyOf(compose.FillOpacity{Opacity: 0.8}),
	)

	return compose.NewContext(
		compose.FormOf(compose.Rectangle{Width: w, Height: h}),
		compose.PropertyOf(compose.Fill{Color: compose.White}),
		compose.PropertyOf(compose.Stroke{Color: compose.Black}),
		grid,
		points,
	)
}
