// Package compose optimizes declarative vector-graphics scene graphs before
// they are drawn.
//
// # Overview
//
// A scene is a tree of *Context values. Each context holds forms (shapes),
// properties (style attributes) and child contexts. A form or property is
// either a scalar, which applies to every sibling, or a vector, whose
// element i is bound to element i of every other vector sibling:
//
//	ctx := compose.NewContext(
//	    compose.CircleForms(centers, 0.5),
//	    compose.Fills(colors...),
//	    compose.PropertyOf(compose.LineWidth{Width: 0.1}),
//	)
//
// # Optimizations
//
// Two rewrites make large scenes cheaper to draw:
//
//   - Batching: TryBatch turns an array of identical shapes into one
//     template primitive plus per-instance offsets (a FormBatch).
//   - Splitting: OptimizeBatching regroups a long vector form whose vector
//     properties take only a few distinct values into one child context per
//     distinct style. Each child carries scalar styles, so its forms become
//     batchable.
//
// Both are pure. OptimizeBatching returns its argument when no split pays
// off and otherwise returns a new context; the input tree is never
// modified, so the same tree can be drawn repeatedly.
//
// # Drawing
//
// The recording package walks a tree, calls the optimizer once per context
// and the batch matcher once per form, and plays the result back to a
// registered backend (raster, svg).
//
// # Coordinates
//
// All lengths are in millimeters. Origin is top-left, Y grows down.
//
// # Logging
//
// compose is silent by default. See SetLogger.
package compose

// Version is the current version of the library.
const Version = "0.1.0"
