// Package recording draws compose scene graphs through pluggable backends.
//
// # Architecture
//
// The package follows a Command Pattern with three parts:
//
//   - Recorder: walks a *compose.Context tree and emits commands
//   - Recording: stores the commands for playback
//   - Backend: renders commands to a specific output format
//
// While walking, the Recorder calls the optimizer once on every context
// before descending into it, so long vector forms with few distinct styles
// are regrouped into uniformly styled sub-contexts. Each vector form whose
// style is uniform is then offered to compose.TryBatch; on a match a
// single DrawBatchCommand replaces the per-primitive commands.
//
// # Basic Usage
//
//	rec := recording.NewRecorder(100, 100)
//	r := rec.Record(scene)
//
//	backend, err := recording.NewBackend("raster")
//	if err != nil {
//	    // not registered
//	}
//	if err := r.Playback(backend); err != nil {
//	    // handle
//	}
//	backend.(recording.FileBackend).SaveToFile("out.png")
//
// # Backend Registration
//
// Backends are registered using the database/sql driver pattern. Import a
// backend package with a blank identifier to register it:
//
//	import (
//	    _ "github.com/gogpu/compose/recording/backends/raster" // "raster"
//	    _ "github.com/gogpu/compose/recording/backends/svg"    // "svg"
//	)
package recording
