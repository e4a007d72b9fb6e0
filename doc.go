// Package cam is a 2D computational-geometry engine for CNC plasma and laser
// CAM pipelines.
//
// The package operates on an in-memory drawing: a flat list of shapes (lines,
// arcs, circles, polylines, splines, ellipses) as produced by an external
// DXF/SVG importer. On top of those it provides:
//
//   - chain detection and normalization: grouping loose shapes into ordered,
//     directionally consistent open or closed paths
//   - exact point-in-chain classification by analytic ray casting
//   - part detection: classifying closed chains into shells and nested holes
//   - the offset engine: kerf-compensated parallel curves with corner
//     stitching, gap filling, and self-intersection reporting
//   - command/transaction support for applying multi-step preprocessing
//     atomically
//
// Everything is synchronous and single-threaded: each entry point is a pure
// function of its inputs and returns new derived values. Chains, parts and
// offset chains are never mutated in place, only replaced.
//
// DXF/SVG parsing, G-code emission, rendering and UI state are external
// collaborators; their only contract with this package is "produces a
// []Shape" and "consumes chains, parts and offset chains".
package cam
