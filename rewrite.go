package cam

import "math"

// Chain-rewriting passes. Each pass replaces a chain's shape list wholesale
// and returns a new chain; the input is never mutated. These run as part of
// the preprocessing pipeline between import and part detection.

// DecomposePolylines explodes every polyline in the chain into its atomic
// segment shapes, so downstream passes (offsetting, start optimization) see
// a flat run of lines and arcs. Non-polyline shapes pass through unchanged.
func DecomposePolylines(c *Chain) *Chain {
	var shapes []Shape
	changed := false
	for _, s := range c.Shapes() {
		if p, ok := s.Geom.(Polyline); ok {
			shapes = append(shapes, p.Segments...)
			changed = true
			continue
		}
		shapes = append(shapes, s)
	}
	if !changed {
		return c
	}
	return c.derived(shapes)
}

// colinearAngleTolerance is the angular deviation below which two adjacent
// lines are merged by JoinColinearLines.
const colinearAngleTolerance = 1e-6

// JoinColinearLines merges runs of adjacent, connected, colinear line
// segments into single lines. CAD exports routinely split straight edges
// into many tiny segments; merging them keeps joint counts (and offset
// stitching work) proportional to real corners.
func JoinColinearLines(c *Chain, tolerance float64) *Chain {
	if tolerance <= 0 {
		tolerance = defaultChainTolerance
	}
	shapes := c.Shapes()
	if len(shapes) < 2 {
		return c
	}

	out := make([]Shape, 0, len(shapes))
	changed := false
	for _, s := range shapes {
		if len(out) > 0 {
			if merged, ok := mergeColinear(out[len(out)-1], s, tolerance); ok {
				out[len(out)-1] = merged
				changed = true
				continue
			}
		}
		out = append(out, s)
	}
	if !changed {
		return c
	}
	return c.derived(out)
}

// mergeColinear merges b onto a when both are lines, connected end-to-start,
// and pointing the same way.
func mergeColinear(a, b Shape, tol float64) (Shape, bool) {
	la, ok := a.Geom.(Line)
	if !ok {
		return Shape{}, false
	}
	lb, ok := b.Geom.(Line)
	if !ok {
		return Shape{}, false
	}
	if !la.P1.Approx(lb.P0, tol) {
		return Shape{}, false
	}
	da := la.Direction().Normalize()
	db := lb.Direction().Normalize()
	if da.IsZero() || db.IsZero() {
		return Shape{}, false
	}
	if math.Abs(da.Cross(db)) > colinearAngleTolerance || da.Dot(db) <= 0 {
		return Shape{}, false
	}
	return Shape{ID: a.ID, Geom: Line{P0: la.P0, P1: lb.P1}}, true
}

// TranslateChain returns the chain displaced by d.
func TranslateChain(c *Chain, d Point) *Chain {
	shapes := make([]Shape, len(c.Shapes()))
	for i, s := range c.Shapes() {
		shapes[i] = s.Translate(d)
	}
	return c.derived(shapes)
}

// TranslateShapes returns the shape list displaced by d.
func TranslateShapes(shapes []Shape, d Point) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Translate(d)
	}
	return out
}

// OptimizeStartPoint rotates a closed chain's seam to the shape boundary
// nearest the given point, so the pierce lands where the caller wants it
// (typically a corner away from finished edges). Open chains are returned
// unchanged.
func OptimizeStartPoint(c *Chain, near Point, baseTolerance float64) *Chain {
	if !c.IsClosed(baseTolerance) || c.Len() < 2 {
		return c
	}
	shapes := c.Shapes()
	bestIdx := 0
	bestDist := math.Inf(1)
	for i, s := range shapes {
		if d := s.Start().Distance(near); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx == 0 {
		return c
	}
	rotated := make([]Shape, 0, len(shapes))
	rotated = append(rotated, shapes[bestIdx:]...)
	rotated = append(rotated, shapes[:bestIdx]...)
	return c.derived(rotated)
}
