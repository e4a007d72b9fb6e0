package cam

import (
	"fmt"
	"math"
)

// Stitching joins independently offset segments back into one continuous
// curve. Offsetting breaks adjacency: convex corners open a gap between the
// neighboring offset segments, concave corners make them overlap. For every
// consecutive pair the engine first looks for a TRUE intersection to trim
// to; failing that it extends toward an INFINITE (extended-geometry)
// intersection; failing that too, the joint is reported as a gap-filling
// failure rather than silently left discontinuous.

// offsetAndStitch offsets each source shape to the requested side and
// stitches consecutive offset segments. For closed inputs the last-to-first
// joint is processed identically, so a closed N-shape source yields exactly
// N intersection points.
func offsetAndStitch(chainID string, shapes []Shape, closed bool, distance float64, side OffsetSide, cfg OffsetConfig) (*OffsetChain, []OffsetWarning) {
	distance = math.Abs(distance)
	out := &OffsetChain{ChainID: chainID, Side: side}
	var warnings []OffsetWarning

	// Per-segment parallel curves. Compound segments are flattened first so
	// stitching only ever sees lines and arcs.
	var offset []Shape
	for _, s := range shapes {
		for _, atom := range atomize(s, cfg.Tolerance) {
			o, err := OffsetShape(atom, distance, side)
			if err != nil {
				warnings = append(warnings, OffsetWarning{
					ChainID: chainID,
					Joint:   -1,
					Kind:    WarnDegenerateSegment,
					Message: err.Error(),
				})
				Logger().Warn("offset segment dropped", "chain", chainID, "shape", atom.ID, "err", err)
				continue
			}
			offset = append(offset, o)
		}
	}
	if len(offset) == 0 {
		return out, warnings
	}

	// Joint resolution between consecutive pairs, wrapping for closed
	// chains.
	jointCount := len(offset) - 1
	if closed {
		jointCount = len(offset)
	}
	for j := 0; j < jointCount; j++ {
		i := j
		k := (j + 1) % len(offset)
		a, b, pt, err := stitchJoint(offset[i], offset[k], cfg)
		if err != nil {
			warnings = append(warnings, OffsetWarning{
				ChainID: chainID,
				Joint:   j,
				Kind:    WarnGapFill,
				Message: err.Error(),
			})
			Logger().Warn("offset joint unresolved", "chain", chainID, "joint", j, "err", err)
			// Keep the raw endpoints; the discontinuity is reported, not
			// hidden.
			continue
		}
		offset[i] = a
		offset[k] = b
		out.IntersectionPoints = append(out.IntersectionPoints, pt)
		Logger().Debug("offset joint stitched", "chain", chainID, "joint", j,
			"x", pt.X, "y", pt.Y)
	}
	out.Shapes = offset

	// Offsetting a non-convex chain can fold the result onto itself; that
	// is a reportable condition, not a silent one.
	probe := Shape{ID: chainID, Geom: Polyline{Segments: offset, Closed: closed}}
	if crossings, err := SelfIntersections(probe); err == nil && len(crossings) > 0 {
		warnings = append(warnings, OffsetWarning{
			ChainID: chainID,
			Joint:   -1,
			Kind:    WarnSelfIntersection,
			Message: fmt.Sprintf("offset curve crosses itself at %d point(s)", len(crossings)),
		})
	}
	return out, warnings
}

// atomize flattens compound geometry into the lines and arcs the stitcher
// can trim. Lines, arcs and circles pass through unchanged.
func atomize(s Shape, tol float64) []Shape {
	switch g := s.Geom.(type) {
	case Polyline:
		var out []Shape
		for _, seg := range g.Segments {
			out = append(out, atomize(seg, tol)...)
		}
		return out
	case Spline:
		return splineToPolyline(g, tol).Segments
	case Ellipse:
		return ellipseToPolyline(g, tol).Segments
	default:
		return []Shape{s}
	}
}

// stitchJoint makes two consecutive offset segments meet at one point.
// Returns the adjusted segments and the joint point, or an error describing
// why the gap could not be closed within the configured limits.
func stitchJoint(a, b Shape, cfg OffsetConfig) (Shape, Shape, Point, error) {
	endA := a.End()
	startB := b.Start()

	try := func(joint Point) (Shape, Shape, error) {
		ta, err := trimShapeEnd(a, joint, cfg)
		if err != nil {
			return Shape{}, Shape{}, err
		}
		tb, err := trimShapeStart(b, joint, cfg)
		if err != nil {
			return Shape{}, Shape{}, err
		}
		return ta, tb, nil
	}
	var lastErr error

	// Already coincident: snap exactly to the midpoint.
	if endA.Distance(startB) <= cfg.Tolerance {
		joint := endA.Lerp(startB, 0.5)
		if ta, tb, err := try(joint); err == nil {
			return ta, tb, joint, nil
		} else {
			lastErr = err
		}
	}

	// Overlap case: a TRUE intersection inside both segments.
	if joint, ok := nearestJoint(Intersect(a, b), endA, startB, cfg.SnapThreshold); ok {
		if ta, tb, err := try(joint); err == nil {
			return ta, tb, joint, nil
		} else {
			lastErr = err
		}
	}

	// Gap case: extend both toward the intersection of the underlying
	// infinite geometry.
	if joint, ok := nearestJoint(Intersect(a, b, WithExtended()), endA, startB, cfg.MaxExtension); ok {
		if ta, tb, err := try(joint); err == nil {
			return ta, tb, joint, nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return a, b, Point{}, lastErr
	}
	return a, b, Point{}, fmt.Errorf(
		"no joint within snap %.4g / extension %.4g (gap %.4g)",
		cfg.SnapThreshold, cfg.MaxExtension, endA.Distance(startB))
}

// nearestJoint picks the intersection candidate closest to the broken joint,
// measured as the larger of its distances to the two loose endpoints, and
// accepts it if within limit.
func nearestJoint(rs []IntersectionResult, endA, startB Point, limit float64) (Point, bool) {
	best := Point{}
	bestDist := math.Inf(1)
	for _, r := range rs {
		d := math.Max(r.Point.Distance(endA), r.Point.Distance(startB))
		if d < bestDist {
			best = r.Point
			bestDist = d
		}
	}
	if bestDist <= limit {
		return best, true
	}
	return Point{}, false
}

// trimShapeEnd moves the end of a segment to the joint point. For lines the
// point lies on the carrier line (trim and extension are the same move);
// for arcs it lies on the full circle, so only the end angle changes. An arc
// whose sweep would grow past the extension budget is rejected: a joint
// landing angularly behind the start would otherwise wrap the sweep nearly
// all the way around instead of extending it a little.
func trimShapeEnd(s Shape, joint Point, cfg OffsetConfig) (Shape, error) {
	switch g := s.Geom.(type) {
	case Line:
		g.P1 = joint
		return Shape{ID: s.ID, Geom: g}, nil
	case Arc:
		trimmed := g
		trimmed.EndAngle = joint.Sub(g.Center).Atan2()
		if err := checkSweepGrowth(g, trimmed, cfg); err != nil {
			return s, err
		}
		return Shape{ID: s.ID, Geom: trimmed}, nil
	}
	return s, nil
}

// trimShapeStart moves the start of a segment to the joint point.
func trimShapeStart(s Shape, joint Point, cfg OffsetConfig) (Shape, error) {
	switch g := s.Geom.(type) {
	case Line:
		g.P0 = joint
		return Shape{ID: s.ID, Geom: g}, nil
	case Arc:
		trimmed := g
		trimmed.StartAngle = joint.Sub(g.Center).Atan2()
		if err := checkSweepGrowth(g, trimmed, cfg); err != nil {
			return s, err
		}
		return Shape{ID: s.ID, Geom: trimmed}, nil
	}
	return s, nil
}

// checkSweepGrowth rejects an arc trim whose sweep grows by more than the
// extension budget expressed as arc length.
func checkSweepGrowth(orig, trimmed Arc, cfg OffsetConfig) error {
	grow := trimmed.Sweep() - orig.Sweep()
	if orig.Radius <= 0 || grow*orig.Radius <= cfg.MaxExtension {
		return nil
	}
	return fmt.Errorf("arc trim sweeps %.4g rad past the original end (extension limit %.4g)",
		grow, cfg.MaxExtension)
}
