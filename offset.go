package cam

import (
	"errors"
	"fmt"
	"math"
)

// The offset engine computes kerf-compensated parallel curves: every segment
// of the result lies at the requested perpendicular distance from its source
// segment, with consecutive offset segments stitched back together at the
// corners (see stitch.go).

// ErrDegenerateOffset is returned when offsetting an arc or circle toward
// its center by at least its radius: no parallel curve exists there.
var ErrDegenerateOffset = errors.New("cam: offset distance consumes the radius")

// OffsetSide selects which side of the traversal direction an offset curve
// lies on.
type OffsetSide int

const (
	// SideLeft offsets to the left of the traversal direction.
	SideLeft OffsetSide = iota
	// SideRight offsets to the right.
	SideRight
)

// String returns the side name.
func (s OffsetSide) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// opposite returns the other side.
func (s OffsetSide) opposite() OffsetSide {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// OffsetConfig carries the offset/stitching parameters.
type OffsetConfig struct {
	// Tolerance is the coincidence distance below which two offset
	// endpoints are already considered joined.
	Tolerance float64
	// SnapThreshold is the maximum distance between a TRUE intersection
	// and the joint endpoints for trimming to accept it. Zero derives
	// 2.5x the offset distance at call time.
	SnapThreshold float64
	// MaxExtension is the furthest a segment may be extended toward an
	// INFINITE intersection during gap filling. Zero derives 5x the
	// offset distance at call time.
	MaxExtension float64
}

// OffsetOption configures an offset call.
type OffsetOption func(*OffsetConfig)

// WithOffsetTolerance sets the endpoint coincidence tolerance.
func WithOffsetTolerance(tol float64) OffsetOption {
	return func(c *OffsetConfig) {
		if tol > 0 {
			c.Tolerance = tol
		}
	}
}

// WithSnapThreshold sets the TRUE-intersection snap distance.
func WithSnapThreshold(d float64) OffsetOption {
	return func(c *OffsetConfig) {
		if d > 0 {
			c.SnapThreshold = d
		}
	}
}

// WithMaxExtension sets the gap-filling extension limit.
func WithMaxExtension(d float64) OffsetOption {
	return func(c *OffsetConfig) {
		if d > 0 {
			c.MaxExtension = d
		}
	}
}

// resolve fills derived defaults for a concrete offset distance.
func (c OffsetConfig) resolve(distance float64) OffsetConfig {
	if c.Tolerance <= 0 {
		c.Tolerance = defaultTessellationTolerance
	}
	d := math.Abs(distance)
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = math.Max(2.5*d, 10*c.Tolerance)
	}
	if c.MaxExtension <= 0 {
		c.MaxExtension = math.Max(5*d, 20*c.Tolerance)
	}
	return c
}

// OffsetWarningKind categorizes offset diagnostics.
type OffsetWarningKind int

const (
	// WarnDegenerateSegment marks a segment whose offset does not exist
	// (arc radius consumed). The segment is dropped from the result.
	WarnDegenerateSegment OffsetWarningKind = iota
	// WarnGapFill marks a joint where neither a TRUE nor an INFINITE
	// intersection could stitch the neighbors within the limits.
	WarnGapFill
	// WarnSelfIntersection marks an offset chain that crosses itself,
	// typically an outset around a tight concave notch.
	WarnSelfIntersection
)

// String returns the warning kind name.
func (k OffsetWarningKind) String() string {
	switch k {
	case WarnDegenerateSegment:
		return "degenerate_segment"
	case WarnGapFill:
		return "gap_fill_failed"
	case WarnSelfIntersection:
		return "self_intersection"
	}
	return "unknown"
}

// OffsetWarning attributes a stitching or fit problem to a chain and joint.
type OffsetWarning struct {
	ChainID string
	// Joint indexes the pair boundary (joint i sits between offset
	// segments i and i+1, wrapping for closed chains). -1 when the
	// warning is not joint-specific.
	Joint   int
	Kind    OffsetWarningKind
	Message string
}

// OffsetChain is one stitched offset curve. For a closed source chain of N
// shapes there are exactly N intersection points, one per consecutive
// offset-segment pair including the wraparound joint.
type OffsetChain struct {
	// ChainID names the source chain.
	ChainID string
	// Side records which side of the source traversal this offset lies on.
	Side OffsetSide
	// Shapes is the stitched offset geometry in traversal order.
	Shapes []Shape
	// IntersectionPoints are the stitching joints between consecutive
	// offset segments.
	IntersectionPoints []Point
}

// OffsetResult is the outcome of offsetting a chain in both directions.
// Success is false when any joint or segment failed; whatever geometry was
// computable is still populated so callers can warn instead of aborting.
type OffsetResult struct {
	Success  bool
	Inner    *OffsetChain
	Outer    *OffsetChain
	Warnings []OffsetWarning
}

// OffsetShape offsets a single atomic shape to one side of its traversal.
//
// Lines translate along their unit normal; arcs and circles change radius
// (shrinking toward the center is degenerate once the distance reaches the
// radius and returns ErrDegenerateOffset). Compound kinds are rejected here;
// use OffsetPolyline or OffsetChain for anything that needs stitching.
func OffsetShape(s Shape, distance float64, side OffsetSide) (Shape, error) {
	if distance < 0 {
		// A negative distance flips the side; keep the magnitude.
		return OffsetShape(s, -distance, side.opposite())
	}
	switch g := s.Geom.(type) {
	case Line:
		normal := sideNormal(g.Direction(), side)
		if normal.IsZero() {
			return Shape{}, fmt.Errorf("offset line %s: zero-length segment: %w", s.ID, ErrDegenerateOffset)
		}
		off := normal.Mul(distance)
		return Shape{ID: s.ID, Geom: Line{P0: g.P0.Add(off), P1: g.P1.Add(off)}}, nil
	case Arc:
		newRadius := g.Radius + arcRadiusDelta(g.Clockwise, side)*distance
		if newRadius <= epsilon {
			return Shape{}, fmt.Errorf("offset arc %s: radius %.6g consumed by distance %.6g: %w",
				s.ID, g.Radius, distance, ErrDegenerateOffset)
		}
		g.Radius = newRadius
		return Shape{ID: s.ID, Geom: g}, nil
	case Circle:
		newRadius := g.Radius + arcRadiusDelta(g.Clockwise, side)*distance
		if newRadius <= epsilon {
			return Shape{}, fmt.Errorf("offset circle %s: radius %.6g consumed by distance %.6g: %w",
				s.ID, g.Radius, distance, ErrDegenerateOffset)
		}
		g.Radius = newRadius
		return Shape{ID: s.ID, Geom: g}, nil
	}
	return Shape{}, fmt.Errorf("offset shape %s: compound geometry %T needs stitching: %w",
		s.ID, s.Geom, ErrDegenerateOffset)
}

// sideNormal returns the unit normal on the requested side of a direction.
func sideNormal(dir Point, side OffsetSide) Point {
	n := dir.Normalize().Perp() // left normal
	if side == SideRight {
		return n.Neg()
	}
	return n
}

// arcRadiusDelta returns the sign the radius changes by for a unit offset:
// the center of a counter-clockwise arc lies to the left of travel, so a
// left offset moves toward the center and shrinks the radius.
func arcRadiusDelta(clockwise bool, side OffsetSide) float64 {
	towardCenter := (side == SideLeft) != clockwise
	if towardCenter {
		return -1
	}
	return 1
}

// ShapeOffsetResult is the outcome of offsetting one polyline or spline.
type ShapeOffsetResult struct {
	Success  bool
	Offset   *OffsetChain
	Warnings []OffsetWarning
}

// OffsetPolyline offsets every segment of a polyline shape independently and
// stitches the results into a continuous curve. Returns ErrNotPolyline if
// the shape's geometry is not a Polyline; geometric difficulty is reported
// through Success=false plus warnings, never through the error.
func OffsetPolyline(s Shape, distance float64, side OffsetSide, opts ...OffsetOption) (ShapeOffsetResult, error) {
	p, ok := s.Geom.(Polyline)
	if !ok {
		return ShapeOffsetResult{}, ErrNotPolyline
	}
	cfg := OffsetConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	cfg = cfg.resolve(distance)

	oc, warnings := offsetAndStitch(s.ID, p.Segments, p.Closed, distance, side, cfg)
	return ShapeOffsetResult{
		Success:  !hasFailure(warnings),
		Offset:   oc,
		Warnings: warnings,
	}, nil
}

// OffsetChainBoth computes the kerf offsets on both sides of a chain in one
// call: the inner curve (toward the chain's interior, per its winding) and
// the outer curve. Slot-style cuts need both; computing them together reuses
// the per-segment work.
//
// Geometric difficulty never panics and never errors: Success turns false
// and the computable partial geometry is still returned.
func OffsetChainBoth(c *Chain, distance float64, opts ...OffsetOption) OffsetResult {
	cfg := OffsetConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	cfg = cfg.resolve(distance)

	closed := c.IsClosed(defaultChainTolerance)
	interior := interiorSide(c.Winding())

	inner, innerWarn := offsetAndStitch(c.ID, c.Shapes(), closed, distance, interior, cfg)
	inner.Side = interior
	outer, outerWarn := offsetAndStitch(c.ID, c.Shapes(), closed, distance, interior.opposite(), cfg)
	outer.Side = interior.opposite()

	warnings := append(innerWarn, outerWarn...)
	return OffsetResult{
		Success:  !hasFailure(warnings),
		Inner:    inner,
		Outer:    outer,
		Warnings: warnings,
	}
}

// interiorSide maps a winding direction to the side its interior lies on:
// counter-clockwise traversal keeps the interior on the left. Unknown
// winding (open chains) defaults to the left.
func interiorSide(w Winding) OffsetSide {
	if w == WindingClockwise {
		return SideRight
	}
	return SideLeft
}

// hasFailure reports whether any warning invalidates the success flag.
// Self-intersections are reportable but do not fail the offset; the caller
// decides whether an overlapping kerf path is acceptable.
func hasFailure(ws []OffsetWarning) bool {
	for _, w := range ws {
		if w.Kind == WarnDegenerateSegment || w.Kind == WarnGapFill {
			return true
		}
	}
	return false
}
