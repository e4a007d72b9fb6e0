package cam

import (
	"errors"
	"math"
)

// ErrNotPolyline is returned by polyline-only entry points when the shape's
// geometry is not a Polyline. This is a caller bug, not bad input data, so it
// fails fast instead of degrading.
var ErrNotPolyline = errors.New("cam: shape geometry is not a polyline")

// IntersectionType classifies how an intersection was obtained.
type IntersectionType int

const (
	// IntersectionTrue lies within both finite segments/arcs as drawn.
	IntersectionTrue IntersectionType = iota
	// IntersectionTangent is a true intersection where the curves touch
	// rather than cross; numerically marginal, reported with reduced
	// confidence.
	IntersectionTangent
	// IntersectionInfinite was found by extending a line to an infinite
	// line or an arc to its full circle. Only produced in extended mode,
	// used by offset gap filling.
	IntersectionInfinite
)

// String returns the constant name for diagnostics.
func (t IntersectionType) String() string {
	switch t {
	case IntersectionTrue:
		return "true"
	case IntersectionTangent:
		return "tangent"
	case IntersectionInfinite:
		return "infinite"
	}
	return "unknown"
}

// SegmentPosition tags where an atomic segment sits inside its parent
// polyline. Endpoint hits on interior joints are expected by construction;
// the tag lets callers weigh them accordingly.
type SegmentPosition int

const (
	// SegmentOnly marks a standalone segment (no parent polyline).
	SegmentOnly SegmentPosition = iota
	// SegmentFirst marks the first atom of a parent polyline.
	SegmentFirst
	// SegmentIntermediate marks an interior atom.
	SegmentIntermediate
	// SegmentLast marks the last atom.
	SegmentLast
)

// IntersectionResult is one geometric intersection between two shapes.
// Param1/Param2 are curve parameters on the first and second shape: 0..1 for
// an atomic primitive, 0..N for a polyline of N segments (see
// PolylineParameter). Confidence is in (0, 1]; numerically marginal hits are
// downgraded rather than discarded.
type IntersectionResult struct {
	Point      Point
	Param1     float64
	Param2     float64
	Type       IntersectionType
	Confidence float64
}

// Confidence levels assigned by the intersection routines.
const (
	confidenceExact    = 1.0
	confidenceEndpoint = 0.85
	confidenceTangent  = 0.7
)

// endpointParamMargin is the parameter-space margin within which a hit is
// considered to sit on a segment endpoint.
const endpointParamMargin = 1e-6

// IntersectConfig carries the optional intersection parameters.
type IntersectConfig struct {
	// Extended enables infinite-intersection semantics: lines are treated
	// as infinite lines and arcs as full circles. Hits beyond the drawn
	// extent are reported as IntersectionInfinite.
	Extended bool
	// FlattenTolerance is the chord tolerance used when a spline or
	// ellipse must be flattened before intersection.
	FlattenTolerance float64
	// PosA and PosB tag the operands' positions inside a parent polyline.
	PosA, PosB SegmentPosition
}

// IntersectOption configures an intersection call.
type IntersectOption func(*IntersectConfig)

// WithExtended enables extended (infinite) intersection semantics.
func WithExtended() IntersectOption {
	return func(c *IntersectConfig) { c.Extended = true }
}

// WithFlattenTolerance sets the spline/ellipse flattening tolerance.
func WithFlattenTolerance(tol float64) IntersectOption {
	return func(c *IntersectConfig) {
		if tol > 0 {
			c.FlattenTolerance = tol
		}
	}
}

// WithPositions tags the operands' positions within their parent polylines.
func WithPositions(a, b SegmentPosition) IntersectOption {
	return func(c *IntersectConfig) { c.PosA, c.PosB = a, b }
}

func newIntersectConfig(opts []IntersectOption) IntersectConfig {
	cfg := IntersectConfig{FlattenTolerance: defaultTessellationTolerance}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Intersect returns all geometric intersections between two shapes.
//
// Selection is by concrete geometry pair; compound kinds (polyline, spline,
// ellipse) are decomposed into atomic segments with their local parameters
// remapped into chain-relative parameters. Geometrically degenerate input
// (parallel lines, zero radii) yields an empty slice, never an error.
func Intersect(a, b Shape, opts ...IntersectOption) []IntersectionResult {
	cfg := newIntersectConfig(opts)
	return intersectShapes(a, b, cfg)
}

func intersectShapes(a, b Shape, cfg IntersectConfig) []IntersectionResult {
	// Compound kinds first: decompose, recurse, remap parameters.
	switch g := a.Geom.(type) {
	case Polyline:
		return intersectPolylineAny(g, b, cfg, false)
	case Spline:
		flat := splineToPolyline(g, cfg.FlattenTolerance)
		rs := intersectShapes(Shape{ID: a.ID, Geom: flat}, b, cfg)
		return rescaleParam1(rs, len(flat.Segments))
	case Ellipse:
		flat := ellipseToPolyline(g, cfg.FlattenTolerance)
		rs := intersectShapes(Shape{ID: a.ID, Geom: flat}, b, cfg)
		return rescaleParam1(rs, len(flat.Segments))
	}
	switch g := b.Geom.(type) {
	case Polyline:
		return intersectPolylineAny(g, a, cfg.swapped(), true)
	case Spline:
		flat := splineToPolyline(g, cfg.FlattenTolerance)
		rs := intersectShapes(a, Shape{ID: b.ID, Geom: flat}, cfg)
		return swapParams(rescaleParam1(swapParams(rs), len(flat.Segments)))
	case Ellipse:
		flat := ellipseToPolyline(g, cfg.FlattenTolerance)
		rs := intersectShapes(a, Shape{ID: b.ID, Geom: flat}, cfg)
		return swapParams(rescaleParam1(swapParams(rs), len(flat.Segments)))
	}

	switch ga := a.Geom.(type) {
	case Line:
		switch gb := b.Geom.(type) {
		case Line:
			return intersectLineLine(ga, gb, cfg)
		case Arc:
			return intersectLineArc(ga, gb, cfg)
		case Circle:
			return intersectLineCircle(ga, gb, cfg)
		}
	case Arc:
		switch gb := b.Geom.(type) {
		case Line:
			return swapParams(intersectLineArc(gb, ga, cfg.swapped()))
		case Arc:
			return intersectArcArc(ga, gb, cfg)
		case Circle:
			return intersectArcCircle(ga, gb, cfg)
		}
	case Circle:
		switch gb := b.Geom.(type) {
		case Line:
			return swapParams(intersectLineCircle(gb, ga, cfg.swapped()))
		case Arc:
			return swapParams(intersectArcCircle(gb, ga, cfg.swapped()))
		case Circle:
			return intersectCircleCircle(ga, gb, cfg)
		}
	}
	return nil
}

// swapped exchanges the operand position tags for reversed dispatch.
func (c IntersectConfig) swapped() IntersectConfig {
	c.PosA, c.PosB = c.PosB, c.PosA
	return c
}

// swapParams mirrors results produced with the operands reversed.
func swapParams(rs []IntersectionResult) []IntersectionResult {
	for i := range rs {
		rs[i].Param1, rs[i].Param2 = rs[i].Param2, rs[i].Param1
	}
	return rs
}

// positionFor derives the position tag of segment i in a polyline of n
// segments. Closed polylines have no first/last distinction.
func positionFor(i, n int, closed bool) SegmentPosition {
	if n == 1 {
		return SegmentOnly
	}
	if closed {
		return SegmentIntermediate
	}
	switch i {
	case 0:
		return SegmentFirst
	case n - 1:
		return SegmentLast
	default:
		return SegmentIntermediate
	}
}

// intersectPolylineAny intersects each polyline segment with the other shape
// and remaps local parameters into chain-relative ones. When swap is set the
// polyline is the second operand of the caller's pair.
func intersectPolylineAny(p Polyline, other Shape, cfg IntersectConfig, swap bool) []IntersectionResult {
	var out []IntersectionResult
	n := len(p.Segments)
	for i, seg := range p.Segments {
		segCfg := cfg
		segCfg.PosA = positionFor(i, n, p.Closed)
		rs := intersectShapes(seg, other, segCfg)
		for _, r := range rs {
			r.Param1 = PolylineParameter(i, r.Param1)
			if swap {
				r.Param1, r.Param2 = r.Param2, r.Param1
			}
			out = append(out, r)
		}
	}
	return dedupeIntersections(out)
}

// rescaleParam1 maps polyline-style Param1 values (0..n) back onto [0, 1]
// for flattened spline/ellipse operands, so callers see the parameter range
// the original geometry advertises.
func rescaleParam1(rs []IntersectionResult, n int) []IntersectionResult {
	if n < 1 {
		n = 1
	}
	for i := range rs {
		rs[i].Param1 = clamp(rs[i].Param1/float64(n), 0, 1)
	}
	return rs
}

// dedupeIntersections drops duplicate hits that arise when a crossing falls
// exactly on a shared joint of two adjacent polyline segments: both report
// it. The higher-confidence entry wins.
func dedupeIntersections(rs []IntersectionResult) []IntersectionResult {
	if len(rs) < 2 {
		return rs
	}
	out := rs[:0]
	for _, r := range rs {
		dup := false
		for j := range out {
			if out[j].Point.Approx(r.Point, epsilon*10) && out[j].Type == r.Type {
				if r.Confidence > out[j].Confidence {
					out[j] = r
				}
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// -------------------------------------------------------------------
// Atomic pair routines
// -------------------------------------------------------------------

// intersectLineLine intersects two line segments parametrically.
// Parallel and degenerate (zero-length) input returns no intersections.
func intersectLineLine(l1, l2 Line, cfg IntersectConfig) []IntersectionResult {
	d1 := l1.Direction()
	d2 := l2.Direction()
	denom := d1.Cross(d2)
	if math.Abs(denom) < epsilon {
		return nil
	}

	diff := l2.P0.Sub(l1.P0)
	t1 := diff.Cross(d2) / denom
	t2 := diff.Cross(d1) / denom

	inside1 := paramInSegment(t1)
	inside2 := paramInSegment(t2)
	if !cfg.Extended && (!inside1 || !inside2) {
		return nil
	}

	r := IntersectionResult{
		Point:      l1.PointAt(clampIfInside(t1, inside1)),
		Param1:     t1,
		Param2:     t2,
		Type:       IntersectionTrue,
		Confidence: confidenceExact,
	}
	if !inside1 || !inside2 {
		r.Type = IntersectionInfinite
	} else {
		r.Param1 = clamp(t1, 0, 1)
		r.Param2 = clamp(t2, 0, 1)
		if nearSegmentEndpoint(r.Param1) || nearSegmentEndpoint(r.Param2) {
			r.Confidence = confidenceEndpoint
		}
	}
	return []IntersectionResult{r}
}

// paramInSegment reports whether a line parameter lies in [0, 1] within the
// parameter slack.
func paramInSegment(t float64) bool {
	return t >= -paramEpsilon && t <= 1+paramEpsilon
}

func clampIfInside(t float64, inside bool) float64 {
	if inside {
		return clamp(t, 0, 1)
	}
	return t
}

// nearSegmentEndpoint reports whether a bounded parameter sits on a segment
// boundary within the endpoint margin.
func nearSegmentEndpoint(t float64) bool {
	return t < endpointParamMargin || t > 1-endpointParamMargin
}

// intersectLineCircle substitutes the parametric line into the circle
// equation and solves the quadratic.
func intersectLineCircle(l Line, c Circle, cfg IntersectConfig) []IntersectionResult {
	d := l.Direction()
	f := l.P0.Sub(c.Center)
	qa := d.Dot(d)
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - c.Radius*c.Radius
	if qa < epsilon*epsilon || c.Radius <= 0 {
		return nil
	}

	roots := solveQuadratic(qa, qb, qc)
	tangential := len(roots) == 1

	var out []IntersectionResult
	for _, t := range roots {
		inside := paramInSegment(t)
		if !cfg.Extended && !inside {
			continue
		}
		p := l.PointAt(clampIfInside(t, inside))
		r := IntersectionResult{
			Point:      p,
			Param1:     clampIfInside(t, inside),
			Param2:     circleParameter(c, p),
			Type:       IntersectionTrue,
			Confidence: confidenceExact,
		}
		switch {
		case !inside:
			r.Type = IntersectionInfinite
		case tangential:
			r.Type = IntersectionTangent
			r.Confidence = confidenceTangent
		case nearSegmentEndpoint(r.Param1):
			r.Confidence = confidenceEndpoint
		}
		out = append(out, r)
	}
	return out
}

// circleParameter maps a circle point onto the traversal parameter [0, 1).
func circleParameter(c Circle, p Point) float64 {
	angle := NormalizeAngle(p.Sub(c.Center).Atan2())
	if c.Clockwise {
		return NormalizeAngle(-angle) / twoPi
	}
	return angle / twoPi
}

// intersectLineArc runs the circle routine and filters hits to the arc's
// sweep. In extended mode the arc is treated as its full circle and hits
// outside the sweep become infinite.
func intersectLineArc(l Line, a Arc, cfg IntersectConfig) []IntersectionResult {
	full := Circle{Center: a.Center, Radius: a.Radius}
	hits := intersectLineCircle(l, full, cfg)

	var out []IntersectionResult
	for _, r := range hits {
		t, onArc := arcParameter(a, r.Point)
		if !onArc {
			if !cfg.Extended {
				continue
			}
			r.Type = IntersectionInfinite
		}
		r.Param2 = t
		out = append(out, r)
	}
	return out
}

// arcParameter maps a circle point onto the arc's traversal parameter.
// Returns the sweep fraction and whether the point lies on the drawn sweep.
// Points off the sweep return their parameter on the extended full circle
// (may exceed 1).
func arcParameter(a Arc, p Point) (float64, bool) {
	sweep := a.Sweep()
	if sweep < epsilon {
		return 0, false
	}
	angle := p.Sub(a.Center).Atan2()
	var delta float64
	if a.Clockwise {
		delta = NormalizeAngle(a.StartAngle - angle)
	} else {
		delta = NormalizeAngle(angle - a.StartAngle)
	}
	t := delta / sweep
	const slack = 1e-9
	return t, delta <= sweep+slack
}

// intersectCircleCircle intersects two full circles. Coincident circles are
// degenerate (infinitely many points) and return no intersections.
func intersectCircleCircle(c1, c2 Circle, _ IntersectConfig) []IntersectionResult {
	d := c1.Center.Distance(c2.Center)
	if d < epsilon {
		return nil
	}
	if c1.Radius <= 0 || c2.Radius <= 0 {
		return nil
	}
	if d > c1.Radius+c2.Radius+epsilon || d < math.Abs(c1.Radius-c2.Radius)-epsilon {
		return nil
	}

	// Distance from c1 along the center line to the chord midpoint.
	a := (c1.Radius*c1.Radius - c2.Radius*c2.Radius + d*d) / (2 * d)
	h2 := c1.Radius*c1.Radius - a*a
	axis := c2.Center.Sub(c1.Center).Div(d)
	mid := c1.Center.Add(axis.Mul(a))

	if h2 < epsilon {
		// Externally or internally tangent: a single touching point.
		return []IntersectionResult{{
			Point:      mid,
			Param1:     circleParameter(c1, mid),
			Param2:     circleParameter(c2, mid),
			Type:       IntersectionTangent,
			Confidence: confidenceTangent,
		}}
	}

	h := math.Sqrt(h2)
	offset := axis.Perp().Mul(h)
	p1 := mid.Add(offset)
	p2 := mid.Sub(offset)
	return []IntersectionResult{
		{Point: p1, Param1: circleParameter(c1, p1), Param2: circleParameter(c2, p1), Type: IntersectionTrue, Confidence: confidenceExact},
		{Point: p2, Param1: circleParameter(c1, p2), Param2: circleParameter(c2, p2), Type: IntersectionTrue, Confidence: confidenceExact},
	}
}

// intersectArcCircle filters circle-circle hits to the arc's sweep.
func intersectArcCircle(a Arc, c Circle, cfg IntersectConfig) []IntersectionResult {
	full := Circle{Center: a.Center, Radius: a.Radius}
	hits := intersectCircleCircle(full, c, cfg)

	var out []IntersectionResult
	for _, r := range hits {
		t, onArc := arcParameter(a, r.Point)
		if !onArc {
			if !cfg.Extended {
				continue
			}
			r.Type = IntersectionInfinite
		}
		r.Param1 = t
		out = append(out, r)
	}
	return out
}

// intersectArcArc filters circle-circle hits to both sweeps. In extended
// mode both arcs are treated as full circles.
func intersectArcArc(a1, a2 Arc, cfg IntersectConfig) []IntersectionResult {
	c1 := Circle{Center: a1.Center, Radius: a1.Radius}
	c2 := Circle{Center: a2.Center, Radius: a2.Radius}
	hits := intersectCircleCircle(c1, c2, cfg)

	var out []IntersectionResult
	for _, r := range hits {
		t1, on1 := arcParameter(a1, r.Point)
		t2, on2 := arcParameter(a2, r.Point)
		if !on1 || !on2 {
			if !cfg.Extended {
				continue
			}
			r.Type = IntersectionInfinite
		}
		r.Param1 = t1
		r.Param2 = t2
		out = append(out, r)
	}
	return out
}
