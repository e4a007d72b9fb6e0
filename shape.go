package cam

import (
	"math"

	"github.com/google/uuid"
)

// Geometry is the closed set of primitive kinds the engine understands.
// Every variant implements the full accessor set so that generic chain code
// never needs to special-case a kind; composite kinds (Spline, Ellipse) fall
// back to sampled approximations where no closed form exists.
//
// The isGeometry marker keeps the union sealed: dispatch sites use exhaustive
// type switches over exactly these six variants.
type Geometry interface {
	isGeometry()

	// Start returns the traversal start point.
	Start() Point
	// End returns the traversal end point.
	End() Point
	// Reverse returns the same geometry traversed in the opposite direction.
	Reverse() Geometry
	// Translate returns the geometry displaced by d.
	Translate(d Point) Geometry
	// Bounds returns the axis-aligned bounding box.
	Bounds() Rect
	// PointAt evaluates the geometry at parameter t in [0, 1].
	PointAt(t float64) Point
	// TangentAt returns the (unit) tangent at parameter t in [0, 1].
	TangentAt(t float64) Point
}

// Shape is a drawable entity: a caller-assigned identity wrapping one
// geometry variant. Shapes are value-like records; operations that change
// geometry return new Shapes rather than mutating.
type Shape struct {
	ID   string
	Geom Geometry
}

// NewShape wraps a geometry in a Shape with a fresh unique id.
func NewShape(g Geometry) Shape {
	return Shape{ID: uuid.NewString(), Geom: g}
}

// Start returns the traversal start point of the shape.
func (s Shape) Start() Point { return s.Geom.Start() }

// End returns the traversal end point of the shape.
func (s Shape) End() Point { return s.Geom.End() }

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() Rect { return s.Geom.Bounds() }

// Reverse returns the shape traversed in the opposite direction.
// The identity is preserved: reversal reorients an entity, it does not
// create a new one.
func (s Shape) Reverse() Shape {
	return Shape{ID: s.ID, Geom: s.Geom.Reverse()}
}

// Translate returns the shape displaced by d, preserving identity.
func (s Shape) Translate(d Point) Shape {
	return Shape{ID: s.ID, Geom: s.Geom.Translate(d)}
}

// -------------------------------------------------------------------
// Line
// -------------------------------------------------------------------

// Line is a straight segment from P0 to P1.
type Line struct {
	P0, P1 Point
}

// NewLine creates a line segment.
func NewLine(p0, p1 Point) Line {
	return Line{P0: p0, P1: p1}
}

func (Line) isGeometry() {}

// Start returns P0.
func (l Line) Start() Point { return l.P0 }

// End returns P1.
func (l Line) End() Point { return l.P1 }

// Reverse returns the line traversed from P1 to P0.
func (l Line) Reverse() Geometry { return Line{P0: l.P1, P1: l.P0} }

// Translate returns the line displaced by d.
func (l Line) Translate(d Point) Geometry {
	return Line{P0: l.P0.Add(d), P1: l.P1.Add(d)}
}

// Bounds returns the bounding box of the segment.
func (l Line) Bounds() Rect { return NewRect(l.P0, l.P1) }

// PointAt evaluates the line at parameter t.
func (l Line) PointAt(t float64) Point { return l.P0.Lerp(l.P1, t) }

// TangentAt returns the unit direction of the line. Constant over t.
func (l Line) TangentAt(_ float64) Point { return l.P1.Sub(l.P0).Normalize() }

// Length returns the segment length.
func (l Line) Length() float64 { return l.P0.Distance(l.P1) }

// Direction returns the non-normalized direction vector P1-P0.
func (l Line) Direction() Point { return l.P1.Sub(l.P0) }

// -------------------------------------------------------------------
// Arc
// -------------------------------------------------------------------

// Arc is a circular arc. Traversal runs from StartAngle to EndAngle,
// counter-clockwise unless Clockwise is set. Angles are in radians.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Clockwise  bool
}

func (Arc) isGeometry() {}

// Sweep returns the traversed angle, normalized to [0, 2π).
// A zero sweep means a degenerate arc; full circles are the Circle kind.
func (a Arc) Sweep() float64 {
	if a.Clockwise {
		return NormalizeAngle(a.StartAngle - a.EndAngle)
	}
	return NormalizeAngle(a.EndAngle - a.StartAngle)
}

// signedSweep returns the sweep with traversal sign: negative for clockwise.
func (a Arc) signedSweep() float64 {
	if a.Clockwise {
		return -a.Sweep()
	}
	return a.Sweep()
}

// angleAt returns the absolute angle at parameter t in [0, 1].
func (a Arc) angleAt(t float64) float64 {
	return a.StartAngle + t*a.signedSweep()
}

// Start returns the point at StartAngle.
func (a Arc) Start() Point { return a.pointAtAngle(a.StartAngle) }

// End returns the point at EndAngle.
func (a Arc) End() Point { return a.pointAtAngle(a.EndAngle) }

// pointAtAngle returns the circle point at the given absolute angle.
func (a Arc) pointAtAngle(angle float64) Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(angle),
		Y: a.Center.Y + a.Radius*math.Sin(angle),
	}
}

// Reverse swaps the angular endpoints and flips the traversal direction.
func (a Arc) Reverse() Geometry {
	return Arc{
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: a.EndAngle,
		EndAngle:   a.StartAngle,
		Clockwise:  !a.Clockwise,
	}
}

// Translate returns the arc displaced by d.
func (a Arc) Translate(d Point) Geometry {
	a.Center = a.Center.Add(d)
	return a
}

// Bounds returns the tight bounding box: the two endpoints plus every
// cardinal circle point (0, π/2, π, 3π/2) the sweep passes through.
func (a Arc) Bounds() Rect {
	r := NewRect(a.Start(), a.End())
	for i := 0; i < 4; i++ {
		cardinal := float64(i) * math.Pi / 2
		if AngleInSweep(cardinal, a.StartAngle, a.signedSweep()) {
			r = r.Union(NewRect(a.pointAtAngle(cardinal), a.pointAtAngle(cardinal)))
		}
	}
	return r
}

// PointAt evaluates the arc at parameter t.
func (a Arc) PointAt(t float64) Point {
	return a.pointAtAngle(a.angleAt(t))
}

// TangentAt returns the unit tangent in the traversal direction at t.
func (a Arc) TangentAt(t float64) Point {
	angle := a.angleAt(t)
	tangent := Point{X: -math.Sin(angle), Y: math.Cos(angle)}
	if a.Clockwise {
		return tangent.Neg()
	}
	return tangent
}

// Length returns the arc length.
func (a Arc) Length() float64 { return a.Radius * a.Sweep() }

// -------------------------------------------------------------------
// Circle
// -------------------------------------------------------------------

// Circle is a full circle. Traversal starts and ends at angle 0 and runs
// counter-clockwise unless Clockwise is set; the flag only matters for cut
// direction, the point set is identical either way.
type Circle struct {
	Center    Point
	Radius    float64
	Clockwise bool
}

func (Circle) isGeometry() {}

// Start returns the seam point at angle 0.
func (c Circle) Start() Point { return Point{X: c.Center.X + c.Radius, Y: c.Center.Y} }

// End returns the seam point at angle 0. Circles are closed.
func (c Circle) End() Point { return c.Start() }

// Reverse flips the traversal direction.
func (c Circle) Reverse() Geometry {
	c.Clockwise = !c.Clockwise
	return c
}

// Translate returns the circle displaced by d.
func (c Circle) Translate(d Point) Geometry {
	c.Center = c.Center.Add(d)
	return c
}

// Bounds returns the bounding square of the circle.
func (c Circle) Bounds() Rect {
	return Rect{
		Min: Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius},
		Max: Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius},
	}
}

// PointAt evaluates the circle at parameter t (angle t*2π from the seam).
func (c Circle) PointAt(t float64) Point {
	angle := t * twoPi
	if c.Clockwise {
		angle = -angle
	}
	return Point{
		X: c.Center.X + c.Radius*math.Cos(angle),
		Y: c.Center.Y + c.Radius*math.Sin(angle),
	}
}

// TangentAt returns the unit tangent in the traversal direction at t.
func (c Circle) TangentAt(t float64) Point {
	angle := t * twoPi
	if c.Clockwise {
		return Point{X: -math.Sin(-angle), Y: math.Cos(-angle)}.Neg()
	}
	return Point{X: -math.Sin(angle), Y: math.Cos(angle)}
}

// -------------------------------------------------------------------
// Polyline
// -------------------------------------------------------------------

// Polyline is an ordered run of constituent segment shapes (lines and arcs
// in practice). A polyline owns its segments; no other shape nesting exists.
type Polyline struct {
	Segments []Shape
	Closed   bool
}

func (Polyline) isGeometry() {}

// Start returns the start of the first segment.
func (p Polyline) Start() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].Start()
}

// End returns the end of the last segment.
func (p Polyline) End() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].End()
}

// Reverse returns the polyline with segment order and each segment reversed.
func (p Polyline) Reverse() Geometry {
	segs := make([]Shape, len(p.Segments))
	for i, s := range p.Segments {
		segs[len(p.Segments)-1-i] = s.Reverse()
	}
	return Polyline{Segments: segs, Closed: p.Closed}
}

// Translate returns the polyline with every segment displaced by d.
func (p Polyline) Translate(d Point) Geometry {
	segs := make([]Shape, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = s.Translate(d)
	}
	return Polyline{Segments: segs, Closed: p.Closed}
}

// Bounds returns the union of the segment bounding boxes.
func (p Polyline) Bounds() Rect {
	r := emptyRect()
	for _, s := range p.Segments {
		r = r.Union(s.Bounds())
	}
	return r
}

// PointAt evaluates the polyline at t in [0, 1], mapped uniformly across
// segments: t*N lands in segment floor(t*N) at its local parameter.
func (p Polyline) PointAt(t float64) Point {
	n := len(p.Segments)
	if n == 0 {
		return Point{}
	}
	seg, local := splitPolylineParameter(t*float64(n), n)
	return p.Segments[seg].Geom.PointAt(local)
}

// TangentAt returns the unit tangent at t in [0, 1].
func (p Polyline) TangentAt(t float64) Point {
	n := len(p.Segments)
	if n == 0 {
		return Point{}
	}
	seg, local := splitPolylineParameter(t*float64(n), n)
	return p.Segments[seg].Geom.TangentAt(local)
}

// splitPolylineParameter splits a chain-relative parameter in [0, n] into a
// segment index and a local parameter in [0, 1].
func splitPolylineParameter(param float64, n int) (int, float64) {
	seg := int(math.Floor(param))
	if seg >= n {
		seg = n - 1
	}
	if seg < 0 {
		seg = 0
	}
	return seg, clamp(param-float64(seg), 0, 1)
}

// PolylineParameter composes a chain-relative parameter from a segment index
// and the local parameter reported by an atomic intersection: parameter 2.5
// means midway through the third segment.
func PolylineParameter(segIndex int, local float64) float64 {
	return float64(segIndex) + local
}

// -------------------------------------------------------------------
// Spline
// -------------------------------------------------------------------

// CubicBez is one cubic Bézier span: endpoints P0/P3, controls P1/P2.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// PointAt evaluates the span by de Casteljau subdivision.
func (b CubicBez) PointAt(t float64) Point {
	q0 := b.P0.Lerp(b.P1, t)
	q1 := b.P1.Lerp(b.P2, t)
	q2 := b.P2.Lerp(b.P3, t)
	r0 := q0.Lerp(q1, t)
	r1 := q1.Lerp(q2, t)
	return r0.Lerp(r1, t)
}

// TangentAt returns the unit tangent of the span at t.
func (b CubicBez) TangentAt(t float64) Point {
	// Derivative of the cubic in Bernstein form.
	d0 := b.P1.Sub(b.P0).Mul(3)
	d1 := b.P2.Sub(b.P1).Mul(3)
	d2 := b.P3.Sub(b.P2).Mul(3)
	q0 := d0.Lerp(d1, t)
	q1 := d1.Lerp(d2, t)
	return q0.Lerp(q1, t).Normalize()
}

// Reverse returns the span traversed backwards.
func (b CubicBez) Reverse() CubicBez {
	return CubicBez{P0: b.P3, P1: b.P2, P2: b.P1, P3: b.P0}
}

// Spline is a free-form curve stored as consecutive cubic Bézier spans.
// DXF NURBS input is converted to this form by the importer.
type Spline struct {
	Spans []CubicBez
}

func (Spline) isGeometry() {}

// Start returns the start of the first span.
func (s Spline) Start() Point {
	if len(s.Spans) == 0 {
		return Point{}
	}
	return s.Spans[0].P0
}

// End returns the end of the last span.
func (s Spline) End() Point {
	if len(s.Spans) == 0 {
		return Point{}
	}
	return s.Spans[len(s.Spans)-1].P3
}

// Reverse returns the spline with span order and each span reversed.
func (s Spline) Reverse() Geometry {
	spans := make([]CubicBez, len(s.Spans))
	for i, b := range s.Spans {
		spans[len(s.Spans)-1-i] = b.Reverse()
	}
	return Spline{Spans: spans}
}

// Translate returns the spline displaced by d.
func (s Spline) Translate(d Point) Geometry {
	spans := make([]CubicBez, len(s.Spans))
	for i, b := range s.Spans {
		spans[i] = CubicBez{
			P0: b.P0.Add(d), P1: b.P1.Add(d),
			P2: b.P2.Add(d), P3: b.P3.Add(d),
		}
	}
	return Spline{Spans: spans}
}

// Bounds returns the control-polygon bounding box. The convex hull property
// makes this conservative (never too small), which is what containment
// filtering needs.
func (s Spline) Bounds() Rect {
	r := emptyRect()
	for _, b := range s.Spans {
		r = r.Union(NewRect(b.P0, b.P1)).Union(NewRect(b.P2, b.P3))
	}
	return r
}

// PointAt evaluates the spline at t in [0, 1], uniform across spans.
func (s Spline) PointAt(t float64) Point {
	n := len(s.Spans)
	if n == 0 {
		return Point{}
	}
	seg, local := splitPolylineParameter(t*float64(n), n)
	return s.Spans[seg].PointAt(local)
}

// TangentAt returns the unit tangent at t in [0, 1].
func (s Spline) TangentAt(t float64) Point {
	n := len(s.Spans)
	if n == 0 {
		return Point{}
	}
	seg, local := splitPolylineParameter(t*float64(n), n)
	return s.Spans[seg].TangentAt(local)
}

// -------------------------------------------------------------------
// Ellipse
// -------------------------------------------------------------------

// Ellipse is a full axis-aligned-then-rotated ellipse with radii Rx/Ry and
// rotation in radians. Like Circle, the Clockwise flag only selects the cut
// direction.
type Ellipse struct {
	Center    Point
	Rx, Ry    float64
	Rotation  float64
	Clockwise bool
}

func (Ellipse) isGeometry() {}

// Start returns the seam point at parametric angle 0.
func (e Ellipse) Start() Point { return e.PointAt(0) }

// End returns the seam point at parametric angle 0. Ellipses are closed.
func (e Ellipse) End() Point { return e.PointAt(0) }

// Reverse flips the traversal direction.
func (e Ellipse) Reverse() Geometry {
	e.Clockwise = !e.Clockwise
	return e
}

// Translate returns the ellipse displaced by d.
func (e Ellipse) Translate(d Point) Geometry {
	e.Center = e.Center.Add(d)
	return e
}

// Bounds returns the bounding box of the rotated ellipse.
func (e Ellipse) Bounds() Rect {
	// Extents of a rotated ellipse along each axis.
	cos, sin := math.Cos(e.Rotation), math.Sin(e.Rotation)
	ex := math.Sqrt(e.Rx*e.Rx*cos*cos + e.Ry*e.Ry*sin*sin)
	ey := math.Sqrt(e.Rx*e.Rx*sin*sin + e.Ry*e.Ry*cos*cos)
	return Rect{
		Min: Point{X: e.Center.X - ex, Y: e.Center.Y - ey},
		Max: Point{X: e.Center.X + ex, Y: e.Center.Y + ey},
	}
}

// PointAt evaluates the ellipse at parameter t (parametric angle t*2π).
func (e Ellipse) PointAt(t float64) Point {
	angle := t * twoPi
	if e.Clockwise {
		angle = -angle
	}
	local := Point{X: e.Rx * math.Cos(angle), Y: e.Ry * math.Sin(angle)}
	return e.Center.Add(local.Rotate(e.Rotation))
}

// TangentAt returns the unit tangent in the traversal direction at t.
func (e Ellipse) TangentAt(t float64) Point {
	angle := t * twoPi
	if e.Clockwise {
		angle = -angle
	}
	local := Point{X: -e.Rx * math.Sin(angle), Y: e.Ry * math.Cos(angle)}
	tangent := local.Rotate(e.Rotation).Normalize()
	if e.Clockwise {
		return tangent.Neg()
	}
	return tangent
}
