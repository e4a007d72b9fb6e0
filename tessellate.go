package cam

import "math"

// Tessellation converts curves into point sequences for winding analysis,
// chord-based fallbacks and overlay display. Lines contribute their
// endpoints; arcs and ellipses are sampled so that the chord error stays
// under the tolerance; splines are flattened adaptively the same way stroke
// expanders flatten Béziers.

// defaultTessellationTolerance is the chord error used when a caller passes
// a non-positive tolerance.
const defaultTessellationTolerance = 0.01

// Tessellate samples the shape into an ordered point sequence whose chords
// deviate from the true curve by at most tol. The result always contains the
// shape's start and end points. Tessellate is total over every geometry
// kind.
func Tessellate(s Shape, tol float64) []Point {
	if tol <= 0 {
		tol = defaultTessellationTolerance
	}
	switch g := s.Geom.(type) {
	case Line:
		return []Point{g.P0, g.P1}
	case Arc:
		return tessellateArc(g, tol)
	case Circle:
		// The seam epsilon keeps the sweep just under a full turn in the
		// traversal direction.
		end := twoPi - 1e-12
		if g.Clockwise {
			end = 1e-12
		}
		arc := Arc{Center: g.Center, Radius: g.Radius, StartAngle: 0, EndAngle: end, Clockwise: g.Clockwise}
		pts := tessellateArc(arc, tol)
		// Close the seam exactly.
		pts[len(pts)-1] = pts[0]
		return pts
	case Polyline:
		var pts []Point
		for i, seg := range g.Segments {
			sub := Tessellate(seg, tol)
			if i > 0 && len(pts) > 0 && len(sub) > 0 && pts[len(pts)-1].Approx(sub[0], epsilon) {
				sub = sub[1:]
			}
			pts = append(pts, sub...)
		}
		return pts
	case Spline:
		var pts []Point
		for _, span := range g.Spans {
			sub := flattenCubic(span, tol)
			if len(pts) > 0 {
				sub = sub[1:]
			}
			pts = append(pts, sub...)
		}
		return pts
	case Ellipse:
		return tessellateByCount(s, ellipseSampleCount(g, tol))
	}
	return nil
}

// TessellateN samples the shape at n+1 evenly spaced parameters (n chords).
// Used where a fixed sample budget matters more than a chord-error bound.
func TessellateN(s Shape, n int) []Point {
	if n < 1 {
		n = 1
	}
	return tessellateByCount(s, n)
}

func tessellateByCount(s Shape, n int) []Point {
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, s.Geom.PointAt(float64(i)/float64(n)))
	}
	return pts
}

// tessellateArc samples an arc with an angular step bounded by the chord
// error: a chord across angle step on radius r deviates by r*(1-cos(step/2)).
func tessellateArc(a Arc, tol float64) []Point {
	sweep := a.Sweep()
	if sweep == 0 || a.Radius <= 0 {
		return []Point{a.Start(), a.End()}
	}
	step := maxArcStep(a.Radius, tol)
	n := int(math.Ceil(sweep / step))
	if n < 2 {
		n = 2
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, a.PointAt(float64(i)/float64(n)))
	}
	return pts
}

// maxArcStep returns the largest angular step keeping chord error under tol.
func maxArcStep(radius, tol float64) float64 {
	if tol >= radius {
		return math.Pi / 2
	}
	return 2 * math.Acos(1-tol/radius)
}

// ellipseSampleCount picks a chord count for an ellipse from its larger
// radius, reusing the circular chord-error bound as an approximation.
func ellipseSampleCount(e Ellipse, tol float64) int {
	r := math.Max(e.Rx, e.Ry)
	if r <= 0 {
		return 4
	}
	n := int(math.Ceil(twoPi / maxArcStep(r, tol)))
	if n < 8 {
		n = 8
	}
	return n
}

// flattenCubic flattens one cubic Bézier span into line points within tol.
func flattenCubic(b CubicBez, tol float64) []Point {
	pts := []Point{b.P0}
	flattenCubicRec(b, tol, &pts, 0)
	return pts
}

// maxFlattenDepth bounds recursion for degenerate control polygons.
const maxFlattenDepth = 24

func flattenCubicRec(b CubicBez, tol float64, pts *[]Point, depth int) {
	d1 := perpDistanceToSegment(b.P1, b.P0, b.P3)
	d2 := perpDistanceToSegment(b.P2, b.P0, b.P3)
	if math.Max(d1, d2) < tol || depth >= maxFlattenDepth {
		*pts = append(*pts, b.P3)
		return
	}

	// Subdivide at t=0.5 using de Casteljau.
	q0 := b.P0.Lerp(b.P1, 0.5)
	q1 := b.P1.Lerp(b.P2, 0.5)
	q2 := b.P2.Lerp(b.P3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)

	flattenCubicRec(CubicBez{P0: b.P0, P1: q0, P2: r0, P3: mid}, tol, pts, depth+1)
	flattenCubicRec(CubicBez{P0: mid, P1: r1, P2: q2, P3: b.P3}, tol, pts, depth+1)
}

// perpDistanceToSegment returns the distance from p to segment (a, b).
func perpDistanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen2 := ab.LengthSquared()
	if abLen2 < epsilon*epsilon {
		return p.Distance(a)
	}
	t := clamp(p.Sub(a).Dot(ab)/abLen2, 0, 1)
	return p.Distance(a.Add(ab.Mul(t)))
}

// splineToPolyline flattens a spline into a polyline of line shapes. Spline
// intersection and offsetting run on this decomposition.
func splineToPolyline(s Spline, tol float64) Polyline {
	pts := Tessellate(Shape{Geom: s}, tol)
	return pointsToPolyline(pts, false)
}

// ellipseToPolyline flattens an ellipse into a closed polyline.
func ellipseToPolyline(e Ellipse, tol float64) Polyline {
	pts := Tessellate(Shape{Geom: e}, tol)
	return pointsToPolyline(pts, true)
}

// pointsToPolyline builds a polyline of line segments through pts.
func pointsToPolyline(pts []Point, closed bool) Polyline {
	segs := make([]Shape, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		if pts[i].Approx(pts[i-1], epsilon) {
			continue
		}
		segs = append(segs, NewShape(NewLine(pts[i-1], pts[i])))
	}
	return Polyline{Segments: segs, Closed: closed}
}
