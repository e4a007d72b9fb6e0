package cam

import "math"

// Exact point-in-chain classification by ray casting against the analytic
// boundary. Arcs are tested via circle-line intersection rather than
// tessellated chords, so the test stays correct arbitrarily close to curved
// boundaries where a polygon approximation would misclassify.

// IsPointInsideChainExact reports whether p lies inside the region bounded
// by the chain, casting a horizontal ray in +x and counting analytic
// boundary crossings (odd = inside).
//
// The test is deterministic: identical inputs always produce the identical
// answer. Degenerate ray placements (the ray grazing a vertex or running
// tangent to an arc) are resolved by re-casting at a deterministic sequence
// of nearby heights.
func IsPointInsideChainExact(p Point, c *Chain) bool {
	bounds := c.BoundingBox()
	if bounds.IsEmpty() || !bounds.Contains(p) {
		return false
	}

	// Nudge scale proportional to the drawing so re-casts stay far below
	// feature size but above floating-point noise.
	nudge := math.Max(bounds.MaxDimension(), 1) * 1e-9

	const maxRecasts = 8
	count, clean := 0, false
	for attempt := 0; attempt <= maxRecasts; attempt++ {
		y := p.Y + float64(attempt)*nudge
		count, clean = chainCrossings(c, p.X, y)
		if clean {
			break
		}
	}
	return count%2 == 1
}

// chainCrossings counts boundary crossings of the horizontal ray starting at
// (px, y) going +x. clean is false when the ray hit a vertex or tangency and
// the count cannot be trusted.
func chainCrossings(c *Chain, px, y float64) (count int, clean bool) {
	clean = true
	for _, s := range c.Shapes() {
		n, ok := shapeCrossings(s, px, y)
		count += n
		clean = clean && ok
	}
	return count, clean
}

// shapeCrossings counts ray crossings for one shape.
func shapeCrossings(s Shape, px, y float64) (int, bool) {
	switch g := s.Geom.(type) {
	case Line:
		return lineCrossings(g, px, y)
	case Arc:
		return arcCrossings(g, px, y, false)
	case Circle:
		full := Arc{Center: g.Center, Radius: g.Radius, StartAngle: 0, EndAngle: twoPi}
		return arcCrossings(full, px, y, true)
	case Polyline:
		count, clean := 0, true
		for _, seg := range g.Segments {
			n, ok := shapeCrossings(seg, px, y)
			count += n
			clean = clean && ok
		}
		return count, clean
	case Spline, Ellipse:
		// Sampled fallback for free-form kinds.
		pts := Tessellate(s, defaultTessellationTolerance)
		count, clean := 0, true
		for i := 1; i < len(pts); i++ {
			n, ok := lineCrossings(Line{P0: pts[i-1], P1: pts[i]}, px, y)
			count += n
			clean = clean && ok
		}
		return count, clean
	}
	return 0, true
}

// vertexGrazeEpsilon flags ray heights that pass suspiciously close to a
// segment endpoint; such casts are retried at a nudged height instead of
// relying on a tie-breaking rule that arcs and lines would have to share.
const vertexGrazeEpsilon = 1e-12

// lineCrossings counts the crossing of a horizontal ray with one segment.
func lineCrossings(l Line, px, y float64) (int, bool) {
	y0, y1 := l.P0.Y, l.P1.Y
	if math.Abs(y0-y) < vertexGrazeEpsilon || math.Abs(y1-y) < vertexGrazeEpsilon {
		// Horizontal segments on the ray also land here via either endpoint.
		return 0, false
	}
	if (y0 < y) == (y1 < y) {
		return 0, true
	}
	t := (y - y0) / (y1 - y0)
	x := l.P0.X + t*(l.P1.X-l.P0.X)
	if x > px {
		return 1, true
	}
	return 0, true
}

// arcCrossings counts crossings of a horizontal ray with an arc by solving
// the circle-line intersection analytically and filtering hits to the sweep.
func arcCrossings(a Arc, px, y float64, fullCircle bool) (int, bool) {
	dy := y - a.Center.Y
	disc := a.Radius*a.Radius - dy*dy
	if disc < 0 {
		return 0, true
	}
	if disc < vertexGrazeEpsilon {
		// Tangent graze: the ray touches the circle's top or bottom.
		return 0, false
	}

	h := math.Sqrt(disc)
	count := 0
	for _, x := range [2]float64{a.Center.X - h, a.Center.X + h} {
		if x <= px {
			continue
		}
		if fullCircle {
			count++
			continue
		}
		hit := Point{X: x, Y: y}
		// Endpoint graze: hits at the arc's angular endpoints are
		// ambiguous between this arc and its neighbor.
		if hit.Approx(a.Start(), vertexGrazeEpsilon) || hit.Approx(a.End(), vertexGrazeEpsilon) {
			return count, false
		}
		if _, on := arcParameter(a, hit); on {
			count++
		}
	}
	return count, true
}
