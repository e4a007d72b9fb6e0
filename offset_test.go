package cam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetShapeLine(t *testing.T) {
	s := NewShape(NewLine(Pt(0, 0), Pt(10, 0)))

	left, err := OffsetShape(s, 2, SideLeft)
	require.NoError(t, err)
	l := left.Geom.(Line)
	assert.True(t, l.P0.Approx(Pt(0, 2), 1e-9))
	assert.True(t, l.P1.Approx(Pt(10, 2), 1e-9))

	right, err := OffsetShape(s, 2, SideRight)
	require.NoError(t, err)
	l = right.Geom.(Line)
	assert.True(t, l.P0.Approx(Pt(0, -2), 1e-9))
}

func TestOffsetShapeNegativeDistanceFlipsSide(t *testing.T) {
	s := NewShape(NewLine(Pt(0, 0), Pt(10, 0)))
	a, err := OffsetShape(s, -2, SideLeft)
	require.NoError(t, err)
	b, err := OffsetShape(s, 2, SideRight)
	require.NoError(t, err)
	assert.Equal(t, a.Geom, b.Geom)
}

func TestOffsetShapeArcRadius(t *testing.T) {
	// CCW arc: center lies to the left of travel, so a left offset shrinks.
	a := NewShape(Arc{Center: Pt(0, 0), Radius: 10, StartAngle: 0, EndAngle: math.Pi / 2})

	in, err := OffsetShape(a, 3, SideLeft)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, in.Geom.(Arc).Radius, 1e-12)

	out, err := OffsetShape(a, 3, SideRight)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, out.Geom.(Arc).Radius, 1e-12)
}

func TestOffsetShapeClockwiseArcRadius(t *testing.T) {
	// CW arc: center lies to the right of travel, so the deltas flip.
	a := NewShape(Arc{Center: Pt(0, 0), Radius: 10, StartAngle: math.Pi / 2, EndAngle: 0, Clockwise: true})

	left, err := OffsetShape(a, 3, SideLeft)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, left.Geom.(Arc).Radius, 1e-12)
}

func TestOffsetShapeDegenerateArc(t *testing.T) {
	a := NewShape(Arc{Center: Pt(0, 0), Radius: 5, StartAngle: 0, EndAngle: math.Pi})
	_, err := OffsetShape(a, 5, SideLeft)
	assert.ErrorIs(t, err, ErrDegenerateOffset)

	_, err = OffsetShape(a, 8, SideLeft)
	assert.ErrorIs(t, err, ErrDegenerateOffset)
}

func TestOffsetShapeCircle(t *testing.T) {
	c := NewShape(Circle{Center: Pt(0, 0), Radius: 10})
	in, err := OffsetShape(c, 4, SideLeft)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, in.Geom.(Circle).Radius, 1e-12)
}

func TestOffsetPolylineRejectsNonPolyline(t *testing.T) {
	_, err := OffsetPolyline(NewShape(NewLine(Pt(0, 0), Pt(1, 0))), 1, SideLeft)
	assert.ErrorIs(t, err, ErrNotPolyline)
}

func TestOffsetPolylineOpenPath(t *testing.T) {
	// L-shaped open path offset to the left: the inner corner needs a trim,
	// which is still a single stitched joint.
	p := NewShape(Polyline{Segments: []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10, 0), Pt(10, 10))),
	}})
	res, err := OffsetPolyline(p, 2, SideLeft)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Offset.Shapes, 2)
	require.Len(t, res.Offset.IntersectionPoints, 1)
	assert.True(t, res.Offset.IntersectionPoints[0].Approx(Pt(8, 2), 1e-9))
}

func TestOffsetChainBothRectangle(t *testing.T) {
	// Closed 4-line rectangle offset by 8: every joint resolves and each
	// offset chain reports exactly one intersection point per source shape.
	c := NewChain([]Shape{
		NewShape(NewLine(Pt(0, 0), Pt(40, 0))),
		NewShape(NewLine(Pt(40, 0), Pt(40, 20))),
		NewShape(NewLine(Pt(40, 20), Pt(0, 20))),
		NewShape(NewLine(Pt(0, 20), Pt(0, 0))),
	})

	res := OffsetChainBoth(c, 8)
	assert.True(t, res.Success)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Inner.Shapes, 4)
	require.Len(t, res.Inner.IntersectionPoints, 4)
	require.Len(t, res.Outer.Shapes, 4)
	require.Len(t, res.Outer.IntersectionPoints, 4)

	// CCW chain: interior on the left.
	assert.Equal(t, SideLeft, res.Inner.Side)
	assert.Equal(t, SideRight, res.Outer.Side)

	// Inner rectangle corners.
	wantInner := []Point{Pt(32, 8), Pt(32, 12), Pt(8, 12), Pt(8, 8)}
	for _, want := range wantInner {
		assert.True(t, containsApprox(res.Inner.IntersectionPoints, want), "missing inner joint %v", want)
	}
	// Outer rectangle corners.
	wantOuter := []Point{Pt(48, -8), Pt(48, 28), Pt(-8, 28), Pt(-8, -8)}
	for _, want := range wantOuter {
		assert.True(t, containsApprox(res.Outer.IntersectionPoints, want), "missing outer joint %v", want)
	}
}

func containsApprox(pts []Point, want Point) bool {
	for _, p := range pts {
		if p.Approx(want, 1e-6) {
			return true
		}
	}
	return false
}

func TestOffsetChainBothClockwiseInterior(t *testing.T) {
	cw := squareChain(40).Reverse()
	res := OffsetChainBoth(cw, 5)
	assert.True(t, res.Success)
	// CW chain: interior on the right.
	assert.Equal(t, SideRight, res.Inner.Side)
	assert.Equal(t, SideLeft, res.Outer.Side)

	// The inner offset of a 40-square by 5 is a 30-square.
	b := boundsOf(res.Inner.Shapes)
	assert.InDelta(t, 30.0, b.Width(), 1e-6)
	assert.InDelta(t, 30.0, b.Height(), 1e-6)
}

func TestOffsetChainBothReversedAfterCachedWinding(t *testing.T) {
	// Interior-side selection must follow the reversed chain's own winding,
	// not a value memoized for the source chain before the reversal.
	c := squareChain(40)
	require.Equal(t, WindingCounterClockwise, c.Winding())

	res := OffsetChainBoth(c.Reverse(), 5)
	require.True(t, res.Success)

	inner := boundsOf(res.Inner.Shapes)
	assert.True(t, inner.Min.Approx(Pt(5, 5), 1e-9), "inner min %v", inner.Min)
	assert.True(t, inner.Max.Approx(Pt(35, 35), 1e-9), "inner max %v", inner.Max)
}

func boundsOf(shapes []Shape) Rect {
	r := emptyRect()
	for _, s := range shapes {
		r = r.Union(s.Bounds())
	}
	return r
}

func TestOffsetChainRoundedRectangle(t *testing.T) {
	// Lines joined by quarter-arc fillets: line/arc joints are coincident
	// after offsetting and must all resolve.
	r := 5.0
	c := NewChain([]Shape{
		NewShape(NewLine(Pt(r, 0), Pt(40-r, 0))),
		NewShape(Arc{Center: Pt(40-r, r), Radius: r, StartAngle: -math.Pi / 2, EndAngle: 0}),
		NewShape(NewLine(Pt(40, r), Pt(40, 20-r))),
		NewShape(Arc{Center: Pt(40-r, 20-r), Radius: r, StartAngle: 0, EndAngle: math.Pi / 2}),
		NewShape(NewLine(Pt(40-r, 20), Pt(r, 20))),
		NewShape(Arc{Center: Pt(r, 20-r), Radius: r, StartAngle: math.Pi / 2, EndAngle: math.Pi}),
		NewShape(NewLine(Pt(0, 20-r), Pt(0, r))),
		NewShape(Arc{Center: Pt(r, r), Radius: r, StartAngle: math.Pi, EndAngle: 3 * math.Pi / 2}),
	})
	require.True(t, c.IsClosed(0.05))

	res := OffsetChainBoth(c, 2)
	assert.True(t, res.Success, "warnings: %+v", res.Warnings)
	assert.Len(t, res.Inner.IntersectionPoints, 8)
	assert.Len(t, res.Outer.IntersectionPoints, 8)
}

func TestOffsetChainDegenerateInnerFails(t *testing.T) {
	// Offsetting a circle of radius 5 inward by 8 consumes the radius.
	c := circleChain(Pt(0, 0), 5)
	res := OffsetChainBoth(c, 8)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Warnings)
	kinds := map[OffsetWarningKind]bool{}
	for _, w := range res.Warnings {
		kinds[w.Kind] = true
	}
	assert.True(t, kinds[WarnDegenerateSegment])
	// The outer side is still produced.
	require.Len(t, res.Outer.Shapes, 1)
	assert.InDelta(t, 13.0, res.Outer.Shapes[0].Geom.(Circle).Radius, 1e-9)
}

func TestOffsetSideOpposite(t *testing.T) {
	assert.Equal(t, SideRight, SideLeft.opposite())
	assert.Equal(t, SideLeft, SideRight.opposite())
	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "right", SideRight.String())
}

func TestOffsetConfigDerivedDefaults(t *testing.T) {
	cfg := OffsetConfig{}.resolve(8)
	assert.InDelta(t, 20.0, cfg.SnapThreshold, 1e-9)
	assert.InDelta(t, 40.0, cfg.MaxExtension, 1e-9)
	assert.Positive(t, cfg.Tolerance)

	custom := OffsetConfig{SnapThreshold: 1, MaxExtension: 2, Tolerance: 0.1}.resolve(8)
	assert.Equal(t, 1.0, custom.SnapThreshold)
	assert.Equal(t, 2.0, custom.MaxExtension)
}

func TestOffsetWarningKindString(t *testing.T) {
	assert.Equal(t, "degenerate_segment", WarnDegenerateSegment.String())
	assert.Equal(t, "gap_fill_failed", WarnGapFill.String())
	assert.Equal(t, "self_intersection", WarnSelfIntersection.String())
}
