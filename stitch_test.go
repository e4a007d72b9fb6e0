package cam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitchJointCoincident(t *testing.T) {
	a := NewShape(NewLine(Pt(0, 0), Pt(10, 0)))
	b := NewShape(NewLine(Pt(10, 0.005), Pt(10, 10)))
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 1, MaxExtension: 2}

	ta, tb, joint, err := stitchJoint(a, b, cfg)
	require.NoError(t, err)
	// Snapped to the midpoint of the near-coincident endpoints.
	assert.True(t, joint.Approx(Pt(10, 0.0025), 1e-9))
	assert.True(t, ta.End().Approx(joint, 1e-9))
	assert.True(t, tb.Start().Approx(joint, 1e-9))
}

func TestStitchJointTrueIntersection(t *testing.T) {
	// Overlapping segments: trim back to the crossing.
	a := NewShape(NewLine(Pt(0, 2), Pt(12, 2)))
	b := NewShape(NewLine(Pt(8, 0), Pt(8, 10)))
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 10, MaxExtension: 20}

	ta, tb, joint, err := stitchJoint(a, b, cfg)
	require.NoError(t, err)
	assert.True(t, joint.Approx(Pt(8, 2), 1e-9))
	assert.True(t, ta.End().Approx(Pt(8, 2), 1e-9))
	assert.True(t, tb.Start().Approx(Pt(8, 2), 1e-9))
}

func TestStitchJointGapExtension(t *testing.T) {
	// Convex corner gap: neither segment reaches the joint, both extend.
	a := NewShape(NewLine(Pt(0, 0), Pt(8, 0)))
	b := NewShape(NewLine(Pt(12, 4), Pt(12, 10)))
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 2, MaxExtension: 10}

	ta, tb, joint, err := stitchJoint(a, b, cfg)
	require.NoError(t, err)
	assert.True(t, joint.Approx(Pt(12, 0), 1e-9))
	assert.True(t, ta.End().Approx(Pt(12, 0), 1e-9))
	assert.True(t, tb.Start().Approx(Pt(12, 0), 1e-9))
}

func TestStitchJointBeyondLimitsFails(t *testing.T) {
	// Parallel offset segments never intersect, extended or not.
	a := NewShape(NewLine(Pt(0, 0), Pt(10, 0)))
	b := NewShape(NewLine(Pt(20, 5), Pt(30, 5)))
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 2, MaxExtension: 4}

	_, _, _, err := stitchJoint(a, b, cfg)
	assert.Error(t, err)
}

func TestStitchJointArcTrim(t *testing.T) {
	// Line meeting an offset arc: the arc's start angle moves to the joint.
	a := NewShape(NewLine(Pt(0, 3), Pt(6, 3)))
	b := NewShape(Arc{Center: Pt(5, 0), Radius: 3, StartAngle: math.Pi / 2, EndAngle: 0, Clockwise: true})
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 5, MaxExtension: 10}

	_, tb, joint, err := stitchJoint(a, b, cfg)
	require.NoError(t, err)
	// Joint lies on the arc's circle.
	assert.InDelta(t, 3.0, joint.Distance(Pt(5, 0)), 1e-9)
	arc := tb.Geom.(Arc)
	assert.True(t, tb.Start().Approx(joint, 1e-9))
	assert.InDelta(t, joint.Sub(Pt(5, 0)).Atan2(), arc.StartAngle, 1e-9)
}

func TestStitchJointArcSweepInversionRejected(t *testing.T) {
	// The only joint candidate sits angularly behind the arc's start, so
	// trimming the arc's end there would wrap the sweep nearly a full turn.
	// The joint is reported as unresolvable instead.
	a := NewShape(Arc{Center: Pt(0, 0), Radius: 3, StartAngle: 0.2, EndAngle: 1.2})
	b := NewShape(NewLine(Pt(3, -0.5), Pt(3, -5)))
	cfg := OffsetConfig{Tolerance: 0.01, SnapThreshold: 2, MaxExtension: 5}

	_, _, _, err := stitchJoint(a, b, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep")
}

func TestAtomizeFlattensCompounds(t *testing.T) {
	nested := NewShape(Polyline{Segments: []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(1, 0))),
		NewShape(Polyline{Segments: []Shape{
			NewShape(NewLine(Pt(1, 0), Pt(2, 0))),
			NewShape(Arc{Center: Pt(2, 1), Radius: 1, StartAngle: -math.Pi / 2, EndAngle: 0}),
		}}),
	}})
	atoms := atomize(nested, 0.01)
	require.Len(t, atoms, 3)
	for _, s := range atoms {
		switch s.Geom.(type) {
		case Line, Arc:
		default:
			t.Errorf("atomize left compound geometry %T", s.Geom)
		}
	}
}

func TestNearestJointPicksClosest(t *testing.T) {
	rs := []IntersectionResult{
		{Point: Pt(100, 100)},
		{Point: Pt(1, 1)},
	}
	joint, ok := nearestJoint(rs, Pt(0, 0), Pt(2, 2), 5)
	require.True(t, ok)
	assert.Equal(t, Pt(1, 1), joint)

	_, ok = nearestJoint(rs, Pt(0, 0), Pt(2, 2), 0.5)
	assert.False(t, ok)
}
