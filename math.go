package cam

import "math"

// epsilon is the base tolerance for degenerate-geometry checks (zero-length
// vectors, parallel direction tests). Distance-style tolerances are always
// caller-supplied; epsilon only guards against numerical blowups.
const epsilon = 1e-10

// paramEpsilon is the slack applied to curve parameters when deciding whether
// an intersection lies within a finite segment. Hits inside this margin of a
// segment boundary are kept but reported with reduced confidence.
const paramEpsilon = 1e-9

// twoPi is the full circle in radians.
const twoPi = 2 * math.Pi

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle maps an angle in radians onto [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// AngleInSweep reports whether angle lies on the arc that starts at start and
// sweeps by sweep radians counter-clockwise (sweep > 0) or clockwise
// (sweep < 0). All angles are normalized internally; the arc endpoints are
// included within a small angular slack.
func AngleInSweep(angle, start, sweep float64) bool {
	const slack = 1e-9
	if math.Abs(sweep) >= twoPi-slack {
		return true
	}
	delta := NormalizeAngle(angle - start)
	if sweep >= 0 {
		return delta <= sweep+slack
	}
	// Clockwise: the covered set is [start+sweep, start], i.e. delta in
	// [2π+sweep, 2π) or delta == 0.
	return delta <= slack || delta >= twoPi+sweep-slack
}

// clamp limits v to the range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isFinite reports whether x is neither infinite nor NaN.
func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
