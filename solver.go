package cam

import "math"

// Numerically robust quadratic root solving, used by the line/circle and
// circle/circle intersection routines. The stable form avoids catastrophic
// cancellation when b dominates the discriminant.

// solveQuadratic finds the real roots of ax^2 + bx + c = 0, sorted ascending.
// Degenerate coefficients collapse to the linear (or empty) case rather than
// producing NaN roots.
func solveQuadratic(a, b, c float64) []float64 {
	sc0 := c / a
	sc1 := b / a
	if !isFinite(sc0) || !isFinite(sc1) {
		// a is zero or overwhelmed: solve bx + c = 0.
		root := -c / b
		if isFinite(root) {
			return []float64{root}
		}
		if b == 0 && c == 0 {
			return []float64{0}
		}
		return nil
	}

	disc := sc1*sc1 - 4*sc0
	if !isFinite(disc) {
		// Discriminant overflow: one root from the dominant linear term.
		root1 := -sc1
		root2 := sc0 / root1
		if !isFinite(root2) {
			return []float64{root1}
		}
		return sortedPair(root1, root2)
	}
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-0.5 * sc1}
	}

	// Stable evaluation: compute the larger-magnitude root first, derive the
	// other from the product of roots.
	root1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(disc), sc1))
	root2 := sc0 / root1
	if !isFinite(root2) {
		return []float64{root1}
	}
	return sortedPair(root1, root2)
}

func sortedPair(a, b float64) []float64 {
	if a > b {
		return []float64{b, a}
	}
	return []float64{a, b}
}
