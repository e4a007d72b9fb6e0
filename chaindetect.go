package cam

import "math"

// Chain detection groups an unordered shape list into chains by endpoint
// proximity: starting from a seed shape, the nearest unused endpoint within
// tolerance is merged first, growing the chain at both ends until no
// candidate remains.

// DetectChains groups shapes into chains whose consecutive endpoints lie
// within tolerance of each other. Shape orientation is taken as-is; a
// detected chain may contain flipped shapes, which Normalize repairs.
// Isolated shapes become single-shape chains. The input is not modified.
func DetectChains(shapes []Shape, tolerance float64) []*Chain {
	if tolerance <= 0 {
		tolerance = defaultChainTolerance
	}

	used := make([]bool, len(shapes))
	var chains []*Chain
	for seed := range shapes {
		if used[seed] {
			continue
		}
		used[seed] = true
		members := []Shape{shapes[seed]}
		head := shapes[seed].Start()
		tail := shapes[seed].End()

		for {
			best := findNearestLink(shapes, used, head, tail, tolerance)
			if best.index < 0 {
				break
			}
			used[best.index] = true
			s := shapes[best.index]
			if best.atTail {
				members = append(members, s)
				tail = otherEndpoint(s, best.viaStart)
			} else {
				members = append([]Shape{s}, members...)
				head = otherEndpoint(s, best.viaStart)
			}
		}
		chains = append(chains, NewChain(members))
	}
	return chains
}

// defaultChainTolerance is the endpoint merge distance used when the caller
// passes a non-positive tolerance.
const defaultChainTolerance = 0.05

// linkCandidate describes the best unused shape to attach next.
type linkCandidate struct {
	index    int
	atTail   bool // attach at the chain tail (vs head)
	viaStart bool // the shape's start point is the matching endpoint
	dist     float64
}

// findNearestLink scans unused shapes for the endpoint closest to either
// chain end, nearest first.
func findNearestLink(shapes []Shape, used []bool, head, tail Point, tol float64) linkCandidate {
	best := linkCandidate{index: -1, dist: math.Inf(1)}
	consider := func(i int, atTail, viaStart bool, d float64) {
		if d <= tol && d < best.dist {
			best = linkCandidate{index: i, atTail: atTail, viaStart: viaStart, dist: d}
		}
	}
	for i, s := range shapes {
		if used[i] {
			continue
		}
		start, end := s.Start(), s.End()
		consider(i, true, true, tail.Distance(start))
		consider(i, true, false, tail.Distance(end))
		consider(i, false, true, head.Distance(start))
		consider(i, false, false, head.Distance(end))
	}
	return best
}

// otherEndpoint returns the endpoint opposite to the one that matched.
func otherEndpoint(s Shape, matchedStart bool) Point {
	if matchedStart {
		return s.End()
	}
	return s.Start()
}
