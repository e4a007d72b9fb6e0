package cam

import "math"

// Cut sequencing orders detected geometry for the machine: every hole is cut
// before the shell that surrounds it (cutting the shell first drops the
// workpiece and loses the holes), and parts are visited nearest-first from
// the torch's current position to keep rapids short.

// CutStep is one chain in the final cutting order.
type CutStep struct {
	Chain *Chain
	// IsHole reports whether the chain is an interior cut-out of its part.
	IsHole bool
	// PartID names the owning part.
	PartID string
}

// SequenceCuts orders the chains of the detected parts for cutting,
// starting from the given torch position. Within a part, holes come first
// (deepest nesting level first), then the shell; parts are ordered greedily
// by shell bounding-box center distance from the previous part.
func SequenceCuts(parts []*Part, start Point) []CutStep {
	remaining := make([]*Part, len(parts))
	copy(remaining, parts)

	var steps []CutStep
	pos := start
	for len(remaining) > 0 {
		best := 0
		bestDist := math.Inf(1)
		for i, p := range remaining {
			if d := p.Shell.Bounds.Center().Distance(pos); d < bestDist {
				best, bestDist = i, d
			}
		}
		p := remaining[best]
		remaining = append(remaining[:best], remaining[best+1:]...)

		steps = append(steps, partSteps(p)...)
		pos = p.Shell.Bounds.Center()
	}
	return steps
}

// partSteps lists one part's cuts: holes deepest-first, shell last.
func partSteps(p *Part) []CutStep {
	var steps []CutStep
	var walk func(holes []*PartHole, depth int)

	// Collect holes by depth so islands (and their holes) are cut before
	// the hole that surrounds them.
	byDepth := make(map[int][]*PartHole)
	maxDepth := 0
	walk = func(holes []*PartHole, depth int) {
		for _, h := range holes {
			byDepth[depth] = append(byDepth[depth], h)
			if depth > maxDepth {
				maxDepth = depth
			}
			walk(h.Holes, depth+1)
		}
	}
	walk(p.Holes, 0)

	for depth := maxDepth; depth >= 0; depth-- {
		for _, h := range byDepth[depth] {
			steps = append(steps, CutStep{Chain: h.Chain, IsHole: true, PartID: p.ID})
		}
	}
	steps = append(steps, CutStep{Chain: p.Shell.Chain, IsHole: false, PartID: p.ID})
	return steps
}
