package cam

import (
	"math"

	"github.com/google/uuid"
)

// Part detection classifies closed chains into shells (outer boundaries) and
// holes (interior cut-outs), recursively: a hole may contain an island,
// which may contain further holes. Detection is best-effort: malformed input
// under-reports parts and over-reports warnings, it never fails.

// PartWarningKind categorizes non-fatal part-detection findings.
type PartWarningKind int

const (
	// WarnOpenChain marks a chain excluded because its endpoints do not
	// close within the derived closure tolerance.
	WarnOpenChain PartWarningKind = iota
	// WarnAmbiguousContainment marks a chain whose bounding box overlaps a
	// candidate container without being inside it.
	WarnAmbiguousContainment
)

// String returns the warning kind name.
func (k PartWarningKind) String() string {
	switch k {
	case WarnOpenChain:
		return "open_chain"
	case WarnAmbiguousContainment:
		return "ambiguous_containment"
	}
	return "unknown"
}

// PartWarning is a non-fatal diagnostic keyed by the chain that caused it.
type PartWarning struct {
	ChainID string
	Kind    PartWarningKind
	Message string
}

// PartShell is a part's outer boundary.
type PartShell struct {
	Chain  *Chain
	Bounds Rect
}

// PartHole is an interior cut-out. Holes nest: an island inside a hole is
// that hole's child, and may itself contain further holes.
type PartHole struct {
	Chain  *Chain
	Bounds Rect
	Holes  []*PartHole
}

// Part is one detected physical piece: a shell plus its hole tree.
type Part struct {
	ID    string
	Shell PartShell
	Holes []*PartHole
}

// PartResult is the always-returned outcome of part detection: best-effort
// parts plus the warnings accumulated along the way. ChainPart maps a chain
// id to the id of the part whose tree references it, making "which part does
// this chain belong to" a cheap reverse lookup.
type PartResult struct {
	Parts     []*Part
	Warnings  []PartWarning
	ChainPart map[string]string
}

// PartConfig holds the part-detection parameters.
type PartConfig struct {
	// BaseTolerance seeds the per-chain closure tolerance (see
	// Chain.ClosureTolerance).
	BaseTolerance float64
}

// PartOption configures part detection.
type PartOption func(*PartConfig)

// WithBaseTolerance sets the closure base tolerance.
func WithBaseTolerance(tol float64) PartOption {
	return func(c *PartConfig) {
		if tol > 0 {
			c.BaseTolerance = tol
		}
	}
}

// DetectParts classifies the chains into shells and nested holes.
//
// Closed chains are related by containment: bounding-box filtering first,
// then an exact ray-cast of a representative interior point against the
// candidate container. Containment depth parity decides the role: even
// depth is a shell (or an island, which roots a nested subtree), odd depth
// is a hole. Open chains are reported as warnings and skipped.
func DetectParts(chains []*Chain, opts ...PartOption) PartResult {
	cfg := PartConfig{BaseTolerance: defaultChainTolerance}
	for _, o := range opts {
		o(&cfg)
	}

	result := PartResult{ChainPart: make(map[string]string)}

	type node struct {
		chain    *Chain
		bounds   Rect
		interior Point
		parent   int
		children []int
		depth    int
	}
	var nodes []node
	for _, c := range chains {
		if c.Len() == 0 {
			continue
		}
		if !c.IsClosed(cfg.BaseTolerance) {
			result.Warnings = append(result.Warnings, PartWarning{
				ChainID: c.ID,
				Kind:    WarnOpenChain,
				Message: "chain endpoints do not close within tolerance; excluded from part detection",
			})
			Logger().Warn("open chain excluded from part detection", "chain", c.ID)
			continue
		}
		nodes = append(nodes, node{
			chain:    c,
			bounds:   c.BoundingBox(),
			interior: representativeInteriorPoint(c),
			parent:   -1,
		})
	}

	// Immediate container: the smallest-area chain that contains this
	// chain's interior point.
	for i := range nodes {
		bestArea := math.Inf(1)
		for j := range nodes {
			if i == j {
				continue
			}
			if !nodes[j].bounds.ContainsRect(nodes[i].bounds) {
				if partialOverlap(nodes[i].bounds, nodes[j].bounds) {
					result.Warnings = append(result.Warnings, PartWarning{
						ChainID: nodes[i].chain.ID,
						Kind:    WarnAmbiguousContainment,
						Message: "chain bounding box partially overlaps another boundary",
					})
				}
				continue
			}
			if !IsPointInsideChainExact(nodes[i].interior, nodes[j].chain) {
				continue
			}
			area := nodes[j].bounds.Width() * nodes[j].bounds.Height()
			if area < bestArea {
				bestArea = area
				nodes[i].parent = j
			}
		}
	}
	result.Warnings = dedupeWarnings(result.Warnings)

	for i := range nodes {
		if nodes[i].parent >= 0 {
			nodes[nodes[i].parent].children = append(nodes[nodes[i].parent].children, i)
		}
	}
	var setDepth func(i, d int)
	setDepth = func(i, d int) {
		nodes[i].depth = d
		for _, ch := range nodes[i].children {
			setDepth(ch, d+1)
		}
	}
	for i := range nodes {
		if nodes[i].parent < 0 {
			setDepth(i, 0)
		}
	}

	// Build the shell/hole trees from the top-level (even depth zero) roots.
	var buildHole func(i int, partID string) *PartHole
	buildHole = func(i int, partID string) *PartHole {
		h := &PartHole{Chain: nodes[i].chain, Bounds: nodes[i].bounds}
		result.ChainPart[nodes[i].chain.ID] = partID
		for _, ch := range nodes[i].children {
			h.Holes = append(h.Holes, buildHole(ch, partID))
		}
		return h
	}
	for i := range nodes {
		if nodes[i].parent >= 0 {
			continue
		}
		part := &Part{
			ID:    uuid.NewString(),
			Shell: PartShell{Chain: nodes[i].chain, Bounds: nodes[i].bounds},
		}
		result.ChainPart[nodes[i].chain.ID] = part.ID
		for _, ch := range nodes[i].children {
			part.Holes = append(part.Holes, buildHole(ch, part.ID))
		}
		result.Parts = append(result.Parts, part)
	}
	return result
}

// partialOverlap reports boxes that overlap without either containing the
// other: the signature of boundaries that cross each other.
func partialOverlap(a, b Rect) bool {
	return a.Overlaps(b) && !a.ContainsRect(b) && !b.ContainsRect(a)
}

// dedupeWarnings collapses repeated warnings for the same chain and kind.
func dedupeWarnings(ws []PartWarning) []PartWarning {
	type key struct {
		id   string
		kind PartWarningKind
	}
	seen := make(map[key]bool)
	out := ws[:0]
	for _, w := range ws {
		k := key{w.ChainID, w.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, w)
	}
	return out
}

// representativeInteriorPoint picks a point strictly inside the chain by
// stepping off the boundary midpoint along the normal, verified by the exact
// ray-cast. Falls back to the bounding-box center.
func representativeInteriorPoint(c *Chain) Point {
	if c.Len() == 0 {
		return Point{}
	}
	first := c.Shapes()[0]
	mid := first.Geom.PointAt(0.5)
	normal := first.Geom.TangentAt(0.5).Perp()
	step := math.Max(c.BoundingBox().MaxDimension()*1e-4, 1e-9)

	for _, delta := range []float64{step, -step, 10 * step, -10 * step} {
		candidate := mid.Add(normal.Mul(delta))
		if IsPointInsideChainExact(candidate, c) {
			return candidate
		}
	}
	return c.BoundingBox().Center()
}
