package cam

import (
	"math"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/camforge/cam/internal/memo"
)

// Winding is the traversal direction of a chain.
type Winding int

const (
	// WindingUnknown means the chain has no measurable area (open or
	// degenerate).
	WindingUnknown Winding = iota
	// WindingClockwise means the signed area of the boundary is negative.
	WindingClockwise
	// WindingCounterClockwise means the signed area is positive.
	WindingCounterClockwise
)

// String returns the constant name for diagnostics.
func (w Winding) String() string {
	switch w {
	case WindingClockwise:
		return "clockwise"
	case WindingCounterClockwise:
		return "counterclockwise"
	}
	return "unknown"
}

// Chain is an ordered sequence of shapes forming a supposed-to-be-continuous
// path. Consecutive shapes connect end-to-start within a tolerance; gaps are
// tolerated and diagnosed rather than rejected. A chain is closed when its
// first start and last end coincide within the derived closure tolerance.
//
// The winding direction is derived and cached; replacing the shape list
// through SetShapes invalidates it. Chains are otherwise never mutated, only
// replaced.
type Chain struct {
	// ID identifies the chain across derived artifacts (parts, offsets,
	// warnings).
	ID string

	shapes   []Shape
	revision uint64

	winding      Winding
	windingValid bool
}

// NewChain creates a chain over the given shapes with a fresh id.
func NewChain(shapes []Shape) *Chain {
	return &Chain{ID: uuid.NewString(), shapes: shapes}
}

// Shapes returns the ordered shape list. The returned slice must not be
// modified; use SetShapes to replace it.
func (c *Chain) Shapes() []Shape {
	return c.shapes
}

// Len returns the number of shapes in the chain.
func (c *Chain) Len() int {
	return len(c.shapes)
}

// chainRevisions issues globally unique revision numbers. Rewritten chains
// keep their source's ID, so the revision alone must distinguish their cached
// derived values from the source's.
var chainRevisions atomic.Uint64

func nextChainRevision() uint64 {
	return chainRevisions.Add(1)
}

// Revision returns the cache identity of the current shape list. It changes
// whenever the shape list is replaced or a rewritten chain is derived;
// derived-value caches key on (ID, Revision).
func (c *Chain) Revision() uint64 {
	return c.revision
}

// SetShapes replaces the shape list wholesale and invalidates every cached
// derived value.
func (c *Chain) SetShapes(shapes []Shape) {
	old := c.revision
	c.shapes = shapes
	c.revision = nextChainRevision()
	c.windingValid = false
	invalidateChainTessellation(c.ID, old)
}

// derived returns a rewritten chain carrying the source's identity but a
// fresh revision, so memoized tessellations of the source never alias the
// new geometry. Winding recomputes on demand.
func (c *Chain) derived(shapes []Shape) *Chain {
	return &Chain{ID: c.ID, shapes: shapes, revision: nextChainRevision()}
}

// Start returns the start point of the first shape.
func (c *Chain) Start() Point {
	if len(c.shapes) == 0 {
		return Point{}
	}
	return c.shapes[0].Start()
}

// End returns the end point of the last shape.
func (c *Chain) End() Point {
	if len(c.shapes) == 0 {
		return Point{}
	}
	return c.shapes[len(c.shapes)-1].End()
}

// BoundingBox returns the union of the shape bounding boxes.
func (c *Chain) BoundingBox() Rect {
	r := emptyRect()
	for _, s := range c.shapes {
		r = r.Union(s.Bounds())
	}
	return r
}

// Reverse returns a new chain traversing the same geometry in the opposite
// direction: shape order reversed and every shape reoriented. Reversing
// twice restores the original order and endpoint sequence.
func (c *Chain) Reverse() *Chain {
	shapes := make([]Shape, len(c.shapes))
	for i, s := range c.shapes {
		shapes[len(c.shapes)-1-i] = s.Reverse()
	}
	return c.derived(shapes)
}

// ClosureTolerance derives the distance below which this chain's endpoints
// are considered coincident. Real CAD files exhibit gaps proportional to
// drawing scale and path complexity, so the tolerance grows with bounding
// box size and shape count:
//
//	max(base, 0.05*size, complexityFactor), capped at 0.10*size
//
// where size is the largest bounding-box dimension and the complexity factor
// scales the base tolerance with the shape count. The formula is a
// behavioral contract tuned against malformed production DXF files; its edge
// cases on very dense small chains are known to be imperfect, and it must
// not be re-tuned without revalidating those fixtures.
func (c *Chain) ClosureTolerance(base float64) float64 {
	size := c.BoundingBox().MaxDimension()
	if size <= 0 || !isFinite(size) {
		return base
	}
	complexity := base * (1 + 0.1*float64(len(c.shapes)))
	tol := math.Max(base, math.Max(0.05*size, complexity))
	if cap := 0.10 * size; tol > cap {
		tol = cap
	}
	return tol
}

// IsClosed reports whether the chain's start and end coincide within the
// derived closure tolerance. Single closed primitives (circles, ellipses)
// are closed by construction.
func (c *Chain) IsClosed(base float64) bool {
	if len(c.shapes) == 0 {
		return false
	}
	if len(c.shapes) == 1 {
		switch c.shapes[0].Geom.(type) {
		case Circle, Ellipse:
			return true
		case Polyline:
			if p := c.shapes[0].Geom.(Polyline); p.Closed {
				return true
			}
		}
	}
	return c.Start().Approx(c.End(), c.ClosureTolerance(base))
}

// Winding returns the cached traversal direction, computing it on first use
// via signed-area accumulation over the tessellated boundary. Idempotent:
// repeated calls on an unchanged chain return the same value.
func (c *Chain) Winding() Winding {
	if c.windingValid {
		return c.winding
	}
	c.winding = windingOf(chainTessellation(c, defaultTessellationTolerance))
	c.windingValid = true
	return c.winding
}

// SignedArea returns the shoelace area of the tessellated boundary.
// Positive for counter-clockwise traversal (y-up coordinates).
func (c *Chain) SignedArea() float64 {
	return signedArea(chainTessellation(c, defaultTessellationTolerance))
}

// windingOf classifies a tessellated boundary by its signed area.
func windingOf(pts []Point) Winding {
	area := signedArea(pts)
	switch {
	case area > epsilon:
		return WindingCounterClockwise
	case area < -epsilon:
		return WindingClockwise
	}
	return WindingUnknown
}

// signedArea accumulates the shoelace sum over a point loop.
func signedArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(pts); i++ {
		p := pts[i]
		q := pts[(i+1)%len(pts)]
		sum += p.Cross(q)
	}
	return sum / 2
}

// -------------------------------------------------------------------
// Tessellation memoization
// -------------------------------------------------------------------

// tessKey identifies one tessellation of one chain revision.
type tessKey struct {
	id       string
	revision uint64
	tol      float64
}

// tessCache keeps recent chain tessellations. Part detection ray-casts the
// same boundaries repeatedly; the soft limit covers typical drawings while
// bounding memory on pathological ones.
var tessCache = memo.New[tessKey, []Point](256)

// chainTessellation returns the chain boundary sampled at tol, memoized per
// (chain id, revision).
func chainTessellation(c *Chain, tol float64) []Point {
	key := tessKey{id: c.ID, revision: c.revision, tol: tol}
	return tessCache.GetOrCreate(key, func() []Point {
		var pts []Point
		for _, s := range c.shapes {
			sub := Tessellate(s, tol)
			if len(pts) > 0 && len(sub) > 0 && pts[len(pts)-1].Approx(sub[0], epsilon) {
				sub = sub[1:]
			}
			pts = append(pts, sub...)
		}
		return pts
	})
}

// invalidateChainTessellation drops cached tessellations of a superseded
// chain revision. Stale revisions age out of the cache on their own; dropping
// the default-tolerance entry eagerly keeps the common path fresh.
func invalidateChainTessellation(id string, revision uint64) {
	tessCache.Invalidate(tessKey{id: id, revision: revision, tol: defaultTessellationTolerance})
}
