package cam

import "math"

// Rect is an axis-aligned bounding rectangle.
// Min holds the minimum coordinates, Max the maximum.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y)},
		Max: Point{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y)},
	}
}

// emptyRect returns a rectangle that acts as the identity for Union.
func emptyRect() Rect {
	return Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether the rectangle contains no points.
func (r Rect) IsEmpty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// MaxDimension returns the larger of width and height.
// Used by the closure-tolerance heuristic, which scales with drawing size.
func (r Rect) MaxDimension() float64 {
	return math.Max(r.Width(), r.Height())
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Expand returns the rectangle grown by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Contains reports whether the point is inside the rectangle (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether other lies entirely within r (inclusive).
func (r Rect) ContainsRect(other Rect) bool {
	return other.Min.X >= r.Min.X && other.Max.X <= r.Max.X &&
		other.Min.Y >= r.Min.Y && other.Max.Y <= r.Max.Y
}

// Overlaps reports whether the two rectangles share any area.
func (r Rect) Overlaps(other Rect) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}
