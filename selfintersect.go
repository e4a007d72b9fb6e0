package cam

import "sort"

// SweepThreshold is the segment count above which self-intersection
// detection switches from the brute-force pairwise check to the x-sorted
// sweep. It is a performance tuning constant only: both algorithms produce
// identical intersection sets, so re-tuning it never changes output.
var SweepThreshold = 20

// SelfIntersection is a crossing between two non-adjacent segments of one
// polyline.
type SelfIntersection struct {
	// SegmentA and SegmentB index the crossing segments, SegmentA < SegmentB.
	SegmentA, SegmentB int
	// Result is the underlying intersection (point, params, confidence).
	Result IntersectionResult
}

// SelfIntersections finds all crossings between non-adjacent segments of a
// polyline shape. Geometrically adjacent pairs (consecutive segments, and
// the first/last pair of a closed polyline) touch by construction and are
// never reported.
//
// Returns ErrNotPolyline if the shape's geometry is not a Polyline.
func SelfIntersections(s Shape) ([]SelfIntersection, error) {
	p, ok := s.Geom.(Polyline)
	if !ok {
		return nil, ErrNotPolyline
	}

	var out []SelfIntersection
	if len(p.Segments) <= SweepThreshold {
		out = selfIntersectBrute(p)
	} else {
		out = selfIntersectSweep(p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SegmentA != out[j].SegmentA {
			return out[i].SegmentA < out[j].SegmentA
		}
		return out[i].SegmentB < out[j].SegmentB
	})
	return out, nil
}

// segmentsAdjacent reports whether segments i < j of an n-segment polyline
// are geometric neighbors that share a joint by construction.
func segmentsAdjacent(i, j, n int, closed bool) bool {
	if j == i+1 {
		return true
	}
	return closed && i == 0 && j == n-1
}

// selfIntersectBrute checks every non-adjacent pair. O(n²), fine below the
// sweep threshold.
func selfIntersectBrute(p Polyline) []SelfIntersection {
	n := len(p.Segments)
	var out []SelfIntersection
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if segmentsAdjacent(i, j, n, p.Closed) {
				continue
			}
			out = append(out, intersectPair(p, i, j)...)
		}
	}
	return out
}

// sweepEntry is one segment in the sweep's working order.
type sweepEntry struct {
	index  int
	bounds Rect
}

// selfIntersectSweep processes segments in ascending min-x order, keeping an
// active set of segments whose x-extent overlaps the sweep position. Only
// active pairs with overlapping boxes are tested, with the same adjacency
// exclusion as the brute-force path, so the reported set is identical.
func selfIntersectSweep(p Polyline) []SelfIntersection {
	n := len(p.Segments)
	entries := make([]sweepEntry, n)
	for i, seg := range p.Segments {
		entries[i] = sweepEntry{index: i, bounds: seg.Bounds()}
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].bounds.Min.X < entries[b].bounds.Min.X
	})

	var out []SelfIntersection
	var active []sweepEntry
	for _, e := range entries {
		// Retire segments that ended before this one starts.
		live := active[:0]
		for _, a := range active {
			if a.bounds.Max.X >= e.bounds.Min.X {
				live = append(live, a)
			}
		}
		active = live

		for _, a := range active {
			i, j := a.index, e.index
			if i > j {
				i, j = j, i
			}
			if segmentsAdjacent(i, j, n, p.Closed) {
				continue
			}
			if !a.bounds.Overlaps(e.bounds) {
				continue
			}
			out = append(out, intersectPair(p, i, j)...)
		}
		active = append(active, e)
	}
	return out
}

// intersectPair runs the bounded intersection for segment pair (i, j).
func intersectPair(p Polyline, i, j int) []SelfIntersection {
	n := len(p.Segments)
	rs := Intersect(p.Segments[i], p.Segments[j],
		WithPositions(positionFor(i, n, p.Closed), positionFor(j, n, p.Closed)))
	out := make([]SelfIntersection, 0, len(rs))
	for _, r := range rs {
		out = append(out, SelfIntersection{SegmentA: i, SegmentB: j, Result: r})
	}
	return out
}
