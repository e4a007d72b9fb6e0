package cam

import (
	"errors"
	"fmt"
	"math"
)

// ErrDiscontinuousChain is returned when normalization cannot order the
// chain's shapes into a continuous traversal within the configured attempt
// budget.
var ErrDiscontinuousChain = errors.New("cam: chain traversal cannot be made continuous")

// NormalizeConfig bounds the chain normalization walk.
type NormalizeConfig struct {
	// Tolerance is the endpoint coincidence distance.
	Tolerance float64
	// MaxTraversalAttempts caps how many seed orderings are tried before
	// normalization gives up. Must terminate: a chain that cannot be made
	// continuous fails, it never loops.
	MaxTraversalAttempts int
}

// DefaultNormalizeConfig returns the normalization defaults.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		Tolerance:            defaultChainTolerance,
		MaxTraversalAttempts: 16,
	}
}

// Normalize re-orders and re-orients a detected chain so that every shape's
// start point equals the previous shape's end point within the tolerance,
// repairing shapes the source file inserted in the wrong orientation.
//
// The walk is seeded from successive shapes (forward then reversed) up to
// MaxTraversalAttempts; if no seed yields a continuous traversal the chain
// is returned unchanged along with ErrDiscontinuousChain, wrapped with the
// chain id.
func Normalize(c *Chain, cfg NormalizeConfig) (*Chain, error) {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultChainTolerance
	}
	if cfg.MaxTraversalAttempts <= 0 {
		cfg.MaxTraversalAttempts = DefaultNormalizeConfig().MaxTraversalAttempts
	}

	shapes := c.Shapes()
	n := len(shapes)
	if n <= 1 {
		return c, nil
	}

	for attempt := 0; attempt < cfg.MaxTraversalAttempts; attempt++ {
		seedIndex := (attempt / 2) % n
		seedReversed := attempt%2 == 1
		if ordered, ok := traverseFrom(shapes, seedIndex, seedReversed, cfg.Tolerance); ok {
			return c.derived(ordered), nil
		}
	}

	Logger().Warn("chain normalization failed",
		"chain", c.ID, "shapes", n, "attempts", cfg.MaxTraversalAttempts)
	return c, fmt.Errorf("chain %s: %w", c.ID, ErrDiscontinuousChain)
}

// traverseFrom greedily builds a continuous ordering starting from the given
// seed shape, flipping shapes whose end connects instead of their start.
// Returns the ordering and whether every shape was connected.
func traverseFrom(shapes []Shape, seedIndex int, seedReversed bool, tol float64) ([]Shape, bool) {
	n := len(shapes)
	used := make([]bool, n)

	seed := shapes[seedIndex]
	if seedReversed {
		seed = seed.Reverse()
	}
	used[seedIndex] = true
	ordered := make([]Shape, 0, n)
	ordered = append(ordered, seed)
	current := seed.End()

	for len(ordered) < n {
		bestIdx := -1
		bestFlip := false
		bestDist := math.Inf(1)
		for i, s := range shapes {
			if used[i] {
				continue
			}
			if d := current.Distance(s.Start()); d <= tol && d < bestDist {
				bestIdx, bestFlip, bestDist = i, false, d
			}
			if d := current.Distance(s.End()); d <= tol && d < bestDist {
				bestIdx, bestFlip, bestDist = i, true, d
			}
		}
		if bestIdx < 0 {
			return nil, false
		}
		used[bestIdx] = true
		next := shapes[bestIdx]
		if bestFlip {
			next = next.Reverse()
		}
		ordered = append(ordered, next)
		current = next.End()
	}
	return ordered, true
}
