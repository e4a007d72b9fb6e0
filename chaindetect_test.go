package cam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectChainsGroupsConnected(t *testing.T) {
	shapes := []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10, 0), Pt(10, 10))),
		NewShape(NewLine(Pt(10, 10), Pt(0, 10))),
		NewShape(Circle{Center: Pt(50, 50), Radius: 5}),
	}
	chains := DetectChains(shapes, 0.05)
	require.Len(t, chains, 2)

	var open, isolated *Chain
	for _, c := range chains {
		if c.Len() == 3 {
			open = c
		} else {
			isolated = c
		}
	}
	require.NotNil(t, open, "expected a 3-shape chain")
	require.NotNil(t, isolated)
	assert.Equal(t, 1, isolated.Len())
}

func TestDetectChainsToleratesGaps(t *testing.T) {
	// Endpoints 0.04 apart with tolerance 0.05 still connect.
	shapes := []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10.04, 0), Pt(10.04, 10))),
	}
	chains := DetectChains(shapes, 0.05)
	require.Len(t, chains, 1)
	assert.Equal(t, 2, chains[0].Len())
}

func TestDetectChainsRespectsTolerance(t *testing.T) {
	shapes := []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10.2, 0), Pt(10.2, 10))),
	}
	chains := DetectChains(shapes, 0.05)
	assert.Len(t, chains, 2)
}

func TestDetectChainsFlippedShapes(t *testing.T) {
	// The middle edge is stored backwards; detection links by proximity of
	// either endpoint, leaving orientation repair to Normalize.
	shapes := []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10, 10), Pt(10, 0))), // reversed
		NewShape(NewLine(Pt(10, 10), Pt(0, 10))),
	}
	chains := DetectChains(shapes, 0.05)
	require.Len(t, chains, 1)
	assert.Equal(t, 3, chains[0].Len())
}

func TestDetectChainsGrowsBothEnds(t *testing.T) {
	// The seed shape sits in the middle of the path; the chain must extend
	// from its head as well as its tail.
	shapes := []Shape{
		NewShape(NewLine(Pt(10, 0), Pt(20, 0))), // seed (middle)
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),  // attaches at head
		NewShape(NewLine(Pt(20, 0), Pt(20, 10))),
	}
	chains := DetectChains(shapes, 0.05)
	require.Len(t, chains, 1)
	c := chains[0]
	require.Equal(t, 3, c.Len())
	assert.Equal(t, Pt(0, 0), c.Start())
	assert.Equal(t, Pt(20, 10), c.End())
}

func TestDetectChainsEmptyInput(t *testing.T) {
	assert.Empty(t, DetectChains(nil, 0.05))
}

func TestDetectChainsDefaultTolerance(t *testing.T) {
	shapes := []Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10.01, 0), Pt(10, 10))),
	}
	// Non-positive tolerance falls back to the default (0.05).
	chains := DetectChains(shapes, 0)
	assert.Len(t, chains, 1)
}
