package cam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetSquareChain builds a closed square chain with the lower-left corner
// at origin, translated by d.
func offsetSquareChain(size float64, d Point) *Chain {
	return TranslateChain(squareChain(size), d)
}

func TestDetectPartsShellWithTwoHoles(t *testing.T) {
	shell := squareChain(100)
	hole1 := circleChain(Pt(30, 50), 10)
	hole2 := circleChain(Pt(70, 50), 10)

	result := DetectParts([]*Chain{shell, hole1, hole2})
	require.Len(t, result.Parts, 1)
	assert.Empty(t, result.Warnings)

	part := result.Parts[0]
	assert.Equal(t, shell.ID, part.Shell.Chain.ID)
	require.Len(t, part.Holes, 2)
	holeIDs := map[string]bool{part.Holes[0].Chain.ID: true, part.Holes[1].Chain.ID: true}
	assert.True(t, holeIDs[hole1.ID])
	assert.True(t, holeIDs[hole2.ID])
}

func TestDetectPartsChainPartLookup(t *testing.T) {
	shell := squareChain(100)
	hole := circleChain(Pt(50, 50), 10)

	result := DetectParts([]*Chain{shell, hole})
	require.Len(t, result.Parts, 1)
	partID := result.Parts[0].ID
	assert.Equal(t, partID, result.ChainPart[shell.ID])
	assert.Equal(t, partID, result.ChainPart[hole.ID])
}

func TestDetectPartsSeparateParts(t *testing.T) {
	a := squareChain(10)
	b := offsetSquareChain(10, Pt(100, 0))

	result := DetectParts([]*Chain{a, b})
	assert.Len(t, result.Parts, 2)
	assert.NotEqual(t, result.ChainPart[a.ID], result.ChainPart[b.ID])
}

func TestDetectPartsNestedIsland(t *testing.T) {
	// Shell > hole > island: the island hangs off the hole in the tree.
	shell := squareChain(100)
	hole := circleChain(Pt(50, 50), 30)
	island := offsetSquareChain(10, Pt(45, 45))

	result := DetectParts([]*Chain{shell, hole, island})
	require.Len(t, result.Parts, 1)
	part := result.Parts[0]
	require.Len(t, part.Holes, 1)
	assert.Equal(t, hole.ID, part.Holes[0].Chain.ID)
	require.Len(t, part.Holes[0].Holes, 1)
	assert.Equal(t, island.ID, part.Holes[0].Holes[0].Chain.ID)
}

func TestDetectPartsOpenChainWarning(t *testing.T) {
	open := NewChain([]Shape{
		NewShape(NewLine(Pt(0, 0), Pt(10, 0))),
		NewShape(NewLine(Pt(10, 0), Pt(10, 10))),
	})
	shell := offsetSquareChain(20, Pt(100, 100))

	result := DetectParts([]*Chain{open, shell})
	require.Len(t, result.Parts, 1)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, open.ID, result.Warnings[0].ChainID)
	assert.Equal(t, WarnOpenChain, result.Warnings[0].Kind)
	assert.NotContains(t, result.ChainPart, open.ID)
}

func TestDetectPartsAmbiguousOverlapWarning(t *testing.T) {
	a := squareChain(10)
	b := offsetSquareChain(10, Pt(5, 5)) // partially overlapping boxes

	result := DetectParts([]*Chain{a, b})
	// Both boundaries still produce best-effort parts.
	assert.Len(t, result.Parts, 2)
	require.NotEmpty(t, result.Warnings)
	for _, w := range result.Warnings {
		assert.Equal(t, WarnAmbiguousContainment, w.Kind)
	}
}

func TestDetectPartsWarningsDeduped(t *testing.T) {
	a := squareChain(10)
	b := offsetSquareChain(10, Pt(5, 5))
	c := offsetSquareChain(10, Pt(5, -5))

	result := DetectParts([]*Chain{a, b, c})
	seen := map[PartWarning]bool{}
	for _, w := range result.Warnings {
		assert.False(t, seen[w], "duplicate warning %+v", w)
		seen[w] = true
	}
}

func TestDetectPartsNeverFails(t *testing.T) {
	// Degenerate input: empty chains and open fragments mixed with one
	// valid boundary.
	empty := NewChain(nil)
	open := NewChain([]Shape{NewShape(NewLine(Pt(0, 0), Pt(1, 1)))})
	valid := squareChain(10)

	result := DetectParts([]*Chain{empty, open, valid})
	assert.NotNil(t, result.ChainPart)
	// Best effort: the valid boundary is still reported.
	assert.NotEmpty(t, result.Parts)
}

func TestRepresentativeInteriorPoint(t *testing.T) {
	c := squareChain(10)
	p := representativeInteriorPoint(c)
	assert.True(t, IsPointInsideChainExact(p, c))

	circle := circleChain(Pt(5, 5), 3)
	p = representativeInteriorPoint(circle)
	assert.True(t, IsPointInsideChainExact(p, circle))
}

func TestPartWarningKindString(t *testing.T) {
	assert.Equal(t, "open_chain", WarnOpenChain.String())
	assert.Equal(t, "ambiguous_containment", WarnAmbiguousContainment.String())
}
