package cam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    []float64
	}{
		{"two roots", 1, -3, 2, []float64{1, 2}},
		{"double root", 1, -2, 1, []float64{1}},
		{"no real roots", 1, 0, 1, nil},
		{"linear", 0, 2, -4, []float64{2}},
		{"scaled", 2, -6, 4, []float64{1, 2}},
		{"negative leading", -1, 3, -2, []float64{1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := solveQuadratic(tc.a, tc.b, tc.c)
			require.Len(t, got, len(tc.want))
			for i := range tc.want {
				assert.InDelta(t, tc.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestSolveQuadraticRootsSorted(t *testing.T) {
	got := solveQuadratic(1, 1, -6) // roots -3, 2
	require.Len(t, got, 2)
	assert.Less(t, got[0], got[1])
}

func TestSolveQuadraticCancellation(t *testing.T) {
	// b dominates: the naive formula loses the small root to cancellation.
	// x^2 - 1e8*x + 1 = 0, roots ~1e8 and ~1e-8.
	got := solveQuadratic(1, -1e8, 1)
	require.Len(t, got, 2)
	assert.InDelta(t, 1e-8, got[0], 1e-14)
	assert.InDelta(t, 1e8, got[1], 1)
}

func TestSolveQuadraticRootsSatisfyEquation(t *testing.T) {
	a, b, c := 3.0, -7.0, 2.0
	for _, x := range solveQuadratic(a, b, c) {
		assert.InDelta(t, 0.0, a*x*x+b*x+c, 1e-9)
	}
}

func TestSolveQuadraticDegenerate(t *testing.T) {
	// a = b = 0: no equation left to solve unless c is also zero.
	assert.Nil(t, solveQuadratic(0, 0, 5))
	assert.NotNil(t, solveQuadratic(0, 0, 0))
	assert.False(t, math.IsNaN(solveQuadratic(0, 1e-300, 1)[0]))
}
