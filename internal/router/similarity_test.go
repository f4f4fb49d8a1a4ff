package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "project description", b: "project description", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "project", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		// 2 * 19 / (27 + 19)
		{name: "prefix noise", a: "updated project description", b: "project description", want: 38.0 / 46.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarityRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"baseline conditions", "baseline condition survey"},
		{"impact assessment", "environmental impact assessment"},
		{"mitigation", "monitoring"},
	}
	for _, p := range pairs {
		r := similarityRatio(p[0], p[1])
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestSimilarityRatio_Symmetry(t *testing.T) {
	// Ratcliff/Obershelp is not guaranteed symmetric in general, but matched
	// character counts are for these simple cases.
	a, b := "stakeholder engagement", "stakeholder engagement plan"
	assert.InDelta(t, similarityRatio(a, b), similarityRatio(b, a), 1e-9)
}

func TestLongestCommonSubstring(t *testing.T) {
	ai, bi, size := longestCommonSubstring([]byte("xprojecty"), []byte("project"))
	assert.Equal(t, 1, ai)
	assert.Equal(t, 0, bi)
	assert.Equal(t, 7, size)

	_, _, size = longestCommonSubstring([]byte(""), []byte("abc"))
	assert.Equal(t, 0, size)
}
