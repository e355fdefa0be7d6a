package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRank(t *testing.T) {
	matches := []domain.Match{
		{ID: "c", Score: 0.5},
		{ID: "b", Score: 0.9},
		{ID: "a", Score: 0.5},
		{ID: "d", Score: 0.1},
	}

	got := Rank(matches, 3)

	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestRank_TopKLargerThanInput(t *testing.T) {
	got := Rank([]domain.Match{{ID: "x", Score: 1}}, 10)
	assert.Len(t, got, 1)
}

func TestRank_NonPositiveTopK(t *testing.T) {
	assert.Nil(t, Rank([]domain.Match{{ID: "x"}}, 0))
	assert.Nil(t, Rank(nil, -1))
}
