// Package similarity ranks stored vectors against a query for the
// brute-force vector indexes (memory and sqlite).
package similarity

import (
	"cmp"
	"math"
	"slices"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Mismatched lengths and zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank orders matches by descending score, then ascending ID,
// and truncates to topK. A non-positive topK returns nil.
func Rank(matches []domain.Match, topK int) []domain.Match {
	if topK <= 0 {
		return nil
	}
	slices.SortFunc(matches, func(a, b domain.Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
