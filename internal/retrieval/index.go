package retrieval

import (
	"math"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// flatIndex is an immutable flat (exhaustive) similarity index over
// normalized vectors plus the parallel chunk sequence it indexes. Both
// are replaced together on rebuild; no partial state is ever visible.
// At the chunk counts this system handles (single documents, hundreds
// of chunks) exhaustive search gives exact results with zero tuning.
type flatIndex struct {
	vectors [][]float32
	chunks  []domain.DocumentChunk
	dims    int
}

// hit is an internal scored match.
type hit struct {
	ordinal int
	score   float64
}

// search returns every vector scoring at least threshold against the
// normalized query. Inner product on unit vectors, so this is cosine
// similarity.
func (ix *flatIndex) search(query []float32, threshold float64) []hit {
	hits := make([]hit, 0, len(ix.vectors))
	for i, vec := range ix.vectors {
		score := dot(query, vec)
		if score >= threshold {
			hits = append(hits, hit{ordinal: i, score: score})
		}
	}
	return hits
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize scales v to unit length in place. A zero vector is left
// untouched; callers reject those upstream.
func normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return
	}
	inv := 1 / math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

// isZero reports whether every component of v is zero.
func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
