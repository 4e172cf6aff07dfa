// Package hash provides a deterministic offline embedding fallback.
//
// Vectors are built by hashing word tokens into buckets, so semantic
// quality is nowhere near a learned model, but identical text always
// produces identical vectors and no network access is needed. It keeps
// retrieval mode usable when no embedding provider is configured.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/veridian-labs/docqa/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// DefaultDimensions is the vector size of the hash embedder.
const DefaultDimensions = 384

// Service maps text onto fixed-size vectors by hashing words.
type Service struct {
	dims int
}

// New creates a hash embedding service.
func New() *Service {
	return &Service{dims: DefaultDimensions}
}

// Embed builds a unit-length vector from the word tokens of text.
// An empty or non-word input yields the zero vector, which the index
// rejects; that surfaces empty chunks instead of hiding them.
func (s *Service) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dims)
	for _, word := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%s.dims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *Service) Dimensions() int {
	return s.dims
}

// Normalized reports that vectors are already unit length.
func (s *Service) Normalized() bool {
	return true
}

// ModelName returns a stable identifier for the hash strategy.
func (s *Service) ModelName() string {
	return "hash-fnv1a-384"
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
