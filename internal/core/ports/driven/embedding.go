package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The strategy is chosen once at construction time and logged: either
// the full provider-backed embedder or the deterministic hash fallback.
// Callers must never substitute a zero vector on failure; a zero vector
// corrupts similarity rankings silently.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - Deterministic hash embedding (offline fallback)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// Fixed at construction; the vector index inherits it at build time.
	Dimensions() int

	// Normalized reports whether produced vectors are already unit
	// length. When false, the index normalizes before insertion so
	// inner-product search equals cosine similarity.
	Normalized() bool

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
