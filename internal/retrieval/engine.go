package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/logger"
)

// DefaultThreshold is the minimum similarity below which a retrieved
// chunk is considered irrelevant and discarded.
const DefaultThreshold = 0.1

// Engine indexes chunk embeddings and serves nearest-neighbour queries.
// Index replaces the whole index atomically; concurrent Search calls see
// either the old index or the new one, never a mixture, because the
// index is an immutable value swapped under the lock.
type Engine struct {
	mu        sync.RWMutex
	embedder  driven.EmbeddingService
	threshold float64
	idx       *flatIndex // nil until built
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithThreshold sets the minimum similarity score.
func WithThreshold(threshold float64) EngineOption {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// NewEngine creates a retrieval engine over the given embedder.
func NewEngine(embedder driven.EmbeddingService, opts ...EngineOption) *Engine {
	e := &Engine{
		embedder:  embedder,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index builds a fresh index over the chunk embeddings, replacing any
// prior index. Embedding failures propagate; the prior index stays
// intact on failure.
func (e *Engine) Index(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrInvalidInput)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: expected %d vectors, got %d", domain.ErrEmbeddingFailed, len(chunks), len(vectors))
	}

	dims := e.embedder.Dimensions()
	for i, vec := range vectors {
		if len(vec) != dims {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", domain.ErrEmbeddingFailed, i, len(vec), dims)
		}
		if isZero(vec) {
			return fmt.Errorf("%w: zero vector for chunk %d", domain.ErrEmbeddingFailed, i)
		}
		if !e.embedder.Normalized() {
			normalize(vec)
		}
	}

	fresh := &flatIndex{
		vectors: vectors,
		chunks:  append([]domain.DocumentChunk(nil), chunks...),
		dims:    dims,
	}

	e.mu.Lock()
	e.idx = fresh
	e.mu.Unlock()

	logger.Info("built retrieval index: %d chunks, %d dims (%s)", len(chunks), dims, e.embedder.ModelName())
	return nil
}

// Search returns up to k results ordered by descending similarity, all
// scoring at least the configured threshold. Calling Search before
// Index is a programming error, reported as domain.ErrIndexNotBuilt.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	e.mu.RLock()
	idx := e.idx
	e.mu.RUnlock()

	if idx == nil {
		return nil, domain.ErrIndexNotBuilt
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	qvec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(qvec) != idx.dims {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", domain.ErrEmbeddingFailed, len(qvec), idx.dims)
	}
	if !e.embedder.Normalized() {
		normalize(qvec)
	}

	hits := idx.search(qvec, e.threshold)
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Chunk: idx.chunks[h.ordinal],
			Score: h.score,
			Rank:  i + 1,
		}
	}
	return results, nil
}

// Stats reports the current index shape without mutating it.
func (e *Engine) Stats() domain.IndexStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.idx == nil {
		return domain.IndexStats{}
	}
	return domain.IndexStats{
		Built:      true,
		Vectors:    len(e.idx.vectors),
		Dimensions: e.idx.dims,
		Chunks:     len(e.idx.chunks),
	}
}

// Clear drops the current index. The next Search fails with
// domain.ErrIndexNotBuilt until Index runs again.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.idx = nil
	e.mu.Unlock()
	logger.Debug("cleared retrieval index")
}
