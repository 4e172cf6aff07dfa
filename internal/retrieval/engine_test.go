package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// stubEmbedder returns canned vectors per text.
type stubEmbedder struct {
	vectors map[string][]float32
	dims    int
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	v := make([]float32, s.dims)
	v[0] = 1
	return v, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int    { return s.dims }
func (s *stubEmbedder) Normalized() bool   { return false }
func (s *stubEmbedder) ModelName() string { return "stub" }

func chunksOf(texts ...string) []domain.DocumentChunk {
	chunks := make([]domain.DocumentChunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.DocumentChunk{ID: t, Content: t, Position: i}
	}
	return chunks
}

func TestSearch_BeforeIndex(t *testing.T) {
	e := NewEngine(&stubEmbedder{dims: 3})

	_, err := e.Search(context.Background(), "anything", 5)
	if !errors.Is(err, domain.ErrIndexNotBuilt) {
		t.Fatalf("expected ErrIndexNotBuilt, got %v", err)
	}
}

func TestIndexAndSearch_RankedAndThresholded(t *testing.T) {
	emb := &stubEmbedder{
		dims: 3,
		vectors: map[string][]float32{
			"close":      {1, 0.2, 0},
			"closer":     {1, 0.05, 0},
			"orthogonal": {0, 0, 1},
			"query":      {1, 0, 0},
		},
	}
	e := NewEngine(emb)
	ctx := context.Background()

	if err := e.Index(ctx, chunksOf("close", "closer", "orthogonal")); err != nil {
		t.Fatalf("Index: %v", err)
	}

	results, err := e.Search(ctx, "query", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// "orthogonal" scores 0, below the 0.1 threshold.
	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Chunk.Content != "closer" {
		t.Errorf("expected 'closer' first, got %q", results[0].Chunk.Content)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d: rank %d", i, r.Rank)
		}
		if r.Score < DefaultThreshold {
			t.Errorf("result %d: score %f below threshold", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestSearch_RespectsK(t *testing.T) {
	emb := &stubEmbedder{dims: 3, vectors: map[string][]float32{}}
	e := NewEngine(emb)
	ctx := context.Background()

	if err := e.Index(ctx, chunksOf("a", "b", "c", "d", "e")); err != nil {
		t.Fatalf("Index: %v", err)
	}

	results, err := e.Search(ctx, "q", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(results))
	}
}

func TestIndex_EmbeddingFailurePropagates(t *testing.T) {
	emb := &stubEmbedder{dims: 3, err: errors.New("service down")}
	e := NewEngine(emb)

	err := e.Index(context.Background(), chunksOf("a"))
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
	if e.Stats().Built {
		t.Error("index must not be built after an embedding failure")
	}
}

func TestIndex_RejectsZeroVector(t *testing.T) {
	emb := &stubEmbedder{
		dims:    3,
		vectors: map[string][]float32{"empty": {0, 0, 0}},
	}
	e := NewEngine(emb)

	err := e.Index(context.Background(), chunksOf("empty"))
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed for a zero vector, got %v", err)
	}
}

func TestIndex_ReplacesAtomically(t *testing.T) {
	emb := &stubEmbedder{dims: 3, vectors: map[string][]float32{}}
	e := NewEngine(emb)
	ctx := context.Background()

	if err := e.Index(ctx, chunksOf("one", "two")); err != nil {
		t.Fatalf("first Index: %v", err)
	}
	if err := e.Index(ctx, chunksOf("three")); err != nil {
		t.Fatalf("second Index: %v", err)
	}

	st := e.Stats()
	if st.Chunks != 1 || st.Vectors != 1 {
		t.Errorf("rebuild must replace, not append: %+v", st)
	}
}

func TestStatsAndClear(t *testing.T) {
	emb := &stubEmbedder{dims: 3, vectors: map[string][]float32{}}
	e := NewEngine(emb)
	ctx := context.Background()

	if st := e.Stats(); st.Built {
		t.Error("expected unbuilt stats initially")
	}

	if err := e.Index(ctx, chunksOf("a", "b")); err != nil {
		t.Fatalf("Index: %v", err)
	}
	st := e.Stats()
	if !st.Built || st.Chunks != 2 || st.Dimensions != 3 {
		t.Errorf("unexpected stats %+v", st)
	}

	e.Clear()
	if st := e.Stats(); st.Built {
		t.Error("expected unbuilt stats after Clear")
	}
	if _, err := e.Search(ctx, "q", 1); !errors.Is(err, domain.ErrIndexNotBuilt) {
		t.Errorf("expected ErrIndexNotBuilt after Clear, got %v", err)
	}
}
