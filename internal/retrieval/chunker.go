// Package retrieval chunks document text, embeds chunks and queries
// into fixed-length vectors, and serves ranked, thresholded context for
// a query over a flat in-memory index.
package retrieval

import (
	"strings"

	"github.com/google/uuid"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// Default chunking parameters.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// boundaryWindow is how far back from a window cut the chunker looks
// for a sentence-ending punctuation mark.
const boundaryWindow = 100

// Chunker splits text into overlapping windows, preferring to break at
// sentence boundaries. Chunking is deterministic: the same text and
// parameters always yield the same boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room to advance.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Split cuts text into overlapping chunks. Chunk starts strictly
// increase, so progress is guaranteed even on degenerate input.
func (c *Chunker) Split(text string) []domain.DocumentChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	textLen := len(text)
	estimated := textLen/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.DocumentChunk, 0, estimated)

	start := 0
	for start < textLen {
		end := start + c.chunkSize
		last := end >= textLen
		if last {
			end = textLen
		} else {
			end = c.sentenceCut(text, start, end)
		}

		if content := strings.TrimSpace(text[start:end]); content != "" {
			chunks = append(chunks, domain.DocumentChunk{
				ID:       uuid.New().String(),
				Content:  content,
				Start:    start,
				End:      end,
				Position: len(chunks),
				Metadata: map[string]any{
					"chunk_size": len(content),
				},
			})
		}
		if last {
			break
		}

		// Advance with overlap, but always by at least one character.
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// sentenceCut moves a window cut backwards onto the nearest
// sentence-ending punctuation within boundaryWindow characters, when
// one exists after start. Otherwise the hard cut stands.
func (c *Chunker) sentenceCut(text string, start, end int) int {
	lo := end - boundaryWindow
	if lo <= start {
		lo = start + 1
	}
	for i := end - 1; i >= lo; i-- {
		switch text[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}
