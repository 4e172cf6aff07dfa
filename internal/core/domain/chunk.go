package domain

// DocumentChunk represents a bounded, overlapping slice of a document's
// text used as a unit of retrieval context. Chunks are immutable after
// creation and owned by the retrieval index for the current session.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Start is the byte offset of the chunk in the source text.
	Start int

	// End is the byte offset one past the chunk in the source text.
	End int

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// SearchResult represents a single retrieval hit. Produced fresh per
// query and never persisted.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk DocumentChunk

	// Score is the similarity score (inner product on normalized
	// vectors, so equivalent to cosine similarity).
	Score float64

	// Rank is the 1-based position in the result list.
	Rank int
}

// IndexStats is a point-in-time snapshot of the vector index.
type IndexStats struct {
	Built      bool `json:"index_built"`
	Vectors    int  `json:"total_vectors"`
	Dimensions int  `json:"dimensions"`
	Chunks     int  `json:"total_chunks"`
}
