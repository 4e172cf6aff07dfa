package driving

import (
	"context"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// QueryService answers questions against a referenced document.
type QueryService interface {
	// Answer produces exactly one answer per question, in question
	// order, even under total failure: failures become human-readable
	// answer strings, never a shorter list. An empty questions slice
	// yields an empty result, not an error.
	Answer(ctx context.Context, documentRef string, questions []string) []domain.Answer

	// Stats returns a side-effect-free snapshot of the rate limiter,
	// credential pool, and retrieval index. Safe to poll frequently.
	Stats() domain.PipelineStats

	// ClearSession drops the per-document retrieval index.
	ClearSession()
}
