package driven

import (
	"context"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// UpstreamCall is one logical unit of upstream work requiring exactly
// one request per attempt. The orchestrator drives it: Prepare runs
// whenever the selected credential changes (providers scope uploaded
// artifacts to the credential that created them), Do issues the request.
//
// Implementations classify failures by wrapping the domain sentinels:
// domain.ErrRateLimited for quota errors, domain.ErrUpstreamUnavailable
// for transient ones. Anything else is treated as permanent.
type UpstreamCall interface {
	Prepare(ctx context.Context, cred domain.Credential) error
	Do(ctx context.Context, cred domain.Credential) (string, error)
}

// Upstream builds calls against the generative-language service.
//
// Implementations may include:
//   - Gemini (google.golang.org/genai)
//   - Any API exposing document upload + generation
type Upstream interface {
	// BatchCall answers every question in one upstream request against
	// the uploaded document. The whole batch is one payload: a quota
	// error mid-batch retries the entire batch, never a split.
	BatchCall(doc *domain.RawDocument, questions []string) UpstreamCall

	// ContextCall answers a single question from retrieved text
	// excerpts. It carries no per-credential state.
	ContextCall(question string, excerpts []string) UpstreamCall

	// DecodeAnswers parses a raw batch response into exactly n answers,
	// padding or truncating a well-formed envelope with the wrong item
	// count. It returns domain.ErrParse when the response cannot be
	// read as the expected envelope at all.
	DecodeAnswers(raw string, n int) ([]string, error)

	// ModelName returns the upstream model identifier.
	ModelName() string
}
