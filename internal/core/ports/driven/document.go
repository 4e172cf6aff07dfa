package driven

import (
	"context"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// DocumentFetcher downloads a document reference into raw bytes.
type DocumentFetcher interface {
	// Fetch retrieves the document at ref. Failures wrap
	// domain.ErrDocumentFetch.
	Fetch(ctx context.Context, ref string) (*domain.RawDocument, error)
}

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	// Extract returns the text content of the raw document.
	// Failures wrap domain.ErrExtraction.
	Extract(ctx context.Context, raw *domain.RawDocument) (string, error)

	// SupportedMIMETypes lists the MIME types this extractor handles.
	SupportedMIMETypes() []string
}
