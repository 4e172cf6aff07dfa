// Package plaintext extracts text from plain text documents.
package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. It is also the registry
// fallback for unknown text formats.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
		"application/json",
		"application/xml",
	}
}

// Extract returns the cleaned text content of the raw document.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if !utf8.Valid(raw.Content) {
		return "", fmt.Errorf("%w: document is not valid UTF-8 text", domain.ErrExtraction)
	}
	text := extractors.CleanText(string(raw.Content))
	if text == "" {
		return "", fmt.Errorf("%w: document contains no text", domain.ErrExtraction)
	}
	return text, nil
}
