package extractors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Registry selects an extractor by MIME type.
type Registry struct {
	mu         sync.RWMutex
	byMIME     map[string]driven.Extractor
	fallback   driven.Extractor
	registered int
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{byMIME: make(map[string]driven.Extractor)}
}

// Register adds an extractor for each MIME type it supports. Later
// registrations win on conflict.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range e.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mt)] = e
	}
	r.registered++
	logger.Debug("registered extractor for %v", e.SupportedMIMETypes())
}

// SetFallback sets the extractor used when no MIME type matches.
func (r *Registry) SetFallback(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = e
}

// ForMIME returns the extractor for the given MIME type. Parameters
// such as charset must already be stripped by the fetcher. Unknown
// text/* subtypes fall through to the fallback extractor.
func (r *Registry) ForMIME(mimeType string) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if e, ok := r.byMIME[mt]; ok {
		return e, nil
	}
	if r.fallback != nil && (strings.HasPrefix(mt, "text/") || mt == "" || mt == "application/octet-stream") {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: no extractor for MIME type %q", domain.ErrExtraction, mimeType)
}
