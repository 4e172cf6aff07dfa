// Package fetch downloads remote documents over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

const (
	// DefaultTimeout bounds a single download.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes caps downloaded document size at 50 MB.
	DefaultMaxBytes = 50 << 20

	// DefaultRequestsPerSecond is a conservative sustained rate toward
	// document hosts.
	DefaultRequestsPerSecond = 5.0

	// DefaultBurstSize is the download burst allowance.
	DefaultBurstSize = 5

	defaultMIMEType = "application/octet-stream"
)

// Config holds configuration for the document fetcher.
type Config struct {
	// Timeout bounds a single download (default: 30s).
	Timeout time.Duration
	// MaxBytes caps document size (default: 50 MB).
	MaxBytes int64
	// RequestsPerSecond is the sustained download rate (default: 5).
	RequestsPerSecond float64
	// BurstSize is the token bucket burst size (default: 5).
	BurstSize int
}

// Fetcher downloads documents over HTTP with a token bucket limiter in
// front, so repeated requests for the same host stay polite even when
// many questions arrive at once.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	maxBytes int64
}

// New creates a document fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		maxBytes: cfg.MaxBytes,
	}
}

// Fetch downloads the document at ref.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*domain.RawDocument, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: unsupported document URL %q", domain.ErrDocumentFetch, ref)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d for %s", domain.ErrDocumentFetch, resp.StatusCode, ref)
	}

	// LimitReader reads one extra byte so an at-limit document is
	// distinguishable from an oversized one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrDocumentFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d byte limit", domain.ErrDocumentFetch, f.maxBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty document at %s", domain.ErrDocumentFetch, ref)
	}

	mimeType := detectMIMEType(resp.Header.Get("Content-Type"), u.Path)
	logger.Debug("fetched %s (%d bytes, %s)", ref, len(body), mimeType)

	return &domain.RawDocument{
		URI:      ref,
		MIMEType: mimeType,
		Content:  body,
	}, nil
}

// detectMIMEType prefers the Content-Type header and falls back to the
// URL path extension.
func detectMIMEType(contentType, urlPath string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != defaultMIMEType {
			return mt
		}
	}
	switch strings.ToLower(path.Ext(urlPath)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	}
	return defaultMIMEType
}
