package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

type stubExtractor struct {
	mimeTypes []string
	text      string
}

func (s *stubExtractor) Extract(context.Context, *domain.RawDocument) (string, error) {
	return s.text, nil
}

func (s *stubExtractor) SupportedMIMETypes() []string {
	return s.mimeTypes
}

func TestRegistry_ForMIME(t *testing.T) {
	r := NewRegistry()
	htmlExt := &stubExtractor{mimeTypes: []string{"text/html"}, text: "html"}
	pdfExt := &stubExtractor{mimeTypes: []string{"application/pdf"}, text: "pdf"}
	r.Register(htmlExt)
	r.Register(pdfExt)

	got, err := r.ForMIME("text/html")
	require.NoError(t, err)
	assert.Same(t, htmlExt, got)

	got, err = r.ForMIME("application/pdf")
	require.NoError(t, err)
	assert.Same(t, pdfExt, got)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	ext := &stubExtractor{mimeTypes: []string{"text/html"}}
	r.Register(ext)

	got, err := r.ForMIME("Text/HTML")
	require.NoError(t, err)
	assert.Same(t, ext, got)
}

func TestRegistry_FallbackForUnknownText(t *testing.T) {
	r := NewRegistry()
	plain := &stubExtractor{mimeTypes: []string{"text/plain"}}
	r.Register(plain)
	r.SetFallback(plain)

	for _, mt := range []string{"text/x-custom", "", "application/octet-stream"} {
		got, err := r.ForMIME(mt)
		require.NoError(t, err, "mime %q", mt)
		assert.Same(t, plain, got)
	}
}

func TestRegistry_UnknownBinaryMIME(t *testing.T) {
	r := NewRegistry()
	r.SetFallback(&stubExtractor{mimeTypes: []string{"text/plain"}})

	_, err := r.ForMIME("image/png")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistry()

	_, err := r.ForMIME("text/plain")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := &stubExtractor{mimeTypes: []string{"text/html"}}
	second := &stubExtractor{mimeTypes: []string{"text/html"}}
	r.Register(first)
	r.Register(second)

	got, err := r.ForMIME("text/html")
	require.NoError(t, err)
	assert.Same(t, second, got)
}
