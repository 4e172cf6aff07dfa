package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

func TestExtract_Simple(t *testing.T) {
	e := New()
	raw := &domain.RawDocument{
		URI:      "https://example.com/notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("The policy covers flood damage.\nThe deductible is $500."),
	}

	text, err := e.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "The policy covers flood damage.\nThe deductible is $500.", text)
}

func TestExtract_CleansWhitespace(t *testing.T) {
	e := New()
	raw := &domain.RawDocument{
		MIMEType: "text/plain",
		Content:  []byte("  spaced   out  \r\n\r\n\r\n\r\ntext  "),
	}

	text, err := e.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "spaced out\n\ntext", text)
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	e := New()
	raw := &domain.RawDocument{
		MIMEType: "text/plain",
		Content:  []byte{0xff, 0xfe, 0x00, 0x01},
	}

	_, err := e.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := New()
	raw := &domain.RawDocument{
		MIMEType: "text/plain",
		Content:  []byte("   \n\n  "),
	}

	_, err := e.Extract(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Contains(t, e.SupportedMIMETypes(), "text/plain")
	assert.Contains(t, e.SupportedMIMETypes(), "text/markdown")
}
