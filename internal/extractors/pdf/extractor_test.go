package pdf

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestExtract_Success(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("Section 1.\fSection 2.")})

	text, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Section 1.\nSection 2.", text)
}

func TestExtract_CleansConverterArtifacts(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("claim(cid:12) amount   due")})

	text, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "claim amount due", text)
}

func TestExtract_ToolNotFound(t *testing.T) {
	e := NewWithRunner(&mockRunner{err: exec.ErrNotFound})

	_, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	require.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtract_ToolFailure(t *testing.T) {
	e := NewWithRunner(&mockRunner{err: errors.New("exit status 1")})

	_, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "application/pdf",
		Content:  []byte("not a pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_EmptyOutput(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("  \n ")})

	_, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"application/pdf"}, e.SupportedMIMETypes())
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
