// Package pdf extracts text from PDF documents using the pdftotext
// tool from poppler-utils.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes external commands. It exists so tests can
// substitute a double for pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents by shelling out to pdftotext.
type Extractor struct {
	runner CommandRunner
}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(r CommandRunner) *Extractor {
	return &Extractor{runner: r}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Extract writes the PDF to a temp file and converts it with
// pdftotext -layout.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	tmp, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: temp file: %v", domain.ErrExtraction, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing temp file: %v", domain.ErrExtraction, err)
	}
	tmp.Close()

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", domain.ErrExtraction, ErrPDFToolNotFound)
		}
		return "", fmt.Errorf("%w: pdftotext: %v", domain.ErrExtraction, err)
	}

	text := extractors.CleanText(string(out))
	if text == "" {
		return "", fmt.Errorf("%w: PDF contains no extractable text", domain.ErrExtraction)
	}
	return text, nil
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction in retrieval mode.

Install it with:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}
