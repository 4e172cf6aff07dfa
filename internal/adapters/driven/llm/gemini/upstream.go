// Package gemini provides the upstream generative-language adapter
// using the Google GenAI API.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Ensure Upstream implements the interface.
var _ driven.Upstream = (*Upstream)(nil)

// DefaultModel is the default generation model.
const DefaultModel = "gemini-2.5-flash"

// generationTemperature keeps answers grounded in the document.
const generationTemperature = 0.1

// Config holds configuration for the Gemini upstream.
type Config struct {
	// Model is the generation model to use (default: gemini-2.5-flash).
	Model string
}

// Upstream builds Gemini calls. Clients are created lazily per
// credential, because uploaded files are scoped to the API key whose
// client uploaded them.
type Upstream struct {
	model string

	mu      sync.Mutex
	clients map[int]*genai.Client // keyed by credential index
}

// NewUpstream creates a Gemini upstream.
func NewUpstream(cfg Config) *Upstream {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Upstream{
		model:   cfg.Model,
		clients: make(map[int]*genai.Client),
	}
}

// ModelName returns the generation model identifier.
func (u *Upstream) ModelName() string {
	return u.model
}

// client returns the cached genai client for the credential, creating
// it on first use.
func (u *Upstream) client(ctx context.Context, cred domain.Credential) (*genai.Client, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if c, ok := u.clients[cred.Index]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cred.Key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	u.clients[cred.Index] = c
	return c, nil
}

// BatchCall answers every question in one request against the uploaded
// document.
func (u *Upstream) BatchCall(doc *domain.RawDocument, questions []string) driven.UpstreamCall {
	return &batchCall{
		upstream:  u,
		doc:       doc,
		questions: questions,
	}
}

// ContextCall answers a single question from retrieved excerpts.
func (u *Upstream) ContextCall(question string, excerpts []string) driven.UpstreamCall {
	return &contextCall{
		upstream: u,
		prompt:   contextPrompt(question, excerpts),
	}
}

// batchCall uploads the document once per credential and asks all
// questions in a single generation request.
type batchCall struct {
	upstream  *Upstream
	doc       *domain.RawDocument
	questions []string
	uploaded  *genai.File
}

// Prepare uploads the document under the given credential. The provider
// scopes uploaded files to the credential that created them, so the
// orchestrator re-runs this whenever the credential changes.
func (c *batchCall) Prepare(ctx context.Context, cred domain.Credential) error {
	client, err := c.upstream.client(ctx, cred)
	if err != nil {
		return err
	}

	file, err := client.Files.Upload(ctx, bytes.NewReader(c.doc.Content), &genai.UploadFileConfig{
		MIMEType: c.doc.MIMEType,
	})
	if err != nil {
		return classify(err)
	}

	c.uploaded = file
	logger.Info("document uploaded under key %s (%d bytes)", cred.Preview(), len(c.doc.Content))
	return nil
}

// Do issues the batch generation request.
func (c *batchCall) Do(ctx context.Context, cred domain.Credential) (string, error) {
	client, err := c.upstream.client(ctx, cred)
	if err != nil {
		return "", err
	}
	if c.uploaded == nil {
		return "", fmt.Errorf("%w: document not uploaded", domain.ErrInvalidInput)
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromURI(c.uploaded.URI, c.uploaded.MIMEType),
			genai.NewPartFromText(batchPrompt(c.questions)),
		},
	}}

	resp, err := client.Models.GenerateContent(ctx, c.upstream.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](generationTemperature),
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

// contextCall asks one question over inline excerpts. It carries no
// per-credential state, so Prepare is a no-op.
type contextCall struct {
	upstream *Upstream
	prompt   string
}

func (c *contextCall) Prepare(context.Context, domain.Credential) error {
	return nil
}

func (c *contextCall) Do(ctx context.Context, cred domain.Credential) (string, error) {
	client, err := c.upstream.client(ctx, cred)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(c.prompt)},
	}}

	resp, err := client.Models.GenerateContent(ctx, c.upstream.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](generationTemperature),
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}
