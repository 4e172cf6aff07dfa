// Package gemini provides embeddings via the Google GenAI API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// DefaultModel is the default embedding model.
const DefaultModel = "text-embedding-004"

// DefaultDimensions is the output size of text-embedding-004.
const DefaultDimensions = 768

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey authenticates embedding requests. Embeddings use a single
	// key: they are cheap relative to generation and do not share the
	// generation quota pool.
	APIKey string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string
}

// Service generates embeddings using the Gemini embedding API.
type Service struct {
	client *genai.Client
	model  string
}

// New creates a Gemini embedding service.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding API key is empty", domain.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Service{client: client, model: cfg.Model}, nil
}

// Embed generates an embedding for a single text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := s.client.Models.EmbedContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrEmbeddingFailed, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at position %d", domain.ErrEmbeddingFailed, i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *Service) Dimensions() int {
	return DefaultDimensions
}

// Normalized reports that provider vectors are not guaranteed unit
// length; the index normalizes them before insertion.
func (s *Service) Normalized() bool {
	return false
}

// ModelName returns the embedding model identifier.
func (s *Service) ModelName() string {
	return s.model
}
