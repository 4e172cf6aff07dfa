package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/core/ports/driving"
	"github.com/veridian-labs/docqa/internal/logger"
	"github.com/veridian-labs/docqa/internal/orchestrator"
)

// Ensure QueryPipeline implements the interface.
var _ driving.QueryService = (*QueryPipeline)(nil)

// Mode selects how answers are produced. It is fixed at construction;
// a pipeline never switches strategies mid-flight.
type Mode string

const (
	// ModeBatch uploads the whole document and asks every question in
	// one upstream request.
	ModeBatch Mode = "batch"

	// ModeRetrieval chunks and indexes the document locally, then
	// answers each question from its most relevant excerpts.
	ModeRetrieval Mode = "retrieval"
)

const (
	// DefaultTopK is how many excerpts back a retrieval answer.
	DefaultTopK = 5

	// DefaultQuestionWorkers bounds concurrent per-question upstream
	// calls in retrieval mode.
	DefaultQuestionWorkers = 3
)

// Executor runs one upstream call through rate limiting, credential
// rotation and retry.
type Executor interface {
	Execute(ctx context.Context, call orchestrator.Call) (string, error)
}

// RateLimiter reports the state of the request window.
type RateLimiter interface {
	Status() domain.RateLimitStatus
}

// CredentialPool reports the state of the credential rotation.
type CredentialPool interface {
	Status() domain.RotatorStatus
}

// Retriever indexes document chunks and searches them.
type Retriever interface {
	Index(ctx context.Context, chunks []domain.DocumentChunk) error
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
	Stats() domain.IndexStats
	Clear()
}

// Chunker splits extracted text into overlapping chunks.
type Chunker interface {
	Split(text string) []domain.DocumentChunk
}

// ExtractorRegistry selects a text extractor by MIME type.
type ExtractorRegistry interface {
	ForMIME(mimeType string) (driven.Extractor, error)
}

// QueryPipeline answers document questions end to end: fetch the
// document, produce one answer per question in either batch or
// retrieval mode, and report pipeline status.
type QueryPipeline struct {
	mode     Mode
	fetcher  driven.DocumentFetcher
	upstream driven.Upstream
	executor Executor
	limiter  RateLimiter
	pool     CredentialPool

	// Retrieval mode only.
	registry  ExtractorRegistry
	chunker   Chunker
	retriever Retriever

	topK    int
	workers int
}

// Option configures a QueryPipeline.
type Option func(*QueryPipeline)

// WithTopK sets how many excerpts back each retrieval answer.
func WithTopK(k int) Option {
	return func(p *QueryPipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithQuestionWorkers bounds concurrent per-question calls.
func WithQuestionWorkers(n int) Option {
	return func(p *QueryPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithRetrieval equips the pipeline for retrieval mode.
func WithRetrieval(registry ExtractorRegistry, chunker Chunker, retriever Retriever) Option {
	return func(p *QueryPipeline) {
		p.registry = registry
		p.chunker = chunker
		p.retriever = retriever
	}
}

// NewQueryPipeline creates a query pipeline. ModeRetrieval requires
// WithRetrieval.
func NewQueryPipeline(
	mode Mode,
	fetcher driven.DocumentFetcher,
	upstream driven.Upstream,
	executor Executor,
	limiter RateLimiter,
	pool CredentialPool,
	opts ...Option,
) (*QueryPipeline, error) {
	p := &QueryPipeline{
		mode:     mode,
		fetcher:  fetcher,
		upstream: upstream,
		executor: executor,
		limiter:  limiter,
		pool:     pool,
		topK:     DefaultTopK,
		workers:  DefaultQuestionWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}

	if mode != ModeBatch && mode != ModeRetrieval {
		return nil, errors.New("unknown pipeline mode: " + string(mode))
	}
	if mode == ModeRetrieval && (p.registry == nil || p.chunker == nil || p.retriever == nil) {
		return nil, errors.New("retrieval mode requires an extractor registry, chunker and retriever")
	}

	logger.Info("query pipeline ready: mode=%s model=%s", mode, upstream.ModelName())
	return p, nil
}

// Answer produces exactly one answer per question, in question order.
// Failures become human-readable answer strings, never a short list.
func (p *QueryPipeline) Answer(ctx context.Context, documentRef string, questions []string) []domain.Answer {
	if len(questions) == 0 {
		return []domain.Answer{}
	}

	logger.Info("answering %d question(s) against %s (mode=%s)", len(questions), documentRef, p.mode)

	doc, err := p.fetcher.Fetch(ctx, documentRef)
	if err != nil {
		logger.Error("document fetch failed: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}

	switch p.mode {
	case ModeRetrieval:
		return p.answerRetrieval(ctx, doc, questions)
	default:
		return p.answerBatch(ctx, doc, questions)
	}
}

// answerBatch asks every question in one upstream request.
func (p *QueryPipeline) answerBatch(ctx context.Context, doc *domain.RawDocument, questions []string) []domain.Answer {
	raw, err := p.executor.Execute(ctx, p.upstream.BatchCall(doc, questions))
	if err != nil {
		logger.Error("batch call failed: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}

	texts, err := p.upstream.DecodeAnswers(raw, len(questions))
	if err != nil {
		logger.Error("batch response unreadable: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}

	return zipAnswers(questions, texts)
}

// answerRetrieval indexes the document locally and answers each
// question from its most relevant excerpts. Questions run on a bounded
// worker group; results land by index so order is preserved.
func (p *QueryPipeline) answerRetrieval(ctx context.Context, doc *domain.RawDocument, questions []string) []domain.Answer {
	extractor, err := p.registry.ForMIME(doc.MIMEType)
	if err != nil {
		logger.Error("no extractor for document: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}

	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		logger.Error("text extraction failed: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		logger.Warn("document produced no chunks")
		return uniformAnswers(questions, domain.AnswerNotAvailable)
	}

	if err := p.retriever.Index(ctx, chunks); err != nil {
		logger.Error("index build failed: %v", err)
		return uniformAnswers(questions, errorAnswer(err))
	}
	logger.Debug("indexed %d chunks from %s", len(chunks), doc.URI)

	texts := make([]string, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, question := range questions {
		g.Go(func() error {
			texts[i] = p.answerOne(gctx, question)
			return nil
		})
	}
	// Workers report failures as answer text, never as group errors,
	// so one bad question cannot cancel its siblings.
	_ = g.Wait()

	return zipAnswers(questions, texts)
}

// answerOne answers a single question from retrieved excerpts.
func (p *QueryPipeline) answerOne(ctx context.Context, question string) string {
	results, err := p.retriever.Search(ctx, question, p.topK)
	if err != nil {
		logger.Error("search failed for %q: %v", question, err)
		return errorAnswer(err)
	}
	if len(results) == 0 {
		return domain.AnswerNotAvailable
	}

	excerpts := make([]string, len(results))
	for i, r := range results {
		excerpts[i] = r.Chunk.Content
	}

	answer, err := p.executor.Execute(ctx, p.upstream.ContextCall(question, excerpts))
	if err != nil {
		logger.Error("context call failed for %q: %v", question, err)
		return errorAnswer(err)
	}
	return strings.TrimSpace(answer)
}

// Stats returns a side-effect-free snapshot of the pipeline.
func (p *QueryPipeline) Stats() domain.PipelineStats {
	stats := domain.PipelineStats{
		Mode:      string(p.mode),
		Model:     p.upstream.ModelName(),
		RateLimit: p.limiter.Status(),
		Rotator:   p.pool.Status(),
	}
	if p.retriever != nil {
		stats.Index = p.retriever.Stats()
	}
	return stats
}

// ClearSession drops the per-document retrieval index.
func (p *QueryPipeline) ClearSession() {
	if p.retriever != nil {
		p.retriever.Clear()
		logger.Debug("retrieval session cleared")
	}
}

// errorAnswer maps a pipeline failure to user-visible answer text.
func errorAnswer(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return domain.AnswerRateLimited
	case errors.Is(err, domain.ErrDocumentFetch):
		return "Failed to retrieve the document. Please verify the URL and try again."
	case errors.Is(err, domain.ErrExtraction):
		return "Failed to extract text from the document."
	case errors.Is(err, domain.ErrParse):
		return "The language model returned an unreadable response. Please try again."
	default:
		return "Error processing question. Please try again later."
	}
}

func uniformAnswers(questions []string, text string) []domain.Answer {
	out := make([]domain.Answer, len(questions))
	for i, q := range questions {
		out[i] = domain.Answer{Question: q, Answer: text}
	}
	return out
}

func zipAnswers(questions, texts []string) []domain.Answer {
	out := make([]domain.Answer, len(questions))
	for i, q := range questions {
		out[i] = domain.Answer{Question: q, Answer: texts[i]}
	}
	return out
}
