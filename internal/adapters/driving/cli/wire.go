package cli

import (
	"context"
	"fmt"
	"time"

	embedgemini "github.com/veridian-labs/docqa/internal/adapters/driven/embedding/gemini"
	"github.com/veridian-labs/docqa/internal/adapters/driven/embedding/hash"
	"github.com/veridian-labs/docqa/internal/adapters/driven/fetch"
	"github.com/veridian-labs/docqa/internal/adapters/driven/llm/gemini"
	"github.com/veridian-labs/docqa/internal/config"
	"github.com/veridian-labs/docqa/internal/core/ports/driven"
	"github.com/veridian-labs/docqa/internal/core/services"
	"github.com/veridian-labs/docqa/internal/extractors"
	exthtml "github.com/veridian-labs/docqa/internal/extractors/html"
	"github.com/veridian-labs/docqa/internal/extractors/pdf"
	"github.com/veridian-labs/docqa/internal/extractors/plaintext"
	"github.com/veridian-labs/docqa/internal/logger"
	"github.com/veridian-labs/docqa/internal/orchestrator"
	"github.com/veridian-labs/docqa/internal/ratelimit"
	"github.com/veridian-labs/docqa/internal/retrieval"
	"github.com/veridian-labs/docqa/internal/rotator"
)

// buildPipeline assembles the query pipeline from configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*services.QueryPipeline, error) {
	limiter := ratelimit.New(cfg.MaxRequests, cfg.Window())

	cooldown := deriveCooldown(cfg)
	pool, err := rotator.New(cfg.APIKeys, cooldown)
	if err != nil {
		return nil, err
	}
	logger.Info("credential pool: %d key(s), cooldown %s", len(cfg.APIKeys), cooldown)

	orch := orchestrator.New(limiter, pool)
	upstream := gemini.NewUpstream(gemini.Config{Model: cfg.Model})
	fetcher := fetch.New(fetch.Config{Timeout: 30 * time.Second})

	opts := []services.Option{}
	if cfg.Mode == string(services.ModeRetrieval) {
		embedder, err := buildEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("embedding strategy: %s", embedder.ModelName())

		registry := extractors.NewRegistry()
		plain := plaintext.New()
		registry.Register(plain)
		registry.Register(exthtml.New())
		registry.Register(pdf.New())
		registry.SetFallback(plain)

		opts = append(opts, services.WithRetrieval(
			registry,
			retrieval.NewChunker(),
			retrieval.NewEngine(embedder),
		))
	}

	return services.NewQueryPipeline(
		services.Mode(cfg.Mode),
		fetcher,
		upstream,
		orch,
		limiter,
		pool,
		opts...,
	)
}

// buildEmbedder selects the embedding strategy fixed for the lifetime
// of the pipeline.
func buildEmbedder(ctx context.Context, cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.EmbeddingSource {
	case "gemini":
		return embedgemini.New(ctx, embedgemini.Config{
			APIKey: cfg.APIKeys[0],
			Model:  cfg.EmbeddingModel,
		})
	case "hash":
		return hash.New(), nil
	default:
		return nil, fmt.Errorf("unknown embedding source %q", cfg.EmbeddingSource)
	}
}

// deriveCooldown is the window divided by its request budget: the
// pace at which one key could serve the whole window alone. Reusing a
// key sooner than this concentrates quota pressure on it.
func deriveCooldown(cfg *config.Config) time.Duration {
	cooldown := cfg.Window() / time.Duration(cfg.MaxRequests)
	if cooldown < time.Second {
		cooldown = time.Second
	}
	return cooldown
}
