// Package config loads service configuration from a TOML file with
// environment variable overrides. A .env file in the working directory
// is loaded first, so local development keys never need exporting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultListenAddr      = ":8000"
	DefaultMode            = "batch"
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxRequests     = 10
	DefaultWindowSeconds   = 60
	DefaultMaxQuestions    = 20
	DefaultRequestTimeout  = 5 * time.Minute
	DefaultEmbeddingModel  = "text-embedding-004"
	DefaultEmbeddingSource = "hash"
)

// Config holds the full service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `toml:"listen_addr"`

	// AuthToken guards the API when set. Empty disables auth.
	AuthToken string `toml:"auth_token"`

	// Mode selects the answering strategy: "batch" or "retrieval".
	Mode string `toml:"mode"`

	// Model is the upstream generation model.
	Model string `toml:"model"`

	// APIKeys is the upstream credential pool. Usually supplied via
	// environment, not the file.
	APIKeys []string `toml:"api_keys"`

	// MaxRequests and WindowSeconds shape the sliding request window.
	MaxRequests   int `toml:"max_requests"`
	WindowSeconds int `toml:"window_seconds"`

	// MaxQuestions caps questions per API request.
	MaxQuestions int `toml:"max_questions"`

	// RequestTimeout bounds one whole answering request.
	RequestTimeout time.Duration `toml:"request_timeout"`

	// EmbeddingSource selects the embedder for retrieval mode:
	// "gemini" or "hash".
	EmbeddingSource string `toml:"embedding_source"`

	// EmbeddingModel is the provider embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

// Load reads configuration in precedence order: defaults, then the
// TOML file at path (optional, "" skips), then environment variables.
// It fails when no API keys are configured, because every mode needs
// at least one upstream credential.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside development.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env")
	}

	cfg := &Config{
		ListenAddr:      DefaultListenAddr,
		Mode:            DefaultMode,
		Model:           DefaultModel,
		MaxRequests:     DefaultMaxRequests,
		WindowSeconds:   DefaultWindowSeconds,
		MaxQuestions:    DefaultMaxQuestions,
		RequestTimeout:  DefaultRequestTimeout,
		EmbeddingSource: DefaultEmbeddingSource,
		EmbeddingModel:  DefaultEmbeddingModel,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		logger.Debug("loaded config from %s", path)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCQA_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DOCQA_AUTH_TOKEN"); v != "" {
		c.AuthToken = v
	}
	if v := os.Getenv("DOCQA_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("DOCQA_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_SOURCE"); v != "" {
		c.EmbeddingSource = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_MODEL"); v != "" {
		c.EmbeddingModel = v
	}
	if v := os.Getenv("DOCQA_MAX_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxRequests = n
		}
	}
	if v := os.Getenv("DOCQA_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WindowSeconds = n
		}
	}
	if v := os.Getenv("DOCQA_MAX_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxQuestions = n
		}
	}
	if v := os.Getenv("DOCQA_VERBOSE"); v != "" {
		c.Verbose = v == "1" || strings.EqualFold(v, "true")
	}

	if keys := envKeys(); len(keys) > 0 {
		c.APIKeys = keys
	}
}

// envKeys collects the credential pool from the environment.
// DOCQA_API_KEYS takes a comma-separated list; otherwise the
// GOOGLE_API_KEY / GOOGLE_API_KEY_2 pair is used.
func envKeys() []string {
	if v := os.Getenv("DOCQA_API_KEYS"); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		return keys
	}

	var keys []string
	for _, name := range []string{"GOOGLE_API_KEY", "GOOGLE_API_KEY_2"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			keys = append(keys, v)
		}
	}
	return keys
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	if len(c.APIKeys) == 0 {
		return fmt.Errorf("%w: no API keys configured, set DOCQA_API_KEYS or GOOGLE_API_KEY", domain.ErrNoCredentials)
	}
	if c.Mode != "batch" && c.Mode != "retrieval" {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, c.Mode)
	}
	if c.EmbeddingSource != "hash" && c.EmbeddingSource != "gemini" {
		return fmt.Errorf("%w: unknown embedding source %q", domain.ErrInvalidInput, c.EmbeddingSource)
	}
	if c.MaxRequests <= 0 || c.WindowSeconds <= 0 {
		return fmt.Errorf("%w: rate limit window must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// Window returns the rate limit window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}
