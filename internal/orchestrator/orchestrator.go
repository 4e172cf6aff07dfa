// Package orchestrator wraps a single logical upstream call with
// rate-limit acquisition, credential selection, retry with backoff,
// and credential rotation on quota errors.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Default retry policy.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
)

// Call is one logical unit of upstream work requiring exactly one
// upstream request per attempt. When the call answers a whole batch of
// questions, the batch is retried as a unit, never split.
type Call interface {
	// Prepare performs per-credential setup, such as re-uploading a
	// document scoped to the credential that created it. The
	// orchestrator invokes it whenever the selected credential differs
	// from the one Prepare last succeeded under.
	Prepare(ctx context.Context, cred domain.Credential) error

	// Do issues the upstream request under cred and returns the raw
	// response text.
	Do(ctx context.Context, cred domain.Credential) (string, error)
}

// Limiter gates outbound calls. Implemented by ratelimit.SlidingWindow.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// CredentialPool selects credentials and tracks quota flags.
// Implemented by rotator.Rotator.
type CredentialPool interface {
	Next() domain.Credential
	MarkLimited(cred domain.Credential)
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithMaxAttempts sets the shared attempt budget per Execute.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the base backoff delay between attempts.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.baseDelay = d
		}
	}
}

// Orchestrator owns the rate limiter and credential pool for its process
// lifetime and coordinates every upstream call through them.
type Orchestrator struct {
	limiter     Limiter
	pool        CredentialPool
	maxAttempts int
	baseDelay   time.Duration
}

// New creates an orchestrator over the given limiter and pool.
func New(limiter Limiter, pool CredentialPool, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		limiter:     limiter,
		pool:        pool,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs one logical upstream call to completion or failure.
//
// Per attempt: acquire a rate-limit slot, select a credential, redo
// per-credential setup if the credential changed, then issue the call.
// Quota errors flag the credential and retry with backoff; transient
// errors retry without rotation; any other error returns immediately.
func (o *Orchestrator) Execute(ctx context.Context, call Call) (string, error) {
	var lastErr error
	preparedFor := -1 // credential index Prepare last succeeded under

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := o.wait(ctx, attempt); err != nil {
				return "", err
			}
		}

		if err := o.limiter.Acquire(ctx); err != nil {
			return "", fmt.Errorf("acquire rate limit: %w", err)
		}

		cred := o.pool.Next()

		if cred.Index != preparedFor {
			if err := call.Prepare(ctx, cred); err != nil {
				preparedFor = -1
				lastErr = err
				if retry := o.classify(err, cred); retry {
					continue
				}
				return "", fmt.Errorf("prepare call: %w", err)
			}
			preparedFor = cred.Index
		}

		result, err := call.Do(ctx, cred)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if retry := o.classify(err, cred); !retry {
			return "", err
		}
	}

	return "", fmt.Errorf("exhausted %d attempts: %w", o.maxAttempts, lastErr)
}

// classify maps an upstream error to a retry decision, flagging the
// credential on quota errors. Only the quota and transient classes are
// retryable; everything else surfaces to the caller.
func (o *Orchestrator) classify(err error, cred domain.Credential) bool {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		o.pool.MarkLimited(cred)
		logger.Warn("quota error on key %s, rotating", cred.Preview())
		return true
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		logger.Warn("transient upstream error: %v", err)
		return true
	default:
		return false
	}
}

// wait sleeps the exponential backoff for the given attempt, honouring
// cancellation.
func (o *Orchestrator) wait(ctx context.Context, attempt int) error {
	delay := calculateBackoff(o.baseDelay, attempt)
	if delay <= 0 {
		return nil
	}
	logger.Info("retrying in %.1fs (attempt %d/%d)", delay.Seconds(), attempt+1, o.maxAttempts)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
