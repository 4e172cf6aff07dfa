package orchestrator

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps the exponential growth.
const maxBackoff = 30 * time.Second

// calculateBackoff returns exponential backoff with jitter.
// The base delay is doubled each attempt, with random jitter up to 25%.
func calculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in the bit shift.
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt-1))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	// Jitter: -25% to +25%. Sub-nanosecond jitter ranges round to
	// zero, and rand.Int64N rejects a zero bound.
	if half := int64(backoff) / 2; half > 0 {
		backoff += time.Duration(rand.Int64N(half)) - backoff/4
	}
	return backoff
}
