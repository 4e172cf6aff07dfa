// Package ratelimit provides a sliding-window rate limiter for outbound
// upstream calls. At most maxRequests calls are admitted per trailing
// window; excess callers are suspended until a slot frees up.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/logger"
)

// Default configuration, matching the upstream provider's published quota.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = 60 * time.Second
)

// epsilon is a small buffer added to computed waits to avoid boundary
// races where a timestamp ages out exactly at the wakeup instant.
const epsilon = 100 * time.Millisecond

// maxWaitRounds bounds the acquire loop so pathological clock behaviour
// cannot spin it forever.
const maxWaitRounds = 1000

// SlidingWindow admits at most maxRequests calls per trailing window.
// The window is an ordered sequence of call timestamps; entries older
// than the window are purged lazily before each capacity check.
type SlidingWindow struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	calls       []time.Time // arrival order, oldest first

	now func() time.Time // overridable in tests
}

// New creates a sliding-window limiter. Non-positive arguments fall back
// to the defaults.
func New(maxRequests int, window time.Duration) *SlidingWindow {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		maxRequests: maxRequests,
		window:      window,
		calls:       make([]time.Time, 0, maxRequests),
		now:         time.Now,
	}
}

// Acquire suspends the caller until one upstream call is permitted, then
// records it. It never fails on quota pressure, only delays; the only
// error returns are context cancellation and the wait-round guard.
// Cancellation during the suspension never records a phantom call.
func (s *SlidingWindow) Acquire(ctx context.Context) error {
	for round := 0; round < maxWaitRounds; round++ {
		s.mu.Lock()
		now := s.now()
		s.purge(now)

		if len(s.calls) < s.maxRequests {
			s.calls = append(s.calls, now)
			s.mu.Unlock()
			return nil
		}

		// Window is full. Wait until the oldest entry ages out, then
		// re-evaluate: other callers may have taken the freed slot.
		wait := s.window - now.Sub(s.calls[0]) + epsilon
		s.mu.Unlock()

		if wait < epsilon {
			wait = epsilon
		}
		logger.Info("rate limit reached, waiting %.1fs", wait.Seconds())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("rate limiter made no progress after %d waits", maxWaitRounds)
}

// Status returns a snapshot derived from the current window content
// without mutating it.
func (s *SlidingWindow) Status() domain.RateLimitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	active := 0
	var oldest time.Time
	for _, ts := range s.calls {
		if now.Sub(ts) <= s.window {
			if active == 0 {
				oldest = ts
			}
			active++
		}
	}

	st := domain.RateLimitStatus{
		RequestsInWindow: active,
		MaxRequests:      s.maxRequests,
		WindowSeconds:    s.window.Seconds(),
		Remaining:        s.maxRequests - active,
	}
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	if active > 0 {
		if resets := s.window - now.Sub(oldest); resets > 0 {
			st.ResetsIn = resets
		}
	}
	return st
}

// purge drops entries older than the window. Entries are in arrival
// order, so a prefix cut suffices. Caller holds s.mu.
func (s *SlidingWindow) purge(now time.Time) {
	cut := 0
	for cut < len(s.calls) && now.Sub(s.calls[cut]) > s.window {
		cut++
	}
	if cut > 0 {
		s.calls = append(s.calls[:0], s.calls[cut:]...)
	}
}
