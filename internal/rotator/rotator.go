// Package rotator cycles among multiple equivalent upstream API keys to
// multiply effective throughput against a per-key quota. Selection
// prefers keys that have cooled down; when none has, the least recently
// used key bounds starvation.
package rotator

import (
	"sync"
	"time"

	"github.com/veridian-labs/docqa/internal/core/domain"
	"github.com/veridian-labs/docqa/internal/logger"
)

// DefaultCooldown spaces uses of a single key. Derived from the
// provider's 10 requests/minute quota: one key every 6 seconds keeps a
// single key inside its share of the window.
const DefaultCooldown = 6 * time.Second

// limitedBackoff is how long a key stays deprioritized after the
// upstream reports a quota error for it.
const limitedBackoff = 60 * time.Second

// Rotator owns the credential pool and its usage metadata. All methods
// are safe for concurrent use; selection and the last-used update happen
// under one critical section so two callers never pick the same idle key.
type Rotator struct {
	mu       sync.Mutex
	creds    []domain.Credential
	lastUsed []time.Time
	limited  []time.Time // zero = never marked
	cooldown time.Duration

	now func() time.Time // overridable in tests
}

// New creates a rotator over the given keys. An empty pool is a
// configuration error and fails fast. A non-positive cooldown falls
// back to DefaultCooldown.
func New(keys []string, cooldown time.Duration) (*Rotator, error) {
	if len(keys) == 0 {
		return nil, domain.ErrNoCredentials
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	creds := make([]domain.Credential, len(keys))
	for i, k := range keys {
		creds[i] = domain.Credential{Index: i, Key: k}
	}

	return &Rotator{
		creds:    creds,
		lastUsed: make([]time.Time, len(keys)),
		limited:  make([]time.Time, len(keys)),
		cooldown: cooldown,
		now:      time.Now,
	}, nil
}

// Next returns the credential with the lowest quota-exhaustion risk and
// records its use. Preference order: a key idle for at least the
// cooldown and not recently quota-flagged, then the least recently used
// key regardless.
func (r *Rotator) Next() domain.Credential {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	for i, cred := range r.creds {
		if !r.cooled(i, now) {
			continue
		}
		r.lastUsed[i] = now
		logger.Debug("using API key %d of %d", i+1, len(r.creds))
		return cred
	}

	// Every key is warm. A merely warm key still beats one the
	// upstream flagged for quota, so take the least recently used
	// among un-flagged keys first; only when every key is flagged does
	// global LRU bound starvation.
	lru := -1
	for i := range r.creds {
		if r.quotaFlagged(i, now) {
			continue
		}
		if lru < 0 || r.lastUsed[i].Before(r.lastUsed[lru]) {
			lru = i
		}
	}
	if lru < 0 {
		lru = 0
		for i := 1; i < len(r.creds); i++ {
			if r.lastUsed[i].Before(r.lastUsed[lru]) {
				lru = i
			}
		}
	}
	r.lastUsed[lru] = now
	logger.Warn("all API keys in cooldown, using least recently used key %d", lru+1)
	return r.creds[lru]
}

// MarkLimited records that the upstream reported a quota error for the
// credential, deprioritizing it for subsequent selections. Only quota
// class errors warrant this; generic failures must not rotate.
func (r *Rotator) MarkLimited(cred domain.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cred.Index < 0 || cred.Index >= len(r.creds) {
		return
	}
	r.limited[cred.Index] = r.now()
	logger.Warn("API key %s marked as rate limited", cred.Preview())
}

// Status reports per-credential usage metadata.
func (r *Rotator) Status() domain.RotatorStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	st := domain.RotatorStatus{
		TotalKeys: len(r.creds),
		Cooldown:  r.cooldown,
		Keys:      make([]domain.CredentialStatus, len(r.creds)),
	}
	for i, cred := range r.creds {
		var age time.Duration
		if !r.lastUsed[i].IsZero() {
			age = now.Sub(r.lastUsed[i])
		}
		st.Keys[i] = domain.CredentialStatus{
			Index:       i,
			LastUsedAge: age,
			RateLimited: !r.cooled(i, now),
			KeyPreview:  cred.Preview(),
		}
	}
	return st
}

// cooled reports whether the key at index i is outside both its usage
// cooldown and any quota-flag backoff. Caller holds r.mu.
func (r *Rotator) cooled(i int, now time.Time) bool {
	if !r.lastUsed[i].IsZero() && now.Sub(r.lastUsed[i]) < r.cooldown {
		return false
	}
	return !r.quotaFlagged(i, now)
}

// quotaFlagged reports whether the key at index i is inside the backoff
// that follows an upstream quota error. Caller holds r.mu.
func (r *Rotator) quotaFlagged(i int, now time.Time) bool {
	return !r.limited[i].IsZero() && now.Sub(r.limited[i]) < limitedBackoff
}
