package domain

import "time"

// Credential is one upstream API key from the configured pool.
// The secret is immutable; usage metadata lives in the rotator.
type Credential struct {
	// Index identifies the credential within the pool (0-based).
	Index int

	// Key is the opaque API secret.
	Key string
}

// Preview returns a truncated form of the key safe for logging.
func (c Credential) Preview() string {
	if len(c.Key) <= 10 {
		return c.Key
	}
	return c.Key[:10] + "..."
}

// CredentialStatus reports per-credential usage metadata.
type CredentialStatus struct {
	Index       int           `json:"index"`
	LastUsedAge time.Duration `json:"last_used_age"`
	RateLimited bool          `json:"rate_limited"`
	KeyPreview  string        `json:"key_preview"`
}

// RotatorStatus is a point-in-time snapshot of the credential pool.
type RotatorStatus struct {
	TotalKeys int                `json:"total_keys"`
	Cooldown  time.Duration      `json:"cooldown"`
	Keys      []CredentialStatus `json:"keys"`
}

// RateLimitStatus is a point-in-time snapshot of the sliding window.
type RateLimitStatus struct {
	RequestsInWindow int           `json:"requests_in_window"`
	MaxRequests      int           `json:"max_requests"`
	WindowSeconds    float64       `json:"window_seconds"`
	Remaining        int           `json:"remaining_requests"`
	ResetsIn         time.Duration `json:"window_resets_in"`
}
