package domain

// PipelineStats aggregates the observability snapshots of the core.
// Plain data, no side effects, safe to poll frequently.
type PipelineStats struct {
	Mode      string          `json:"processing_mode"`
	Model     string          `json:"model"`
	RateLimit RateLimitStatus `json:"rate_limit_status"`
	Rotator   RotatorStatus   `json:"key_rotation_status"`
	Index     IndexStats      `json:"index_stats"`
}
