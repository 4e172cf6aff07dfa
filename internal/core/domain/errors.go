package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCredentials indicates no upstream API keys were configured.
	// This is a configuration error and aborts startup.
	ErrNoCredentials = errors.New("no API credentials configured")

	// ErrRateLimited indicates the upstream quota was exceeded.
	// The orchestrator rotates credentials and retries on this class.
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstreamUnavailable indicates a transient upstream failure
	// (timeout, 5xx). Retried without credential rotation.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrParse indicates the upstream response could not be read as the
	// expected envelope at all.
	ErrParse = errors.New("unparseable upstream response")

	// ErrIndexNotBuilt indicates Search was called before Index.
	// This is a programming error, not an empty result.
	ErrIndexNotBuilt = errors.New("vector index not built")

	// ErrEmbeddingFailed indicates embedding generation failed.
	// Callers must propagate this rather than substitute a zero vector.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrDocumentFetch indicates the document could not be downloaded.
	// Fails the whole document; every question gets one shared error answer.
	ErrDocumentFetch = errors.New("document fetch failed")

	// ErrExtraction indicates text extraction from the raw document failed.
	ErrExtraction = errors.New("text extraction failed")
)
