// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Upstream: builds calls against the generative-language service
//   - EmbeddingService: generates vector embeddings
//   - DocumentFetcher: downloads a document reference
//   - Extractor: extracts plain text from raw document bytes
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
