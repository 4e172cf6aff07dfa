// Package extractors provides implementations of the Extractor
// interface for various document formats. Each extractor knows how to
// pull plain text out of a specific MIME type.
//
// Extractors are registered with the Registry at startup; lookup is by
// the fetched document's MIME type with plain text as the fallback.
package extractors
