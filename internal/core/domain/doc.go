// Package domain defines the core business entities for Coursechat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Course / Lesson: Catalog metadata parsed from a source document
//   - Chunk: A retrievable unit of lesson text
//   - SearchResult: An ephemeral content search hit
//   - SourceRef: A provenance entry backing an answer
//   - Settings: Fixed tuning constants for the pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
