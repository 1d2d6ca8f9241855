// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CourseStore: catalog and content persistence with vector search
//   - EmbeddingService: generates vector embeddings for both collections
//
// # Optional Interfaces
//
//   - CompletionService: the tool-calling language model. Without it,
//     ingestion and direct search still work but the assistant is disabled.
//   - ConfigStore: application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
