package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Also returned when a fuzzy course name resolves to nothing.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Ingestion uses this as the duplicate-course signal; it is
	// reported, never raised past the ingestion boundary.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as bad tool arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCompletionFailed indicates the completion service call failed
	// (network, auth, quota). This is the one condition the assistant
	// surfaces to its caller rather than narrating away.
	ErrCompletionFailed = errors.New("completion service failed")

	// ErrCompletionUnavailable indicates no completion service is configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Both catalog resolution and content search need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the course store is not configured.
	ErrStoreUnavailable = errors.New("course store unavailable")

	// ErrNoToolRegistry indicates the model requested a tool call but no
	// registry was configured for the loop.
	ErrNoToolRegistry = errors.New("tool registry unavailable")
)
