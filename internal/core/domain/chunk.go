package domain

// Chunk represents a retrievable unit of lesson text.
// Chunks are produced in bulk at ingestion time and are immutable.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// CourseTitle links the chunk to its owning course by value.
	CourseTitle string

	// LessonNumber is the owning lesson, nil for course-level text.
	LessonNumber *int

	// Content is the chunk text, prefixed with course/lesson context
	// so it remains self-describing when retrieved on its own.
	Content string

	// Index is the ordinal position within the source document.
	// Strictly increasing, scoped per document.
	Index int

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// SearchResult represents a single content search hit.
// Results are ephemeral and never persisted.
type SearchResult struct {
	// Content is the matched chunk text.
	Content string

	// CourseTitle is the owning course.
	CourseTitle string

	// LessonNumber is the owning lesson, if any.
	LessonNumber *int

	// Index is the chunk's ordinal within its source document.
	// Used as a deterministic tie-break when scores are equal.
	Index int

	// Score is the cosine similarity to the query (0-1).
	Score float64
}

// SourceRef is a provenance entry backing part of an answer.
type SourceRef struct {
	// Label is the display text, e.g. "Introduction to MCP - Lesson 3".
	Label string

	// Link is the lesson or course URL, empty when the source document
	// carried none.
	Link string
}
