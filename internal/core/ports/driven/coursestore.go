package driven

import (
	"context"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

// CatalogHit is a nearest-neighbour match from the course catalog.
type CatalogHit struct {
	// Title is the canonical course title.
	Title string

	// Similarity is the cosine similarity to the query (0-1).
	Similarity float64
}

// ChunkQuery is a filtered content collection search.
type ChunkQuery struct {
	// Embedding is the query vector.
	Embedding []float32

	// CourseTitle restricts results to one course when non-empty.
	// Callers must pass a canonical title, not a fuzzy reference.
	CourseTitle string

	// LessonNumber restricts results to one lesson when non-nil.
	// Applied as an AND with CourseTitle.
	LessonNumber *int

	// Limit bounds the result count. Must be positive.
	Limit int
}

// CourseStore persists the two embedding-indexed collections:
// the course catalog and the chunked content.
// Backed by SQLite for persistence, with an in-memory variant for tests.
type CourseStore interface {
	// SaveCourse inserts a course with its catalog embedding and all of
	// its content chunks. Returns domain.ErrAlreadyExists without writing
	// anything if the title is already present; the insert is atomic from
	// the caller's point of view (no catalog entry without its chunks).
	SaveCourse(ctx context.Context, course *domain.Course, catalogEmbedding []float32, chunks []domain.Chunk) error

	// GetCourse retrieves a course by its canonical title.
	// Returns domain.ErrNotFound for unknown titles.
	GetCourse(ctx context.Context, title string) (*domain.Course, error)

	// CourseExists reports whether a title is present in the catalog.
	CourseExists(ctx context.Context, title string) (bool, error)

	// ListCourseTitles returns all catalog titles in insertion order.
	ListCourseTitles(ctx context.Context) ([]string, error)

	// NearestCourse returns the single closest catalog entry to the
	// query embedding. Returns domain.ErrNotFound on an empty catalog.
	NearestCourse(ctx context.Context, embedding []float32) (*CatalogHit, error)

	// SearchChunks returns the closest content chunks to the query
	// embedding, after applying the query's filters. Results are ordered
	// by similarity descending, chunk index ascending on ties.
	SearchChunks(ctx context.Context, q ChunkQuery) ([]domain.SearchResult, error)

	// ChunkCount returns the total number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
