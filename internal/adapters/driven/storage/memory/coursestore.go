// Package memory provides an in-memory CourseStore for tests and
// ephemeral runs.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
)

// Ensure CourseStore implements the interface.
var _ driven.CourseStore = (*CourseStore)(nil)

// CourseStore is an in-memory implementation of driven.CourseStore.
// Reads dominate; ingestion takes the write lock so a course and its
// chunks appear atomically.
type CourseStore struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
	catalog map[string][]float32
	order   []string
	chunks  []domain.Chunk
}

// NewCourseStore creates a new in-memory course store.
func NewCourseStore() *CourseStore {
	return &CourseStore{
		courses: make(map[string]domain.Course),
		catalog: make(map[string][]float32),
	}
}

// SaveCourse inserts a course with its catalog embedding and chunks.
func (s *CourseStore) SaveCourse(
	_ context.Context, course *domain.Course, catalogEmbedding []float32, chunks []domain.Chunk,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.courses[course.Title]; exists {
		return domain.ErrAlreadyExists
	}

	s.courses[course.Title] = *course
	s.catalog[course.Title] = catalogEmbedding
	s.order = append(s.order, course.Title)
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// GetCourse retrieves a course by its canonical title.
func (s *CourseStore) GetCourse(_ context.Context, title string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &course, nil
}

// CourseExists reports whether a title is present in the catalog.
func (s *CourseStore) CourseExists(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.courses[title]
	return ok, nil
}

// ListCourseTitles returns catalog titles in insertion order.
func (s *CourseStore) ListCourseTitles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	titles := make([]string, len(s.order))
	copy(titles, s.order)
	return titles, nil
}

// NearestCourse returns the single closest catalog entry.
func (s *CourseStore) NearestCourse(_ context.Context, embedding []float32) (*driven.CatalogHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, domain.ErrNotFound
	}

	best := driven.CatalogHit{Similarity: math.Inf(-1)}
	for _, title := range s.order {
		sim := cosineSimilarity(embedding, s.catalog[title])
		if sim > best.Similarity {
			best = driven.CatalogHit{Title: title, Similarity: sim}
		}
	}
	return &best, nil
}

// SearchChunks returns the closest content chunks after filtering.
func (s *CourseStore) SearchChunks(_ context.Context, q driven.ChunkQuery) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.SearchResult
	for i := range s.chunks {
		chunk := &s.chunks[i]
		if q.CourseTitle != "" && chunk.CourseTitle != q.CourseTitle {
			continue
		}
		if q.LessonNumber != nil {
			if chunk.LessonNumber == nil || *chunk.LessonNumber != *q.LessonNumber {
				continue
			}
		}
		results = append(results, domain.SearchResult{
			Content:      chunk.Content,
			CourseTitle:  chunk.CourseTitle,
			LessonNumber: chunk.LessonNumber,
			Index:        chunk.Index,
			Score:        cosineSimilarity(q.Embedding, chunk.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Index < results[j].Index
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// ChunkCount returns the total number of stored chunks.
func (s *CourseStore) ChunkCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close releases resources.
func (s *CourseStore) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
