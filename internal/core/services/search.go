package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// DefaultMaxResults is the default content search result limit.
const DefaultMaxResults = 5

// Ensure SearchService implements the interfaces.
var (
	_ driving.SearchService = (*SearchService)(nil)
	_ driving.CourseCatalog = (*SearchService)(nil)
)

// SearchService answers catalog and content queries against the two
// embedding-indexed collections.
type SearchService struct {
	store            driven.CourseStore
	embeddingService driven.EmbeddingService
	maxResults       int
}

// SearchOption configures the search service.
type SearchOption func(*SearchService)

// WithMaxResults sets the default result limit.
func WithMaxResults(n int) SearchOption {
	return func(s *SearchService) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// NewSearchService creates a new search service.
func NewSearchService(
	store driven.CourseStore,
	embeddingService driven.EmbeddingService,
	opts ...SearchOption,
) *SearchService {
	s := &SearchService{
		store:            store,
		embeddingService: embeddingService,
		maxResults:       DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveCourseName maps a fuzzy course reference to its canonical title
// by nearest-neighbour lookup in the catalog. There is deliberately no
// similarity threshold: the single closest entry wins, however distant,
// matching how users refer to courses by fragments ("MCP" for
// "Introduction to MCP"). Ambiguous references resolve silently to the
// closest match.
func (s *SearchService) ResolveCourseName(ctx context.Context, name string) (string, error) {
	if s.store == nil {
		return "", domain.ErrStoreUnavailable
	}
	if s.embeddingService == nil {
		return "", domain.ErrEmbeddingUnavailable
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty course name", domain.ErrInvalidInput)
	}

	embedding, err := s.embeddingService.Embed(ctx, name)
	if err != nil {
		return "", fmt.Errorf("embed course name: %w", err)
	}

	hit, err := s.store.NearestCourse(ctx, embedding)
	if err != nil {
		return "", fmt.Errorf("resolve course %q: %w", name, err)
	}

	logger.Debug("Resolved course %q -> %q (%.3f)", name, hit.Title, hit.Similarity)
	return hit.Title, nil
}

// Search performs filtered semantic search over the content collection.
// A non-empty courseName is resolved first; resolution failure fails the
// whole search rather than silently searching everything.
func (s *SearchService) Search(
	ctx context.Context, query, courseName string, lessonNumber *int, limit int,
) ([]domain.SearchResult, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Content Search")
	logger.Debug("Query: %q course=%q lesson=%v", query, courseName, lessonNumber)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = s.maxResults
	}

	var courseTitle string
	if courseName != "" {
		title, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			return nil, err
		}
		courseTitle = title
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.SearchChunks(ctx, driven.ChunkQuery{
		Embedding:    embedding,
		CourseTitle:  courseTitle,
		LessonNumber: lessonNumber,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	logger.Info("Content search: %d results", len(results))
	return results, nil
}

// Outline returns the full course record matching a fuzzy reference.
func (s *SearchService) Outline(ctx context.Context, courseName string) (*domain.Course, error) {
	title, err := s.ResolveCourseName(ctx, courseName)
	if err != nil {
		return nil, err
	}

	course, err := s.store.GetCourse(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("get course %q: %w", title, err)
	}
	return course, nil
}

// Titles returns every catalog title.
func (s *SearchService) Titles(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.ListCourseTitles(ctx)
}

// CourseLink returns the stored link for a canonical title, if any.
func (s *SearchService) CourseLink(ctx context.Context, title string) string {
	course, err := s.store.GetCourse(ctx, title)
	if err != nil {
		return ""
	}
	return course.Link
}
