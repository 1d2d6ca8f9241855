package driving

import (
	"context"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

// SearchService provides filtered semantic search to external actors.
type SearchService interface {
	// Search finds content chunks matching the query. courseName, when
	// non-empty, is resolved against the catalog first and applied as a
	// filter together with lessonNumber (AND semantics). limit <= 0 uses
	// the configured default.
	Search(ctx context.Context, query, courseName string, lessonNumber *int, limit int) ([]domain.SearchResult, error)

	// ResolveCourseName maps a fuzzy course reference to its canonical
	// catalog title. Returns domain.ErrNotFound on an empty catalog.
	ResolveCourseName(ctx context.Context, name string) (string, error)
}
