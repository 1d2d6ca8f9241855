package driving

import (
	"context"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

// IngestService adds parsed course documents to the index.
type IngestService interface {
	// IngestDocument chunks, embeds and stores one parsed document.
	// Returns false with a nil error when the course title is already
	// present - a duplicate is a signal, not a failure.
	IngestDocument(ctx context.Context, doc *domain.CourseDocument) (bool, error)

	// IngestDirectory ingests every course document file in a directory.
	// Returns the number of courses added and the number skipped as
	// duplicates. Unparseable files are skipped with a warning.
	IngestDirectory(ctx context.Context, dir string) (added, skipped int, err error)

	// IngestFile parses and ingests a single course document file.
	IngestFile(ctx context.Context, path string) (bool, error)
}

// CourseCatalog exposes catalog-level queries to external actors.
type CourseCatalog interface {
	// Titles returns all course titles in the catalog.
	Titles(ctx context.Context) ([]string, error)

	// Outline returns the course matching a possibly-fuzzy reference.
	Outline(ctx context.Context, courseName string) (*domain.Course, error)
}
