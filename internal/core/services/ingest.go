package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DocumentParser turns raw course file text into a parsed document.
// Implemented by the coursedoc connector.
type DocumentParser interface {
	Parse(content string) (*domain.CourseDocument, error)
}

// IngestService turns parsed course documents into catalog entries and
// embedded content chunks.
type IngestService struct {
	store            driven.CourseStore
	embeddingService driven.EmbeddingService
	chunker          *Chunker
	parser           DocumentParser
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.CourseStore,
	embeddingService driven.EmbeddingService,
	chunker *Chunker,
	parser DocumentParser,
) *IngestService {
	return &IngestService{
		store:            store,
		embeddingService: embeddingService,
		chunker:          chunker,
		parser:           parser,
	}
}

// IngestDocument chunks, embeds and stores one parsed document.
// A duplicate course title is a no-op signalled by (false, nil); the
// duplicate check runs before any chunking or embedding so re-ingestion
// never produces duplicate chunks or wasted embedding calls.
func (s *IngestService) IngestDocument(ctx context.Context, doc *domain.CourseDocument) (bool, error) {
	if s.store == nil {
		return false, domain.ErrStoreUnavailable
	}
	if s.embeddingService == nil {
		return false, domain.ErrEmbeddingUnavailable
	}
	if doc.Course.Title == "" {
		return false, fmt.Errorf("%w: document has no course title", domain.ErrInvalidInput)
	}

	exists, err := s.store.CourseExists(ctx, doc.Course.Title)
	if err != nil {
		return false, fmt.Errorf("check course %q: %w", doc.Course.Title, err)
	}
	if exists {
		logger.Info("Course %q already ingested, skipping", doc.Course.Title)
		return false, nil
	}

	chunks := s.chunker.ChunkDocument(doc)
	logger.Debug("Course %q: %d chunks from %d lessons",
		doc.Course.Title, len(chunks), len(doc.Course.Lessons))

	catalogEmbedding, err := s.embeddingService.Embed(ctx, doc.Course.CatalogText())
	if err != nil {
		return false, fmt.Errorf("embed catalog entry: %w", err)
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Content
		}
		embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return false, fmt.Errorf("embed chunks: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return false, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors",
				len(chunks), len(embeddings))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	err = s.store.SaveCourse(ctx, &doc.Course, catalogEmbedding, chunks)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost a race with a concurrent ingestion of the same title.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("save course %q: %w", doc.Course.Title, err)
	}

	logger.Info("Ingested course %q (%d chunks)", doc.Course.Title, len(chunks))
	return true, nil
}

// IngestDirectory parses and ingests every .txt file in a directory.
// Files that fail to parse are skipped with a warning rather than
// aborting the load, so one bad document cannot block startup.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (added, skipped int, err error) {
	if s.parser == nil {
		return 0, 0, errors.New("no document parser configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read docs directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		accepted, ferr := s.IngestFile(ctx, path)
		if ferr != nil {
			logger.Warn("Skipping %s: %v", entry.Name(), ferr)
			continue
		}
		if accepted {
			added++
		} else {
			skipped++
		}
	}

	return added, skipped, nil
}

// IngestFile parses and ingests a single course document file.
func (s *IngestService) IngestFile(ctx context.Context, path string) (bool, error) {
	if s.parser == nil {
		return false, errors.New("no document parser configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := s.parser.Parse(string(data))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	return s.IngestDocument(ctx, doc)
}
