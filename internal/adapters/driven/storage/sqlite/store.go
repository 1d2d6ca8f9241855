// Package sqlite provides a persistent CourseStore backed by SQLite.
// Catalog and content embeddings are stored as little-endian float32
// BLOBs; similarity search scans candidate rows and scores them with
// exact cosine similarity, which is plenty for corpus sizes in the
// hundreds of courses.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/coursechat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CourseStore = (*Store)(nil)

// Store is the SQLite-backed course store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.coursechat/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".coursechat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "courses.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies any pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveCourse inserts a course, its lessons and its chunks in one
// transaction, so a catalog entry never appears without its content.
func (s *Store) SaveCourse(
	ctx context.Context, course *domain.Course, catalogEmbedding []float32, chunks []domain.Chunk,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses WHERE title = ?", course.Title)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking course: %w", err)
	}
	if exists > 0 {
		return domain.ErrAlreadyExists
	}

	var position int
	row = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM courses")
	if err := row.Scan(&position); err != nil {
		return fmt.Errorf("next catalog position: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (title, link, instructor, embedding, position)
		VALUES (?, ?, ?, ?, ?)
	`, course.Title, course.Link, course.Instructor, float32SliceToBytes(catalogEmbedding), position)
	if err != nil {
		return fmt.Errorf("saving course: %w", err)
	}

	lessonStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lessons (course_title, number, title, link)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing lesson statement: %w", err)
	}
	defer lessonStmt.Close()

	for _, lesson := range course.Lessons {
		if _, err := lessonStmt.ExecContext(ctx,
			course.Title, lesson.Number, lesson.Title, lesson.Link); err != nil {
			return fmt.Errorf("saving lesson %d: %w", lesson.Number, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, course_title, lesson_number, content, position, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk statement: %w", err)
	}
	defer chunkStmt.Close()

	for _, chunk := range chunks {
		var lessonNumber any
		if chunk.LessonNumber != nil {
			lessonNumber = *chunk.LessonNumber
		}
		if _, err := chunkStmt.ExecContext(ctx, chunk.ID, chunk.CourseTitle,
			lessonNumber, chunk.Content, chunk.Index, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetCourse retrieves a course with its lessons by canonical title.
func (s *Store) GetCourse(ctx context.Context, title string) (*domain.Course, error) {
	course := &domain.Course{}
	row := s.db.QueryRowContext(ctx, `
		SELECT title, link, instructor FROM courses WHERE title = ?
	`, title)
	if err := row.Scan(&course.Title, &course.Link, &course.Instructor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, link FROM lessons
		WHERE course_title = ?
		ORDER BY number
	`, title)
	if err != nil {
		return nil, fmt.Errorf("querying lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.Number, &lesson.Title, &lesson.Link); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		course.Lessons = append(course.Lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}

	return course, nil
}

// CourseExists reports whether a title is present in the catalog.
func (s *Store) CourseExists(ctx context.Context, title string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses WHERE title = ?", title)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking course: %w", err)
	}
	return count > 0, nil
}

// ListCourseTitles returns catalog titles in insertion order.
func (s *Store) ListCourseTitles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM courses ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating titles: %w", err)
	}
	return titles, nil
}

// NearestCourse scans the catalog and returns the closest entry.
func (s *Store) NearestCourse(ctx context.Context, embedding []float32) (*driven.CatalogHit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, embedding FROM courses")
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	best := driven.CatalogHit{Similarity: math.Inf(-1)}
	found := false
	for rows.Next() {
		var title string
		var blob []byte
		if err := rows.Scan(&title, &blob); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		sim := cosineSimilarity(embedding, bytesToFloat32Slice(blob))
		if sim > best.Similarity {
			best = driven.CatalogHit{Title: title, Similarity: sim}
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return &best, nil
}

// SearchChunks scores candidate chunks against the query embedding.
// Filters are pushed into SQL so only candidate rows are scanned.
func (s *Store) SearchChunks(ctx context.Context, q driven.ChunkQuery) ([]domain.SearchResult, error) {
	query := "SELECT course_title, lesson_number, content, position, embedding FROM chunks"
	var conds []string
	var args []any

	if q.CourseTitle != "" {
		conds = append(conds, "course_title = ?")
		args = append(args, q.CourseTitle)
	}
	if q.LessonNumber != nil {
		conds = append(conds, "lesson_number = ?")
		args = append(args, *q.LessonNumber)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var res domain.SearchResult
		var lessonNumber sql.NullInt64
		var blob []byte
		if err := rows.Scan(&res.CourseTitle, &lessonNumber, &res.Content, &res.Index, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if lessonNumber.Valid {
			n := int(lessonNumber.Int64)
			res.LessonNumber = &n
		}
		res.Score = cosineSimilarity(q.Embedding, bytesToFloat32Slice(blob))
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
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
func (s *Store) ChunkCount(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
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
