package sqlite

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
)

func intPtr(n int) *int { return &n }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunk(course string, lesson *int, index int, content string, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:           uuid.NewString(),
		CourseTitle:  course,
		LessonNumber: lesson,
		Index:        index,
		Content:      content,
		Embedding:    embedding,
	}
}

func seedTestStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveCourse(ctx,
		&domain.Course{
			Title:      "Vectors 101",
			Link:       "https://example.com/vectors",
			Instructor: "Ada Lovelace",
			Lessons: []domain.Lesson{
				{Number: 1, Title: "Dot Products", Link: "https://example.com/vectors/1"},
				{Number: 2, Title: "Norms"},
			},
		},
		[]float32{1, 0, 0},
		[]domain.Chunk{
			testChunk("Vectors 101", intPtr(1), 0, "dot products", []float32{1, 0, 0}),
			testChunk("Vectors 101", intPtr(2), 1, "norms", []float32{0.8, 0.2, 0}),
		})
	require.NoError(t, err)

	err = store.SaveCourse(ctx,
		&domain.Course{Title: "Graph Theory"},
		[]float32{0, 1, 0},
		[]domain.Chunk{
			testChunk("Graph Theory", intPtr(1), 0, "edges", []float32{0, 1, 0}),
		})
	require.NoError(t, err)

	return store
}

func TestStore_SaveAndGetCourse(t *testing.T) {
	store := seedTestStore(t)

	course, err := store.GetCourse(context.Background(), "Vectors 101")

	require.NoError(t, err)
	assert.Equal(t, "Vectors 101", course.Title)
	assert.Equal(t, "https://example.com/vectors", course.Link)
	assert.Equal(t, "Ada Lovelace", course.Instructor)
	require.Len(t, course.Lessons, 2)
	assert.Equal(t, "Dot Products", course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/vectors/1", course.Lessons[0].Link)
	assert.Equal(t, 2, course.Lessons[1].Number)
}

func TestStore_GetCourseNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCourse(context.Background(), "No Such Course")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDuplicateRollsBack(t *testing.T) {
	store := seedTestStore(t)
	ctx := context.Background()

	err := store.SaveCourse(ctx,
		&domain.Course{Title: "Vectors 101"},
		[]float32{1, 0, 0},
		[]domain.Chunk{testChunk("Vectors 101", nil, 9, "extra", []float32{1, 0, 0})})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	count, err := store.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "a rejected save must leave no rows behind")
}

func TestStore_CourseExists(t *testing.T) {
	store := seedTestStore(t)
	ctx := context.Background()

	exists, err := store.CourseExists(ctx, "Graph Theory")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CourseExists(ctx, "No Such Course")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_ListCourseTitlesInsertionOrder(t *testing.T) {
	store := seedTestStore(t)

	titles, err := store.ListCourseTitles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Vectors 101", "Graph Theory"}, titles)
}

func TestStore_NearestCourse(t *testing.T) {
	store := seedTestStore(t)

	hit, err := store.NearestCourse(context.Background(), []float32{0.1, 0.9, 0})

	require.NoError(t, err)
	assert.Equal(t, "Graph Theory", hit.Title)
	assert.Greater(t, hit.Similarity, 0.9)
}

func TestStore_NearestCourseEmptyCatalog(t *testing.T) {
	store := newTestStore(t)

	_, err := store.NearestCourse(context.Background(), []float32{1, 0, 0})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SearchChunksOrderedByScore(t *testing.T) {
	store := seedTestStore(t)

	results, err := store.SearchChunks(context.Background(), driven.ChunkQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "dot products", results[0].Content)
	assert.Equal(t, "norms", results[1].Content)
	assert.Equal(t, "edges", results[2].Content)
	require.NotNil(t, results[0].LessonNumber)
	assert.Equal(t, 1, *results[0].LessonNumber)
}

func TestStore_SearchChunksFilters(t *testing.T) {
	store := seedTestStore(t)
	ctx := context.Background()

	results, err := store.SearchChunks(ctx, driven.ChunkQuery{
		Embedding:   []float32{1, 0, 0},
		CourseTitle: "Graph Theory",
		Limit:       10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "edges", results[0].Content)

	results, err = store.SearchChunks(ctx, driven.ChunkQuery{
		Embedding:    []float32{1, 0, 0},
		CourseTitle:  "Vectors 101",
		LessonNumber: intPtr(2),
		Limit:        10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "norms", results[0].Content)

	results, err = store.SearchChunks(ctx, driven.ChunkQuery{
		Embedding:    []float32{1, 0, 0},
		LessonNumber: intPtr(99),
		Limit:        10,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_SearchChunksLimit(t *testing.T) {
	store := seedTestStore(t)

	results, err := store.SearchChunks(context.Background(), driven.ChunkQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     1,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "dot products", results[0].Content)
}

func TestStore_NilLessonNumberRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveCourse(ctx,
		&domain.Course{Title: "Untagged"},
		[]float32{1, 0, 0},
		[]domain.Chunk{testChunk("Untagged", nil, 0, "general notes", []float32{1, 0, 0})})
	require.NoError(t, err)

	results, err := store.SearchChunks(ctx, driven.ChunkQuery{Embedding: []float32{1, 0, 0}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].LessonNumber)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	err = store.SaveCourse(ctx,
		&domain.Course{Title: "Durable Course"},
		[]float32{1, 0, 0},
		[]domain.Chunk{testChunk("Durable Course", intPtr(1), 0, "body", []float32{1, 0, 0})})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	titles, err := reopened.ListCourseTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Durable Course"}, titles)

	count, err := reopened.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFloat32Codec_Roundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vec := make([]float32, 1536)
	for i := range vec {
		vec[i] = rng.Float32()*2 - 1
	}

	decoded := bytesToFloat32Slice(float32SliceToBytes(vec))

	assert.Equal(t, vec, decoded)
}

func TestFloat32Codec_Empty(t *testing.T) {
	assert.Empty(t, bytesToFloat32Slice(float32SliceToBytes(nil)))
}
