package services

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

func testDocument(lessons map[int]string) *domain.CourseDocument {
	doc := &domain.CourseDocument{
		Course: domain.Course{
			Title:      "Test Course",
			Link:       "https://example.com/course",
			Instructor: "Test Instructor",
		},
		LessonBodies: make(map[int]string),
	}
	numbers := make([]int, 0, len(lessons))
	for number := range lessons {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	for _, number := range numbers {
		doc.Course.Lessons = append(doc.Course.Lessons, domain.Lesson{
			Number: number,
			Title:  fmt.Sprintf("Lesson %d", number),
		})
		doc.LessonBodies[number] = lessons[number]
	}
	return doc
}

func TestSplitSentences_Basic(t *testing.T) {
	sentences := splitSentences("First sentence. Second sentence! Third sentence?")

	require.Len(t, sentences, 3)
	assert.Equal(t, "First sentence.", sentences[0])
	assert.Equal(t, "Second sentence!", sentences[1])
	assert.Equal(t, "Third sentence?", sentences[2])
}

func TestSplitSentences_Abbreviations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"title abbreviation", "Dr. Smith teaches this course. It covers embeddings.", 2},
		{"mister", "Mr. Jones said so. That was it.", 2},
		{"missus", "Mrs. Lee agreed. So did everyone.", 2},
		{"latin", "Use vectors, e.g. embeddings. They work well.", 2},
		{"initials", "The course by J. Smith is popular. Enrol today.", 2},
		{"no abbreviation", "This ends here. And this here.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences := splitSentences(tt.text)
			assert.Len(t, sentences, tt.want, "sentences: %q", sentences)
		})
	}
}

func TestSplitSentences_CollapsesWhitespace(t *testing.T) {
	sentences := splitSentences("One  sentence\nacross   lines. Another one.")

	require.Len(t, sentences, 2)
	assert.Equal(t, "One sentence across lines.", sentences[0])
}

func TestSplitSentences_NoTerminator(t *testing.T) {
	sentences := splitSentences("a fragment without punctuation")

	require.Len(t, sentences, 1)
	assert.Equal(t, "a fragment without punctuation", sentences[0])
}

func TestSplitSentences_Empty(t *testing.T) {
	assert.Empty(t, splitSentences(""))
	assert.Empty(t, splitSentences("   \n\t  "))
}

func TestChunkDocument_PrefixesAndIndices(t *testing.T) {
	chunker := NewChunker(WithChunkSize(80), WithChunkOverlap(0))
	doc := testDocument(map[int]string{
		1: "This is the first sentence of the lesson. This is the second sentence here. This is the third sentence of it.",
	})

	chunks := chunker.ChunkDocument(doc)
	require.NotEmpty(t, chunks)

	// First chunk of a lesson carries the lesson header.
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Lesson 1 content: "),
		"got %q", chunks[0].Content)

	// Later chunks carry the course+lesson prefix.
	for _, chunk := range chunks[1:] {
		assert.True(t, strings.HasPrefix(chunk.Content, "Course Test Course Lesson 1 content: "),
			"got %q", chunk.Content)
	}

	// Indices strictly increase from zero.
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, "Test Course", chunk.CourseTitle)
		require.NotNil(t, chunk.LessonNumber)
		assert.Equal(t, 1, *chunk.LessonNumber)
		assert.NotEmpty(t, chunk.ID)
	}
}

func TestChunkDocument_EmptyLessonYieldsNoChunks(t *testing.T) {
	chunker := NewChunker()
	doc := testDocument(map[int]string{
		1: "",
		2: "Only this lesson has content.",
	})

	chunks := chunker.ChunkDocument(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, 2, *chunks[0].LessonNumber)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestChunkDocument_ShortLessonSingleChunk(t *testing.T) {
	chunker := NewChunker(WithChunkSize(800), WithChunkOverlap(100))
	doc := testDocument(map[int]string{
		1: "Short body. Shorter than the overlap.",
	})

	chunks := chunker.ChunkDocument(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Lesson 1 content: Short body. Shorter than the overlap.", chunks[0].Content)
}

func TestChunkDocument_IndicesSpanLessons(t *testing.T) {
	chunker := NewChunker()
	doc := testDocument(map[int]string{
		1: "Lesson one body text.",
		3: "Lesson three body text.",
	})

	chunks := chunker.ChunkDocument(doc)

	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, 1, *chunks[0].LessonNumber)
	assert.Equal(t, 3, *chunks[1].LessonNumber)
}

func TestPackSentences_NoSentenceLost(t *testing.T) {
	chunker := NewChunker(WithChunkSize(60), WithChunkOverlap(20))

	sentences := []string{
		"Alpha is the first topic.",
		"Beta follows directly after.",
		"Gamma builds on beta.",
		"Delta wraps everything up.",
	}

	chunks := chunker.packSentences(sentences)
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, " ")
	for _, sentence := range sentences {
		assert.Contains(t, joined, sentence)
	}
}

func TestPackSentences_RespectsMaxLength(t *testing.T) {
	chunker := NewChunker(WithChunkSize(60), WithChunkOverlap(20))

	sentences := []string{
		"Alpha is the first topic we cover.",
		"Beta follows directly after alpha.",
		"Gamma builds on everything before it.",
	}

	for _, chunk := range chunker.packSentences(sentences) {
		assert.LessOrEqual(t, len(chunk), 60, "chunk too long: %q", chunk)
	}
}

func TestPackSentences_OverlapCarriesTrailingSentence(t *testing.T) {
	chunker := NewChunker(WithChunkSize(60), WithChunkOverlap(30))

	sentences := []string{
		"First sentence goes in chunk one.",
		"Second one fits too.",
		"Third sentence starts chunk two.",
	}

	chunks := chunker.packSentences(sentences)
	require.GreaterOrEqual(t, len(chunks), 2)

	// The second chunk re-includes the trailing sentence of the first.
	assert.True(t, strings.HasPrefix(chunks[1], "Second one fits too."),
		"got %q", chunks[1])
}

func TestPackSentences_NoOverlapOnlyFinalChunk(t *testing.T) {
	chunker := NewChunker(WithChunkSize(60), WithChunkOverlap(30))

	// The last sentence fits entirely within the carried overlap, so no
	// trailing chunk that duplicates already-emitted text may appear.
	sentences := []string{
		"A first sentence that fills most of the first chunk here.",
		"Tiny tail.",
	}

	chunks := chunker.packSentences(sentences)
	for i := 1; i < len(chunks); i++ {
		assert.False(t, strings.HasSuffix(chunks[i-1], chunks[i]),
			"chunk %d is pure overlap of its predecessor", i)
	}
}

func TestPackSentences_OversizedSentenceHardWrapped(t *testing.T) {
	chunker := NewChunker(WithChunkSize(40), WithChunkOverlap(0))

	long := strings.Repeat("word ", 30) // far beyond the chunk size
	chunks := chunker.packSentences([]string{strings.TrimSpace(long)})

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 40)
	}
}

func TestNewChunker_OverlapClampedBelowSize(t *testing.T) {
	chunker := NewChunker(WithChunkSize(100), WithChunkOverlap(200))

	assert.Equal(t, 100, chunker.chunkSize)
	assert.Equal(t, 25, chunker.overlap)
}
