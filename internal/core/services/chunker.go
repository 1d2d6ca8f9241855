package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Chunker splits parsed course documents into overlapping,
// context-prefixed chunks ready for embedding.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between chunks in characters.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a new chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkDocument produces the ordered chunk sequence for a parsed document.
// Chunk indices are strictly increasing and scoped to this document.
// Lessons with empty bodies yield no chunks.
func (c *Chunker) ChunkDocument(doc *domain.CourseDocument) []domain.Chunk {
	var chunks []domain.Chunk
	index := 0

	for i := range doc.Course.Lessons {
		lesson := doc.Course.Lessons[i]
		body := strings.TrimSpace(doc.LessonBodies[lesson.Number])
		if body == "" {
			continue
		}

		pieces := c.packSentences(splitSentences(body))
		for j, piece := range pieces {
			number := lesson.Number
			chunks = append(chunks, domain.Chunk{
				ID:           uuid.New().String(),
				CourseTitle:  doc.Course.Title,
				LessonNumber: &number,
				Content:      c.prefix(doc.Course.Title, lesson.Number, j, piece),
				Index:        index,
			})
			index++
		}
	}

	return chunks
}

// prefix makes a chunk self-describing when retrieved without neighbours.
// The first chunk of a lesson carries the lesson header; later chunks get
// the lighter course+lesson prefix.
func (c *Chunker) prefix(courseTitle string, lessonNumber, position int, text string) string {
	if position == 0 {
		return fmt.Sprintf("Lesson %d content: %s", lessonNumber, text)
	}
	return fmt.Sprintf("Course %s Lesson %d content: %s", courseTitle, lessonNumber, text)
}

// packSentences greedily packs sentences into chunks of at most chunkSize
// characters, re-including the trailing sentences of the previous chunk up
// to the overlap length so adjacent chunks share context.
func (c *Chunker) packSentences(sentences []string) []string {
	sentences = c.wrapOversized(sentences)

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))

		// Seed the next chunk with trailing sentences up to the overlap.
		var carry []string
		carryLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			n := len(current[i])
			if carryLen+n > c.overlap {
				break
			}
			carry = append([]string{current[i]}, carry...)
			carryLen += n + 1
		}
		current = carry
		currentLen = carryLen
	}

	for _, sentence := range sentences {
		addition := len(sentence)
		if currentLen > 0 {
			addition++ // joining space
		}
		if currentLen+addition > c.chunkSize && currentLen > 0 {
			flush()
			// Overlap alone may already crowd out the sentence.
			if currentLen > 0 && currentLen+len(sentence)+1 > c.chunkSize {
				current = nil
				currentLen = 0
			}
		}
		current = append(current, sentence)
		if currentLen > 0 {
			currentLen++
		}
		currentLen += len(sentence)
	}

	if len(current) > 0 {
		// The final flush must not emit an overlap-only chunk: anything
		// left that is purely carried-over text is already covered.
		if !c.onlyCarry(chunks, current) {
			chunks = append(chunks, strings.Join(current, " "))
		}
	}

	return chunks
}

// onlyCarry reports whether the pending sentences are all present at the
// tail of the previously emitted chunk.
func (c *Chunker) onlyCarry(chunks []string, pending []string) bool {
	if len(chunks) == 0 {
		return false
	}
	return strings.HasSuffix(chunks[len(chunks)-1], strings.Join(pending, " "))
}

// wrapOversized hard-wraps any single sentence longer than the chunk size
// at word boundaries, so no emitted chunk exceeds the configured maximum.
func (c *Chunker) wrapOversized(sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		if len(sentence) <= c.chunkSize {
			out = append(out, sentence)
			continue
		}

		words := strings.Fields(sentence)
		var part []string
		partLen := 0
		for _, w := range words {
			addition := len(w)
			if partLen > 0 {
				addition++
			}
			if partLen+addition > c.chunkSize && partLen > 0 {
				out = append(out, strings.Join(part, " "))
				part = nil
				partLen = 0
				addition = len(w)
			}
			part = append(part, w)
			partLen += addition
		}
		if len(part) > 0 {
			out = append(out, strings.Join(part, " "))
		}
	}
	return out
}

// splitSentences breaks text into sentences. Boundary detection tolerates
// common abbreviations ("Dr.", "Mr.", "e.g.") and initials, which a naive
// period split would break apart.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		// Only whitespace after a terminator ends a sentence.
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		if ch == '.' && endsWithAbbreviation(text[start:i+1]) {
			continue
		}

		sentence := strings.TrimSpace(text[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

// knownAbbreviations are title-style abbreviations not caught by the
// pattern rules below.
var knownAbbreviations = map[string]bool{
	"mrs":    true,
	"prof":   true,
	"dept":   true,
	"approx": true,
}

// endsWithAbbreviation reports whether the segment's trailing period
// belongs to an abbreviation rather than a sentence boundary.
func endsWithAbbreviation(segment string) bool {
	trimmed := strings.TrimSuffix(segment, ".")
	idx := strings.LastIndexByte(trimmed, ' ')
	word := trimmed[idx+1:]
	if word == "" {
		return false
	}

	// Single-letter initials: "J." in "J. Smith".
	if len(word) == 1 && isLetter(word[0]) {
		return true
	}

	// Two-letter title abbreviations: "Dr.", "Mr.", "St.", "No.".
	if len(word) == 2 && word[0] >= 'A' && word[0] <= 'Z' &&
		word[1] >= 'a' && word[1] <= 'z' {
		return true
	}

	// Dotted abbreviations: "e.g.", "i.e.", "U.S.".
	if strings.Contains(word, ".") {
		return true
	}

	return knownAbbreviations[strings.ToLower(word)]
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
