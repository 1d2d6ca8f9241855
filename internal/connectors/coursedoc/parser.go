// Package coursedoc parses course script documents into the domain model.
//
// A course document is a plain text file with a metadata header followed
// by lesson sections:
//
//	Course Title: Building Towards Computer Use
//	Course Link: https://example.com/course
//	Course Instructor: Colt Steele
//
//	Lesson 0: Introduction
//	Lesson Link: https://example.com/lesson0
//	Welcome to the course. ...
//
//	Lesson 1: Getting Set Up
//	...
//
// Header keys are matched case-insensitively. Only the course title is
// required; text before the first lesson marker that is not a header
// line is ignored.
package coursedoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/services"
)

// Ensure Parser implements the ingest service's parser interface.
var _ services.DocumentParser = (*Parser)(nil)

// Header keys recognised in the document preamble.
const (
	headerTitle      = "course title:"
	headerLink       = "course link:"
	headerInstructor = "course instructor:"
	lessonLinkPrefix = "lesson link:"
)

// Parser parses course script documents.
type Parser struct{}

// NewParser creates a new course document parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts raw document text into a CourseDocument.
// Returns an error wrapping domain.ErrInvalidInput when the document has
// no course title or a malformed lesson marker.
func (p *Parser) Parse(content string) (*domain.CourseDocument, error) {
	lines := strings.Split(normaliseNewlines(content), "\n")

	doc := &domain.CourseDocument{
		LessonBodies: make(map[int]string),
	}

	i := parseHeader(lines, doc)
	if doc.Course.Title == "" {
		return nil, fmt.Errorf("%w: document has no Course Title header", domain.ErrInvalidInput)
	}

	if err := parseLessons(lines[i:], doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// parseHeader consumes course metadata lines and returns the index of the
// first line past the header block.
func parseHeader(lines []string, doc *domain.CourseDocument) int {
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, headerTitle):
			doc.Course.Title = strings.TrimSpace(line[len(headerTitle):])
		case strings.HasPrefix(lower, headerLink):
			doc.Course.Link = strings.TrimSpace(line[len(headerLink):])
		case strings.HasPrefix(lower, headerInstructor):
			doc.Course.Instructor = strings.TrimSpace(line[len(headerInstructor):])
		case line == "":
			// Blank lines inside the header are fine.
		default:
			// First non-header line ends the preamble.
			return i
		}
	}
	return i
}

// parseLessons consumes lesson sections. Each section starts with a
// "Lesson N: Title" marker, optionally followed by a "Lesson Link:" line,
// then body text up to the next marker.
func parseLessons(lines []string, doc *domain.CourseDocument) error {
	var (
		current    *domain.Lesson
		body       strings.Builder
		expectLink bool
	)

	flush := func() {
		if current == nil {
			return
		}
		doc.Course.Lessons = append(doc.Course.Lessons, *current)
		doc.LessonBodies[current.Number] = strings.TrimSpace(body.String())
		body.Reset()
		current = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if number, title, ok := matchLessonMarker(line); ok {
			flush()
			if doc.Course.LessonByNumber(number) != nil {
				return fmt.Errorf("%w: duplicate lesson number %d", domain.ErrInvalidInput, number)
			}
			current = &domain.Lesson{Number: number, Title: title}
			expectLink = true
			continue
		}

		if current == nil {
			// Prose before the first lesson marker is ignored.
			continue
		}

		if expectLink {
			expectLink = false
			if lower := strings.ToLower(line); strings.HasPrefix(lower, lessonLinkPrefix) {
				current.Link = strings.TrimSpace(line[len(lessonLinkPrefix):])
				continue
			}
		}

		body.WriteString(raw)
		body.WriteString("\n")
	}
	flush()

	return nil
}

// matchLessonMarker reports whether a line is a "Lesson N: Title" marker.
func matchLessonMarker(line string) (number int, title string, ok bool) {
	const prefix = "lesson "
	lower := strings.ToLower(line)
	if !strings.HasPrefix(lower, prefix) {
		return 0, "", false
	}

	rest := line[len(prefix):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return 0, "", false
	}

	number, err := strconv.Atoi(strings.TrimSpace(rest[:colon]))
	if err != nil || number < 0 {
		return 0, "", false
	}

	return number, strings.TrimSpace(rest[colon+1:]), true
}

// normaliseNewlines strips carriage returns so Windows files parse the same.
func normaliseNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
