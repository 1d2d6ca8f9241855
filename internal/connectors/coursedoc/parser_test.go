package coursedoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

const sampleDocument = `Course Title: Building Towards Computer Use
Course Link: https://example.com/course
Course Instructor: Colt Steele

Lesson 0: Introduction
Lesson Link: https://example.com/lesson0
Welcome to the course.
This lesson covers the basics.

Lesson 1: Getting Set Up
Install the tools before continuing.
`

func TestParse_FullDocument(t *testing.T) {
	doc, err := NewParser().Parse(sampleDocument)

	require.NoError(t, err)
	assert.Equal(t, "Building Towards Computer Use", doc.Course.Title)
	assert.Equal(t, "https://example.com/course", doc.Course.Link)
	assert.Equal(t, "Colt Steele", doc.Course.Instructor)

	require.Len(t, doc.Course.Lessons, 2)
	assert.Equal(t, 0, doc.Course.Lessons[0].Number)
	assert.Equal(t, "Introduction", doc.Course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/lesson0", doc.Course.Lessons[0].Link)
	assert.Equal(t, 1, doc.Course.Lessons[1].Number)
	assert.Equal(t, "Getting Set Up", doc.Course.Lessons[1].Title)
	assert.Empty(t, doc.Course.Lessons[1].Link, "the lesson link line is optional")

	assert.Equal(t, "Welcome to the course.\nThis lesson covers the basics.", doc.LessonBodies[0])
	assert.Equal(t, "Install the tools before continuing.", doc.LessonBodies[1])
}

func TestParse_MissingTitle(t *testing.T) {
	_, err := NewParser().Parse("Course Link: https://example.com\n\nLesson 1: Intro\nBody.\n")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_DuplicateLessonNumber(t *testing.T) {
	content := `Course Title: Dup Course

Lesson 1: First
Body one.

Lesson 1: Second
Body two.
`

	_, err := NewParser().Parse(content)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "duplicate lesson number 1")
}

func TestParse_HeadersAreCaseInsensitive(t *testing.T) {
	content := "COURSE TITLE: Shouty Course\ncourse instructor: Ada\n\nlesson 1: Intro\nlesson link: https://example.com/l1\nBody.\n"

	doc, err := NewParser().Parse(content)

	require.NoError(t, err)
	assert.Equal(t, "Shouty Course", doc.Course.Title)
	assert.Equal(t, "Ada", doc.Course.Instructor)
	require.Len(t, doc.Course.Lessons, 1)
	assert.Equal(t, "https://example.com/l1", doc.Course.Lessons[0].Link)
}

func TestParse_WindowsLineEndings(t *testing.T) {
	content := "Course Title: CRLF Course\r\n\r\nLesson 1: Intro\r\nLine one.\r\nLine two.\r\n"

	doc, err := NewParser().Parse(content)

	require.NoError(t, err)
	assert.Equal(t, "CRLF Course", doc.Course.Title)
	assert.Equal(t, "Line one.\nLine two.", doc.LessonBodies[1])
}

func TestParse_ProseBeforeFirstLessonIgnored(t *testing.T) {
	content := `Course Title: Preamble Course
This introductory paragraph belongs to no lesson.
Neither does this one.

Lesson 1: Intro
Actual lesson body.
`

	doc, err := NewParser().Parse(content)

	require.NoError(t, err)
	require.Len(t, doc.Course.Lessons, 1)
	assert.Equal(t, "Actual lesson body.", doc.LessonBodies[1])
}

func TestParse_LinkLineOnlyDirectlyAfterMarker(t *testing.T) {
	// A "Lesson Link:" line deeper in the body is ordinary prose.
	content := `Course Title: Link Course

Lesson 1: Intro
First line of the body.
Lesson Link: https://example.com/not-a-link
`

	doc, err := NewParser().Parse(content)

	require.NoError(t, err)
	assert.Empty(t, doc.Course.Lessons[0].Link)
	assert.Contains(t, doc.LessonBodies[1], "Lesson Link: https://example.com/not-a-link")
}

func TestParse_NoLessons(t *testing.T) {
	doc, err := NewParser().Parse("Course Title: Empty Course\n")

	require.NoError(t, err)
	assert.Empty(t, doc.Course.Lessons)
	assert.Empty(t, doc.LessonBodies)
}

func TestMatchLessonMarker(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		number int
		title  string
		ok     bool
	}{
		{"standard", "Lesson 3: Advanced Topics", 3, "Advanced Topics", true},
		{"zero numbered", "Lesson 0: Introduction", 0, "Introduction", true},
		{"lowercase", "lesson 2: Setup", 2, "Setup", true},
		{"no colon", "Lesson 4 Advanced", 0, "", false},
		{"negative number", "Lesson -1: Nope", 0, "", false},
		{"not a number", "Lesson one: Nope", 0, "", false},
		{"plain prose", "The lesson covers retrieval.", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, title, ok := matchLessonMarker(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.number, number)
				assert.Equal(t, tt.title, title)
			}
		})
	}
}
