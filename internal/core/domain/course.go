package domain

// Course represents a single course in the corpus.
// The title is the unique key; there is no surrogate identifier.
// Courses are created once at ingestion time and never updated.
type Course struct {
	// Title is the canonical course title (unique across the catalog).
	Title string

	// Link is the course URL, if the source document provided one.
	Link string

	// Instructor is the course instructor, if known.
	Instructor string

	// Lessons is the ordered list of lessons in this course.
	Lessons []Lesson
}

// Lesson represents one lesson within a course.
type Lesson struct {
	// Number is the lesson number. Positive and unique within the
	// course, but not necessarily contiguous.
	Number int

	// Title is the lesson title.
	Title string

	// Link is the lesson URL, if the source document provided one.
	Link string
}

// LessonByNumber returns the lesson with the given number, or nil.
func (c *Course) LessonByNumber(number int) *Lesson {
	for i := range c.Lessons {
		if c.Lessons[i].Number == number {
			return &c.Lessons[i]
		}
	}
	return nil
}

// CatalogText returns the text used to embed this course in the catalog
// collection. Title plus instructor gives fuzzy references like "the MCP
// course" or "Anna's course" something to match against.
func (c *Course) CatalogText() string {
	if c.Instructor == "" {
		return c.Title
	}
	return c.Title + " taught by " + c.Instructor
}

// CourseDocument is a parsed source document: course metadata plus the
// raw body text of each lesson, before chunking.
type CourseDocument struct {
	// Course holds the parsed metadata and lesson list.
	Course Course

	// LessonBodies maps lesson number to that lesson's body text.
	LessonBodies map[int]string
}
