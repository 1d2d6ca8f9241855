package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// Tool names offered to the model.
const (
	SearchToolName  = "search_course_content"
	OutlineToolName = "get_course_outline"
)

// Tool is one capability the model can invoke. Execute returns the text
// result together with the provenance it used; provenance travels on the
// return path so shared tool instances stay safe under concurrent queries.
type Tool interface {
	// Name returns the unique tool name.
	Name() string

	// Definition returns the schema declared to the completion service.
	Definition() driven.ToolDefinition

	// Execute runs the tool. Retrieval-layer failures come back as
	// readable text, not errors; only malformed arguments error out.
	Execute(ctx context.Context, args map[string]any) (string, []domain.SourceRef, error)
}

// ToolRegistry holds the available tools and dispatches calls by name.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates a registry from the given tools.
// Duplicate names are rejected at construction, not at call time.
func NewToolRegistry(tools ...Tool) (*ToolRegistry, error) {
	r := &ToolRegistry{tools: make(map[string]Tool, len(tools))}
	for _, tool := range tools {
		name := tool.Name()
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool name %q", domain.ErrInvalidInput, name)
		}
		r.tools[name] = tool
		r.order = append(r.order, name)
	}
	return r, nil
}

// Definitions returns the schema list for the completion service's
// tool declaration, in registration order.
func (r *ToolRegistry) Definitions() []driven.ToolDefinition {
	defs := make([]driven.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch executes the named tool. Unknown names return
// domain.ErrNotFound; tool-internal errors are wrapped.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, args map[string]any) (string, []domain.SourceRef, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: tool %q", domain.ErrNotFound, name)
	}

	text, sources, err := tool.Execute(ctx, args)
	if err != nil {
		return "", nil, fmt.Errorf("tool %q: %w", name, err)
	}
	return text, sources, nil
}

// --- SearchTool ---

// SearchTool searches course content with optional course and lesson
// filters, for the model to call when a question needs specific material.
type SearchTool struct {
	search *SearchService
}

// NewSearchTool creates the content search tool.
func NewSearchTool(search *SearchService) *SearchTool {
	return &SearchTool{search: search}
}

// Name returns the tool name.
func (t *SearchTool) Name() string { return SearchToolName }

// Definition returns the tool schema.
func (t *SearchTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in course content",
				},
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]any{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Execute runs the search and formats results into labelled blocks.
// Empty results and retrieval failures both come back as readable text
// so the model can see and react to them in-band.
func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (string, []domain.SourceRef, error) {
	query, err := stringArg(args, "query", true)
	if err != nil {
		return "", nil, err
	}
	courseName, err := stringArg(args, "course_name", false)
	if err != nil {
		return "", nil, err
	}
	lessonNumber, err := intArg(args, "lesson_number")
	if err != nil {
		return "", nil, err
	}

	results, err := t.search.Search(ctx, query, courseName, lessonNumber, 0)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("No course found matching '%s'", courseName), []domain.SourceRef{}, nil
	}
	if err != nil {
		logger.Warn("Search tool failed: %v", err)
		return fmt.Sprintf("Search failed: %v", err), []domain.SourceRef{}, nil
	}

	if len(results) == 0 {
		return t.emptyMessage(query, courseName, lessonNumber), []domain.SourceRef{}, nil
	}

	var b strings.Builder
	sources := make([]domain.SourceRef, 0, len(results))
	for i, res := range results {
		label := res.CourseTitle
		if res.LessonNumber != nil {
			label = fmt.Sprintf("%s - Lesson %d", res.CourseTitle, *res.LessonNumber)
		}

		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", label, res.Content)

		sources = append(sources, domain.SourceRef{
			Label: label,
			Link:  t.sourceLink(ctx, res),
		})
	}

	return b.String(), sources, nil
}

// sourceLink prefers the lesson link, falling back to the course link.
func (t *SearchTool) sourceLink(ctx context.Context, res domain.SearchResult) string {
	course, err := t.search.store.GetCourse(ctx, res.CourseTitle)
	if err != nil {
		return ""
	}
	if res.LessonNumber != nil {
		if lesson := course.LessonByNumber(*res.LessonNumber); lesson != nil && lesson.Link != "" {
			return lesson.Link
		}
	}
	return course.Link
}

// emptyMessage describes an empty result set, naming the active filters.
func (t *SearchTool) emptyMessage(query, courseName string, lessonNumber *int) string {
	var filters []string
	if courseName != "" {
		filters = append(filters, fmt.Sprintf("in course '%s'", courseName))
	}
	if lessonNumber != nil {
		filters = append(filters, fmt.Sprintf("in lesson %d", *lessonNumber))
	}
	if len(filters) == 0 {
		return fmt.Sprintf("No relevant content found for '%s'.", query)
	}
	return fmt.Sprintf("No relevant content found for '%s' %s.", query, strings.Join(filters, " "))
}

// --- OutlineTool ---

// OutlineTool returns a course's structure: title, link and the full
// ordered lesson list.
type OutlineTool struct {
	search *SearchService
}

// NewOutlineTool creates the course outline tool.
func NewOutlineTool(search *SearchService) *OutlineTool {
	return &OutlineTool{search: search}
}

// Name returns the tool name.
func (t *OutlineTool) Name() string { return OutlineToolName }

// Definition returns the tool schema.
func (t *OutlineTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        OutlineToolName,
		Description: "Get the complete outline of a course: title, link, and all lessons with numbers and titles",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			"required": []string{"course_name"},
		},
	}
}

// Execute resolves the course and formats its outline. The provenance is
// exactly one entry for the course itself - the invariant every answering
// tool honours so citation display stays correct downstream.
func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (string, []domain.SourceRef, error) {
	courseName, err := stringArg(args, "course_name", true)
	if err != nil {
		return "", nil, err
	}

	course, err := t.search.Outline(ctx, courseName)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("No course found matching '%s'", courseName), []domain.SourceRef{}, nil
	}
	if err != nil {
		logger.Warn("Outline tool failed: %v", err)
		return fmt.Sprintf("Outline lookup failed: %v", err), []domain.SourceRef{}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Link: %s\n", course.Link)
	}
	fmt.Fprintf(&b, "Lessons (%d):\n", len(course.Lessons))

	lessons := make([]domain.Lesson, len(course.Lessons))
	copy(lessons, course.Lessons)
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Number < lessons[j].Number })
	for _, lesson := range lessons {
		fmt.Fprintf(&b, "  %d. %s\n", lesson.Number, lesson.Title)
	}

	sources := []domain.SourceRef{{Label: course.Title, Link: course.Link}}
	return b.String(), sources, nil
}

// --- argument helpers ---

// stringArg extracts a string argument, enforcing presence when required.
func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: missing required argument %q", domain.ErrInvalidInput, key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string", domain.ErrInvalidInput, key)
	}
	return s, nil
}

// intArg extracts an optional integer argument. JSON numbers decode as
// float64, so both shapes are accepted.
func intArg(args map[string]any, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		n := int(v)
		return &n, nil
	case int:
		n := v
		return &n, nil
	default:
		return nil, fmt.Errorf("%w: argument %q must be a number", domain.ErrInvalidInput, key)
	}
}
