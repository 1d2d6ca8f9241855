package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the content search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"what to search for in the course content"`
	CourseName   string `json:"course_name,omitempty" jsonschema:"course title to filter by (partial matches work)"`
	LessonNumber *int   `json:"lesson_number,omitempty" jsonschema:"lesson number to filter by"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the content search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	CourseTitle  string  `json:"course_title"`
	LessonNumber *int    `json:"lesson_number,omitempty"`
	Score        float64 `json:"score"`
	Content      string  `json:"content"`
}

// OutlineInput is the input schema for the outline tool.
type OutlineInput struct {
	CourseName string `json:"course_name" jsonschema:"course title to get the outline for (partial matches work)"`
}

// OutlineOutput is the output schema for the outline tool.
type OutlineOutput struct {
	CourseTitle string         `json:"course_title"`
	CourseLink  string         `json:"course_link,omitempty"`
	Instructor  string         `json:"instructor,omitempty"`
	Lessons     []LessonOutput `json:"lessons"`
}

// LessonOutput represents one lesson in a course outline.
type LessonOutput struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query     string `json:"query" jsonschema:"the question to answer using course materials"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation session identifier for follow-up questions"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput represents one cited source.
type SourceOutput struct {
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_course_content",
		Description: "Search course materials for specific content",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_course_outline",
		Description: "Get the full lesson list of a course",
	}, s.handleOutline)

	if s.ports.Assistant != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_course_question",
			Description: "Answer a question using course materials, with source citations",
		}, s.handleAsk)
	}
}

// handleSearch handles the content search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Search.Search(ctx, input.Query, input.CourseName, input.LessonNumber, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			CourseTitle:  results[i].CourseTitle,
			LessonNumber: results[i].LessonNumber,
			Score:        results[i].Score,
			Content:      results[i].Content,
		}
	}

	return nil, output, nil
}

// handleOutline handles the outline tool invocation.
func (s *Server) handleOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutlineInput,
) (*mcp.CallToolResult, OutlineOutput, error) {
	course, err := s.ports.Catalog.Outline(ctx, input.CourseName)
	if err != nil {
		return nil, OutlineOutput{}, err
	}

	output := OutlineOutput{
		CourseTitle: course.Title,
		CourseLink:  course.Link,
		Instructor:  course.Instructor,
		Lessons:     make([]LessonOutput, len(course.Lessons)),
	}
	for i, lesson := range course.Lessons {
		output.Lessons[i] = LessonOutput{
			Number: lesson.Number,
			Title:  lesson.Title,
			Link:   lesson.Link,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = "mcp"
	}

	answer, sources, err := s.ports.Assistant.Answer(ctx, input.Query, sessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer,
		Sources: make([]SourceOutput, len(sources)),
	}
	for i, src := range sources {
		output.Sources[i] = SourceOutput{Label: src.Label, Link: src.Link}
	}

	return nil, output, nil
}
