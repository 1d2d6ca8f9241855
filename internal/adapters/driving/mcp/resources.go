package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Coursechat resources.
	uriScheme = "coursechat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the course catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "courses",
		Name:        "courses",
		Description: "List of all courses in the corpus",
		MIMEType:    "application/json",
	}, s.handleCoursesResource)

	// Template for a single course outline.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "courses/{courseName}",
		Name:        "course-outline",
		Description: "Outline of a specific course",
		MIMEType:    "application/json",
	}, s.handleOutlineResource)
}

// handleCoursesResource returns the list of course titles.
func (s *Server) handleCoursesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	titles, err := s.ports.Catalog.Titles(ctx)
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}

	data, err := json.Marshal(titles)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleOutlineResource returns the outline of the course named in the URI.
func (s *Server) handleOutlineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := strings.TrimPrefix(req.Params.URI, uriScheme+"courses/")

	course, err := s.ports.Catalog.Outline(ctx, name)
	if err != nil {
		return nil, err
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

	data, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
