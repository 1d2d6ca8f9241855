package mcp

import (
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides filtered content search.
	Search driving.SearchService

	// Catalog provides course listing and outlines.
	Catalog driving.CourseCatalog

	// Assistant answers questions with the full RAG loop.
	// Optional: when nil, the ask tool is not registered.
	Assistant driving.AssistantService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
