// Package mcp provides an MCP (Model Context Protocol) server adapter for Coursechat.
// It lets AI assistants like Claude search the course corpus directly.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingCatalog is returned when the course catalog is not provided.
var ErrMissingCatalog = errors.New("mcp: course catalog is required")
