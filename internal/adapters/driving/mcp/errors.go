// Package mcp provides an MCP (Model Context Protocol) server adapter for AgroLens.
// It enables AI assistants like Claude to query the local knowledge base.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
