package mcp

import (
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions against the knowledge base.
	Query driving.QueryService

	// Dataset manages indexed datasets.
	Dataset driving.DatasetService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Dataset is optional; dataset resources degrade to empty lists.
	return nil
}
