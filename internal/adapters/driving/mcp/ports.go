package mcp

import (
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/tools"
)

// Ports aggregates everything the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tools is the registry every tool call is dispatched through.
	Tools *tools.Registry

	// Documents backs the document resources. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tools == nil {
		return ErrMissingRegistry
	}
	return nil
}
