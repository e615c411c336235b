// Package mcp provides an MCP (Model Context Protocol) server adapter for prdstore.
// It serves the same tool registry as the SSE transport over stdio or streamable HTTP.
package mcp

import "errors"

// ErrMissingRegistry is returned when no tool registry is provided.
var ErrMissingRegistry = errors.New("mcp: tool registry is required")
