// Package domain defines the core business entities for prdstore.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored PRD with canonical markdown and a rendered copy
//   - SearchHit: A ranked or flat-scored reference to a Document
//   - Confirmation: A human approval record guarding an irreversible tool call
//   - ToolDefinition: The name, description and input schema of a tool
//   - Settings: Process configuration built once at startup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
