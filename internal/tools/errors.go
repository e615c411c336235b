package tools

import (
	"errors"
	"fmt"
)

// ErrDuplicateTool indicates a tool name is already registered.
var ErrDuplicateTool = errors.New("tool already registered")

// ToolError reports a dispatch failure: unknown tool or bad arguments.
type ToolError struct {
	Message string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return e.Message
}

func unknownTool(name string) *ToolError {
	return &ToolError{Message: "unknown tool: " + name}
}

func missingArgument(field string) *ToolError {
	return &ToolError{Message: "missing required argument: " + field}
}

func invalidArgument(field, kind string) *ToolError {
	return &ToolError{Message: fmt.Sprintf("invalid argument: %s must be %s", field, kind)}
}
