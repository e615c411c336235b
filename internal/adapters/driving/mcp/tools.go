package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// registerTools mirrors every registry tool onto the MCP server.
func (s *Server) registerTools() error {
	for _, def := range s.ports.Tools.List() {
		schema, err := inputSchema(def.InputSchema)
		if err != nil {
			return fmt.Errorf("tool %s: %w", def.Name, err)
		}
		s.server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		}, s.toolHandler(def.Name))
	}
	return nil
}

// inputSchema converts a tool schema into the generic JSON form the SDK accepts.
func inputSchema(schema domain.InputSchema) (map[string]any, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode input schema: %w", err)
	}
	return out, nil
}

// toolHandler forwards a call to the registry. Envelope errors become IsError results.
func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}

		res := s.ports.Tools.Call(ctx, name, args)
		if res.IsError() {
			return errorResult(res.Error), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text()}},
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
