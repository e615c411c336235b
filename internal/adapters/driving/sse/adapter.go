package sse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/tools"
)

// Method names accepted by the adapter.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// Request is one protocol call.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// CallParams are the params of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ListResult is the response to tools/list.
type ListResult struct {
	Tools []domain.ToolDefinition `json:"tools"`
}

// ErrorResponse is the failure shape for protocol-level errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Adapter dispatches protocol requests to the tool registry.
type Adapter struct {
	registry *tools.Registry
}

// NewAdapter creates an adapter over registry.
func NewAdapter(registry *tools.Registry) (*Adapter, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: tool registry", domain.ErrInvalidInput)
	}
	return &Adapter{registry: registry}, nil
}

// Handle answers one request. It never fails: every problem is reported in
// the returned value.
func (a *Adapter) Handle(ctx context.Context, req Request) (resp any) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("request %q panicked: %v", req.Method, p)
			resp = ErrorResponse{Error: fmt.Sprint(p)}
		}
	}()

	switch req.Method {
	case MethodToolsList:
		return ListResult{Tools: a.registry.List()}
	case MethodToolsCall:
		var params CallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return ErrorResponse{Error: "invalid params: " + err.Error()}
			}
		}
		return a.registry.Call(ctx, params.Name, params.Arguments)
	default:
		return ErrorResponse{Error: "unknown method: " + req.Method}
	}
}
