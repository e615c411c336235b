package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/metrics"
)

// Tool is a named, schema-described operation.
type Tool interface {
	// Definition returns the immutable tool description.
	Definition() domain.ToolDefinition

	// Call runs the tool. Arguments have already passed schema validation.
	Call(ctx context.Context, args Arguments) (any, error)
}

// TextContent is one content block of a successful result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the wire envelope of a tool call.
// Exactly one of Content and Error is set.
type Result struct {
	Content []TextContent `json:"content,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// IsError reports whether the call failed.
func (r Result) IsError() bool {
	return r.Error != ""
}

// Text returns the text of the first content block.
func (r Result) Text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// ErrorResult wraps err in the failure envelope.
func ErrorResult(err error) Result {
	return Result{Error: err.Error()}
}

// Registry holds tools in registration order and dispatches calls to them.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t Tool) error {
	name := t.Definition().Name
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// List returns tool definitions in registration order.
func (r *Registry) List() []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]domain.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Lookup returns a registered tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Invoke validates args against the tool's schema and runs it, returning the
// raw result. A panicking handler is reported as an error.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result any, err error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, unknownTool(name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := validate(t.Definition().InputSchema, args); err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("tool %s panicked: %v", name, p)
			result, err = nil, fmt.Errorf("tool execution failed: %v", p)
		}
	}()
	return t.Call(ctx, args)
}

// Call invokes a tool and wraps the outcome in the wire envelope.
// Every error, including unknown tools, becomes {"error": <message>}.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) Result {
	start := time.Now()

	res, err := r.Invoke(ctx, name, args)
	if err == nil {
		var text []byte
		text, err = json.MarshalIndent(res, "", "  ")
		if err == nil {
			r.observe(name, "ok", start)
			return Result{Content: []TextContent{{Type: "text", Text: string(text)}}}
		}
		err = fmt.Errorf("encode result: %w", err)
	}

	r.observe(name, "error", start)
	logger.Warn("tool %s failed: %v", name, err)
	return ErrorResult(err)
}

func (r *Registry) observe(name, outcome string, start time.Time) {
	label := name
	if _, ok := r.Lookup(name); !ok {
		label = "unknown"
	}
	metrics.ToolCall(label, outcome, time.Since(start))
	logger.Info("tool %s: %s", name, outcome)
}
