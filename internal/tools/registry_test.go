package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool{name: "b"}))
	require.NoError(t, r.Register(echoTool{name: "a"}))

	err := r.Register(echoTool{name: "a"})
	assert.ErrorIs(t, err, ErrDuplicateTool)

	defs := r.List()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name, "registration order is kept")
	assert.Equal(t, "a", defs[1].Name)
}

func TestRegistry_CallUnknown(t *testing.T) {
	res := NewRegistry().Call(context.Background(), "not_a_tool", map[string]any{})

	assert.True(t, res.IsError())
	assert.Equal(t, "unknown tool: not_a_tool", res.Error)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"unknown tool: not_a_tool"}`, string(data))
}

func TestRegistry_CallSuccessEnvelope(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool{name: "echo"}))

	res := r.Call(context.Background(), "echo", map[string]any{"text": "hi"})
	require.False(t, res.IsError(), res.Error)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.JSONEq(t, `{"text":"hi"}`, res.Text())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"error"`)
}

func TestRegistry_Validation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool{name: "echo"}))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"absent", map[string]any{}, "missing required argument: text"},
		{"nil args", nil, "missing required argument: text"},
		{"null", map[string]any{"text": nil}, "missing required argument: text"},
		{"empty string", map[string]any{"text": ""}, "missing required argument: text"},
		{"wrong type", map[string]any{"text": 3.0}, "invalid argument: text must be a string"},
		{"bad integer", map[string]any{"text": "x", "count": "3"}, "invalid argument: count must be a number"},
		{"bad boolean", map[string]any{"text": "x", "flag": "yes"}, "invalid argument: flag must be a boolean"},
		{"bad object", map[string]any{"text": "x", "extra": []any{}}, "invalid argument: extra must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Call(context.Background(), "echo", tt.args)
			assert.Equal(t, tt.want, res.Error)
		})
	}
}

func TestRegistry_RecoversPanics(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(panicTool{}))

	res := r.Call(context.Background(), "explode", nil)
	assert.Equal(t, "tool execution failed: kaboom", res.Error)
}

func TestStringifyMetadata(t *testing.T) {
	out, err := stringifyMetadata(map[string]any{
		"author":  "pat",
		"version": 2.0,
		"draft":   true,
		"tags":    []any{"a", "b"},
		"none":    nil,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"author":  "pat",
		"version": "2",
		"draft":   "true",
		"tags":    `["a","b"]`,
		"none":    "",
	}, out)
}
