package tools

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/services"
)

type htmlRenderer struct{}

func (htmlRenderer) Render(title, markdown string) ([]byte, error) {
	return []byte("<h1>" + title + "</h1>" + markdown), nil
}

func (htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }

type testEnv struct {
	blobs *memory.BlobStore
	deps  Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	blobs := memory.NewBlobStore()
	return &testEnv{
		blobs: blobs,
		deps: Deps{
			Documents:     services.NewDocumentService(blobs, htmlRenderer{}, "prds/"),
			Search:        services.NewSearchService(nil, blobs, "prds/", 5),
			Confirmations: services.NewConfirmationGate(memory.NewConfirmationStore(), time.Minute),
		},
	}
}

// panicTool panics on every call.
type panicTool struct{}

func (panicTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{Name: "explode", InputSchema: domain.InputSchema{Type: "object"}}
}

func (panicTool) Call(context.Context, Arguments) (any, error) {
	panic("kaboom")
}

// echoTool returns its arguments.
type echoTool struct{ name string }

func (e echoTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name: e.name,
		InputSchema: domain.InputSchema{
			Type: "object",
			Properties: map[string]domain.SchemaProperty{
				"text":  {Type: "string"},
				"count": {Type: "integer"},
				"flag":  {Type: "boolean"},
				"extra": {Type: "object"},
			},
			Required: []string{"text"},
		},
	}
}

func (e echoTool) Call(_ context.Context, args Arguments) (any, error) {
	return map[string]any(args), nil
}
