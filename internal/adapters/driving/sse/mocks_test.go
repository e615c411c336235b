package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/services"
	"github.com/custodia-labs/prdstore/internal/tools"
)

type plainRenderer struct{}

func (plainRenderer) Render(title, markdown string) ([]byte, error) {
	return []byte("<h1>" + title + "</h1>" + markdown), nil
}

func (plainRenderer) ContentType() string { return "text/html; charset=utf-8" }

// panicTool panics on every call.
type panicTool struct{}

func (panicTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{Name: "explode", InputSchema: domain.InputSchema{Type: "object"}}
}

func (panicTool) Call(context.Context, tools.Arguments) (any, error) {
	panic("kaboom")
}

func newTestRegistry(t *testing.T, requireConfirmation bool) *tools.Registry {
	t.Helper()
	blobs := memory.NewBlobStore()
	return tools.NewDefault(tools.Deps{
		Documents:     services.NewDocumentService(blobs, plainRenderer{}, "prds/"),
		Search:        services.NewSearchService(nil, blobs, "prds/", 5),
		Confirmations: services.NewConfirmationGate(memory.NewConfirmationStore(), time.Minute),
	}, tools.Options{RequireConfirmation: requireConfirmation})
}

func newTestAdapter(t *testing.T, requireConfirmation bool) *Adapter {
	t.Helper()
	a, err := NewAdapter(newTestRegistry(t, requireConfirmation))
	require.NoError(t, err)
	return a
}
