package mcp

import (
	"testing"
	"time"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/services"
	"github.com/custodia-labs/prdstore/internal/tools"
)

type plainRenderer struct{}

func (plainRenderer) Render(title, markdown string) ([]byte, error) {
	return []byte("<h1>" + title + "</h1>" + markdown), nil
}

func (plainRenderer) ContentType() string { return "text/html; charset=utf-8" }

// newTestPorts wires the built-in tools over memory stores.
func newTestPorts(t *testing.T, requireConfirmation bool) *Ports {
	t.Helper()
	blobs := memory.NewBlobStore()
	docs := services.NewDocumentService(blobs, plainRenderer{}, "prds/")
	registry := tools.NewDefault(tools.Deps{
		Documents:     docs,
		Search:        services.NewSearchService(nil, blobs, "prds/", 5),
		Confirmations: services.NewConfirmationGate(memory.NewConfirmationStore(), time.Minute),
	}, tools.Options{RequireConfirmation: requireConfirmation})

	return &Ports{Tools: registry, Documents: docs}
}
