package tools

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
)

// Built-in tool names.
const (
	SearchToolName = "search_existing_prds"
	GetToolName    = "get_prd"
	StoreToolName  = "store_prd"
)

// Deps are the services the built-in tools call.
type Deps struct {
	Documents     driving.DocumentService
	Search        driving.SearchService
	Confirmations driving.ConfirmationGate
}

// Options configure NewDefault.
type Options struct {
	// RequireConfirmation registers the gated store_prd instead of the direct one.
	RequireConfirmation bool

	// MaxResults caps search_existing_prds. Zero uses the search service default.
	MaxResults int

	// PreviewLength is the number of content characters in a confirmation preview.
	PreviewLength int
}

// NewDefault returns a registry holding the three built-in tools.
func NewDefault(deps Deps, opts Options) *Registry {
	r := NewRegistry()
	_ = r.Register(&SearchTool{Search: deps.Search, MaxResults: opts.MaxResults})
	_ = r.Register(&GetTool{Documents: deps.Documents})
	if opts.RequireConfirmation {
		_ = r.Register(&GatedStoreTool{
			Documents:     deps.Documents,
			Gate:          deps.Confirmations,
			PreviewLength: opts.PreviewLength,
		})
	} else {
		_ = r.Register(&StoreTool{Documents: deps.Documents})
	}
	return r
}

// SearchTool is search_existing_prds.
type SearchTool struct {
	Search     driving.SearchService
	MaxResults int
}

// SearchOutput is the result of search_existing_prds.
type SearchOutput struct {
	Query        string             `json:"query"`
	ResultsCount int                `json:"results_count"`
	Results      []domain.SearchHit `json:"results"`
}

// Definition implements Tool.
func (t *SearchTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search for existing PRDs using full-text semantic search. Returns list of matching PRDs with summaries.",
		InputSchema: domain.InputSchema{
			Type: "object",
			Properties: map[string]domain.SchemaProperty{
				"query": {Type: "string", Description: "Search query to find similar PRDs"},
			},
			Required: []string{"query"},
		},
	}
}

// Call implements Tool.
func (t *SearchTool) Call(ctx context.Context, args Arguments) (any, error) {
	query := args.String("query")
	res, err := t.Search.Search(ctx, query, t.MaxResults)
	if err != nil {
		return nil, err
	}
	return SearchOutput{Query: query, ResultsCount: len(res.Hits), Results: res.Hits}, nil
}

// GetTool is get_prd.
type GetTool struct {
	Documents driving.DocumentService
}

// Definition implements Tool.
func (t *GetTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        GetToolName,
		Description: "Retrieve the full content of a specific PRD by its ID.",
		InputSchema: domain.InputSchema{
			Type: "object",
			Properties: map[string]domain.SchemaProperty{
				"prd_id": {Type: "string", Description: "The unique identifier of the PRD to retrieve"},
			},
			Required: []string{"prd_id"},
		},
	}
}

// Call implements Tool.
func (t *GetTool) Call(ctx context.Context, args Arguments) (any, error) {
	return t.Documents.Get(ctx, args.String("prd_id"))
}

// StoreTool is the direct store_prd, used when approval was obtained out-of-band.
type StoreTool struct {
	Documents driving.DocumentService
}

func storeProperties() map[string]domain.SchemaProperty {
	return map[string]domain.SchemaProperty{
		"product_name": {Type: "string", Description: "Name of the product"},
		"content":      {Type: "string", Description: "Full PRD content in markdown format"},
		"metadata":     {Type: "object", Description: "Additional metadata for the PRD"},
	}
}

// Definition implements Tool.
func (t *StoreTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        StoreToolName,
		Description: "Store a new PRD to Cloud Storage. Use only after the user has approved saving it.",
		InputSchema: domain.InputSchema{
			Type:       "object",
			Properties: storeProperties(),
			Required:   []string{"product_name", "content"},
		},
	}
}

// Call implements Tool.
func (t *StoreTool) Call(ctx context.Context, args Arguments) (any, error) {
	return store(ctx, t.Documents, args)
}

func store(ctx context.Context, docs driving.DocumentService, args Arguments) (*domain.StoredDocument, error) {
	metadata, err := stringifyMetadata(args.Map("metadata"))
	if err != nil {
		return nil, err
	}
	return docs.Store(ctx, args.String("product_name"), args.String("content"), metadata)
}
