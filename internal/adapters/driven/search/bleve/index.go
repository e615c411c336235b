// Package bleve provides a local full-text SearchIndex on bleve.
//
// The index is fed by the document service after every successful store and
// by "prdstore reindex". An empty path keeps the index in memory.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// fieldContent holds the full document body. It is stored for highlighting only.
const fieldContent = "content"

// Verify interface compliance.
var (
	_ driven.SearchIndex     = (*Index)(nil)
	_ driven.DocumentIndexer = (*Index)(nil)
)

// Index wraps a bleve index of documents keyed by document ID.
type Index struct {
	index bleve.Index
	path  string
}

// indexedDocument is the shape stored in bleve.
type indexedDocument struct {
	ProductName string `json:"product_name"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}

// NewIndex opens the index at path, creating it if missing.
// An empty path creates an in-memory index.
func NewIndex(path string) (*Index, error) {
	m := buildMapping()

	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, m)
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return &Index{index: idx, path: path}, nil
}

func buildMapping() mapping.IndexMapping {
	doc := mapping.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(driven.FieldProductName, mapping.NewTextFieldMapping())
	doc.AddFieldMappingsAt(driven.FieldSummary, mapping.NewTextFieldMapping())
	doc.AddFieldMappingsAt(fieldContent, mapping.NewTextFieldMapping())
	doc.AddFieldMappingsAt(driven.FieldCreatedAt, mapping.NewKeywordFieldMapping())

	m := mapping.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// IndexDocument adds or replaces a document.
func (i *Index) IndexDocument(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := i.index.Index(doc.ID, indexedDocument{
		ProductName: doc.Name,
		Summary:     doc.Summary,
		Content:     doc.Content,
		CreatedAt:   doc.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("index %s: %w", doc.ID, err)
	}
	return nil
}

// Search runs a match query across every indexed field.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]driven.IndexHit, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{driven.FieldProductName, driven.FieldSummary, driven.FieldCreatedAt}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField(fieldContent)

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	hits := make([]driven.IndexHit, 0, len(res.Hits))
	for _, match := range res.Hits {
		fields := make(map[string]string, len(match.Fields))
		for k, v := range match.Fields {
			if s, ok := v.(string); ok {
				fields[k] = s
			}
		}

		var snippet string
		if frags := match.Fragments[fieldContent]; len(frags) > 0 {
			snippet = frags[0]
		}

		hits = append(hits, driven.IndexHit{
			DocumentName: match.ID,
			Fields:       fields,
			Snippet:      snippet,
			Score:        match.Score,
		})
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Path returns the on-disk location, empty for memory indexes.
func (i *Index) Path() string {
	return i.path
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
