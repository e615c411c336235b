package driven

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// Structured field names shared by index backends.
const (
	FieldProductName = domain.MetaProductName
	FieldSummary     = domain.MetaSummary
	FieldCreatedAt   = domain.MetaCreatedAt
)

// SearchIndex is the primary full-text index.
// It is a best-effort accelerator, never the source of truth.
type SearchIndex interface {
	// Search returns at most limit hits for the literal query.
	Search(ctx context.Context, query string, limit int) ([]IndexHit, error)
}

// IndexHit is a raw hit from an index backend.
type IndexHit struct {
	// DocumentName is the backend's identifier, e.g. a resource name or object key.
	DocumentName string

	// Fields holds structured fields such as product_name, summary and created_at.
	Fields map[string]string

	// Snippet is the derived snippet, empty when the backend has none.
	Snippet string

	// Score is the ranking signal, 0 when the backend exposes none.
	Score float64
}

// DocumentIndexer accepts documents into a locally maintained index.
type DocumentIndexer interface {
	// IndexDocument adds or replaces a document in the index.
	IndexDocument(ctx context.Context, doc domain.Document) error
}
