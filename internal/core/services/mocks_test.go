package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// stubRenderer wraps markdown in a fixed page.
type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(title, markdown string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("<html><title>" + title + "</title>" + markdown + "</html>"), nil
}

func (r *stubRenderer) ContentType() string { return "text/html; charset=utf-8" }

// stubIndex returns canned hits or an error.
type stubIndex struct {
	hits []driven.IndexHit
	err  error

	mu      sync.Mutex
	queries []string
}

func (i *stubIndex) Search(_ context.Context, query string, _ int) ([]driven.IndexHit, error) {
	i.mu.Lock()
	i.queries = append(i.queries, query)
	i.mu.Unlock()
	if i.err != nil {
		return nil, i.err
	}
	return i.hits, nil
}

// recordingIndexer remembers indexed documents.
type recordingIndexer struct {
	mu   sync.Mutex
	docs []domain.Document
	err  error
}

func (r *recordingIndexer) IndexDocument(_ context.Context, doc domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	return r.err
}

var errBackend = errors.New("backend unavailable")
