package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/metrics"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	defaultMaxResults = 5
	snippetLength     = 200
)

// SearchService answers queries from the primary index, degrading to a
// scan of the document store when the index fails.
type SearchService struct {
	index      driven.SearchIndex
	blobs      driven.BlobStore
	prefix     string
	maxResults int
}

// NewSearchService creates a new search service.
// The index parameter is optional (can be nil); every search then scans the store.
func NewSearchService(index driven.SearchIndex, blobs driven.BlobStore, prefix string, maxResults int) *SearchService {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &SearchService{
		index:      index,
		blobs:      blobs,
		prefix:     prefix,
		maxResults: maxResults,
	}
}

// Search returns at most maxResults hits. Primary index failures are logged
// and answered by the fallback scanner, never returned.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) (*domain.SearchResults, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	results := &domain.SearchResults{Query: query, Hits: []domain.SearchHit{}, Path: domain.SearchPathPrimary}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return results, nil
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	hits, err := s.tryPrimary(ctx, query, maxResults)
	if err == nil {
		logger.Debug("Primary index returned %d hits", len(hits))
		results.Hits = hits
		return results, nil
	}

	logger.Warn("search degraded, scanning store: %v", err)
	metrics.SearchDegraded()

	hits, err = s.fallbackScan(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fallback scan returned %d hits", len(hits))
	results.Hits = hits
	results.Path = domain.SearchPathFallback
	return results, nil
}

// tryPrimary returns the mapped index hits, or an error meaning the caller
// must degrade.
func (s *SearchService) tryPrimary(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if s.index == nil {
		return nil, domain.ErrSearchUnavailable
	}

	raw, err := s.index.Search(ctx, query, limit)
	if err != nil {
		if errors.Is(err, domain.ErrSearchUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	hits := make([]domain.SearchHit, 0, len(raw))
	for _, h := range raw {
		hits = append(hits, domain.SearchHit{
			DocumentID:     docIDFromName(h.DocumentName),
			Name:           h.Fields[driven.FieldProductName],
			Summary:        h.Fields[driven.FieldSummary],
			Snippet:        h.Snippet,
			CreatedAt:      h.Fields[driven.FieldCreatedAt],
			RelevanceScore: h.Score,
		})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// fallbackScan walks canonical objects, matching the query case-insensitively
// against name and summary tags. Order is the store's enumeration order.
func (s *SearchService) fallbackScan(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	needle := strings.ToLower(query)
	hits := []domain.SearchHit{}

	err := s.blobs.Walk(ctx, s.prefix, func(info driven.ObjectInfo) error {
		if !strings.HasSuffix(info.Key, markdownExt) {
			return nil
		}

		name := info.Metadata[domain.MetaProductName]
		summary := info.Metadata[domain.MetaSummary]
		if !strings.Contains(strings.ToLower(name), needle) && !strings.Contains(strings.ToLower(summary), needle) {
			return nil
		}

		doc := documentFromMetadata(idFromKey(s.prefix, info.Key), info.Metadata)
		hits = append(hits, domain.SearchHit{
			DocumentID:     doc.ID,
			Name:           doc.Name,
			Summary:        summary,
			Snippet:        truncateRunes(summary, snippetLength, ""),
			CreatedAt:      info.Metadata[domain.MetaCreatedAt],
			RelevanceScore: domain.FallbackScore,
		})
		if len(hits) >= limit {
			return driven.ErrStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, driven.ErrStopWalk) {
		return nil, &domain.StorageError{Op: "scan", Err: err}
	}
	return hits, nil
}
