package driving

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search queries the primary index and falls back to scanning the store.
	// Primary index errors are never returned.
	Search(ctx context.Context, query string, maxResults int) (*domain.SearchResults, error)
}
