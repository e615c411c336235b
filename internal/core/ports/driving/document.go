package driving

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// DocumentService stores and reads documents.
type DocumentService interface {
	// Store validates, derives the id and summary, and writes both representations.
	// A failed rendered write is reported as a *domain.StorageError naming "html".
	Store(ctx context.Context, name, content string, metadata map[string]string) (*domain.StoredDocument, error)

	// Get reads the canonical representation and its metadata.
	// Returns a *domain.NotFoundError if the id is unknown.
	Get(ctx context.Context, id string) (*domain.RetrievedDocument, error)

	// List returns every stored document without content.
	List(ctx context.Context) ([]domain.Document, error)
}
