package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/google"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/render/markdown"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/search/bleve"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/search/discoveryengine"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/gcs"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/core/services"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/tools"
)

// application holds the services shared by every command.
type application struct {
	settings      *domain.Settings
	documents     driving.DocumentService
	search        driving.SearchService
	confirmations driving.ConfirmationGate
	registry      *tools.Registry

	// indexer is nil unless the primary index can be fed locally.
	indexer driven.DocumentIndexer

	closers []io.Closer
}

// newApplication wires storage, search and the confirmation gate from settings.
func newApplication(ctx context.Context, settings *domain.Settings) (*application, error) {
	a := &application{settings: settings}

	var db *sqlite.Store
	openDB := func() (*sqlite.Store, error) {
		if db != nil {
			return db, nil
		}
		s, err := sqlite.NewStore(settings.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		db = s
		a.closers = append(a.closers, s)
		return s, nil
	}

	blobs, err := a.openBlobStore(ctx, openDB)
	if err != nil {
		a.Close() //nolint:errcheck
		return nil, err
	}

	docs := services.NewDocumentService(blobs, markdown.NewRenderer(), settings.Storage.Prefix)
	index := a.openSearchIndex(ctx)
	if a.indexer != nil {
		docs.SetIndexer(a.indexer)
	}

	var confirmations driven.ConfirmationStore
	switch settings.Confirmation.Store {
	case "sqlite":
		s, err := openDB()
		if err != nil {
			a.Close() //nolint:errcheck
			return nil, err
		}
		confirmations = s.ConfirmationStore()
	default:
		confirmations = memory.NewConfirmationStore()
	}

	a.documents = docs
	a.search = services.NewSearchService(index, blobs, settings.Storage.Prefix, settings.Search.MaxResults)
	a.confirmations = services.NewConfirmationGate(confirmations, settings.Confirmation.TTL)
	a.registry = tools.NewDefault(tools.Deps{
		Documents:     a.documents,
		Search:        a.search,
		Confirmations: a.confirmations,
	}, tools.Options{
		RequireConfirmation: settings.Confirmation.Required,
		MaxResults:          settings.Search.MaxResults,
		PreviewLength:       settings.Confirmation.PreviewLength,
	})

	logger.Debug("storage=%s search=%s confirmation=%t",
		settings.Storage.Backend, settings.Search.Backend, settings.Confirmation.Required)
	return a, nil
}

func (a *application) openBlobStore(ctx context.Context, openDB func() (*sqlite.Store, error)) (driven.BlobStore, error) {
	st := a.settings.Storage
	switch st.Backend {
	case domain.StorageMemory:
		return memory.NewBlobStore(), nil
	case domain.StorageFilesystem:
		return filesystem.NewBlobStore(st.Dir)
	case domain.StorageSQLite:
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		return db.BlobStore(), nil
	case domain.StorageGCS:
		opts, err := google.ClientOptions(ctx, a.settings.Google, gcs.Scope)
		if err != nil {
			return nil, fmt.Errorf("google credentials: %w", err)
		}
		return gcs.NewBlobStore(ctx, gcs.Config{Bucket: st.Bucket, PublicBaseURL: st.PublicBaseURL}, opts...)
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, st.Backend)
	}
}

// openSearchIndex returns the primary index, or nil when none is configured
// or it cannot be opened. Search then always uses the fallback scanner.
func (a *application) openSearchIndex(ctx context.Context) driven.SearchIndex {
	sc := a.settings.Search
	switch sc.Backend {
	case domain.SearchBleve:
		idx, err := bleve.NewIndex(sc.IndexDir)
		if err != nil {
			logger.Warn("bleve index unavailable, using store scan: %v", err)
			return nil
		}
		a.indexer = idx
		a.closers = append(a.closers, idx)
		return idx
	case domain.SearchDiscoveryEngine:
		opts, err := google.ClientOptions(ctx, a.settings.Google, discoveryengine.Scope)
		if err != nil {
			logger.Warn("discovery engine credentials unavailable, using store scan: %v", err)
			return nil
		}
		idx, err := discoveryengine.NewIndex(ctx, discoveryengine.Config{
			ProjectID:     a.settings.Google.ProjectID,
			Location:      sc.Location,
			EngineID:      sc.EngineID,
			ServingConfig: sc.ServingConfig,
		}, opts...)
		if err != nil {
			logger.Warn("discovery engine unavailable, using store scan: %v", err)
			return nil
		}
		return idx
	default:
		return nil
	}
}

// Close releases every opened backend.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
