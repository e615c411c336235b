package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDocumentService(blobs *memory.BlobStore) *DocumentService {
	svc := NewDocumentService(blobs, &stubRenderer{}, "prds/")
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDocumentService_StoreAndGet(t *testing.T) {
	blobs := memory.NewBlobStore()
	svc := newTestDocumentService(blobs)
	ctx := context.Background()

	content := "# Widget Tracker\n## Problem Statement\nA.\nB.\n"
	stored, err := svc.Store(ctx, "Widget Tracker", content, map[string]string{"author": "pat"})
	require.NoError(t, err)

	assert.Equal(t, "widget_tracker_1709294400", stored.ID)
	assert.Equal(t, "A. B.", stored.Summary)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	assert.Equal(t, "mem://prds/widget_tracker_1709294400.md", stored.MarkdownURI)
	assert.Equal(t, "mem://prds/widget_tracker_1709294400.html", stored.HTMLURI)
	assert.NotEmpty(t, stored.HTMLURL)
	assert.Equal(t, 2, blobs.Len())

	html, err := blobs.Get(ctx, "prds/widget_tracker_1709294400.html")
	require.NoError(t, err)
	assert.Contains(t, string(html.Data), "<title>Widget Tracker</title>")
	assert.Equal(t, "widget_tracker_1709294400", html.Metadata[domain.MetaDocumentID])

	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, "Widget Tracker", got.Name)
	assert.Equal(t, "A. B.", got.Summary)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, "pat", got.Metadata["author"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got.Metadata[domain.MetaCreatedAt])
	assert.Equal(t, "mem://prds/widget_tracker_1709294400.md", got.URI)
}

func TestDocumentService_StoreAndGet_DottedNames(t *testing.T) {
	tests := []struct {
		name   string
		wantID string
	}{
		{"Release 1..2 Plan", "release_1..2_plan_1709294400"},
		{"Widget...", "widget..._1709294400"},
		{"v2.0 Rollout", "v2.0_rollout_1709294400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestDocumentService(memory.NewBlobStore())
			ctx := context.Background()

			stored, err := svc.Store(ctx, tt.name, "# Problem\nbody", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, stored.ID)

			got, err := svc.Get(ctx, stored.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, "# Problem\nbody", got.Content)
		})
	}
}

func TestDocumentService_ReservedMetadataWins(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())

	stored, err := svc.Store(context.Background(), "Real", "body", map[string]string{
		domain.MetaProductName: "Fake",
		domain.MetaDocumentID:  "fake_id",
	})
	require.NoError(t, err)

	assert.Equal(t, "Real", stored.Metadata[domain.MetaProductName])
	assert.Equal(t, stored.ID, stored.Metadata[domain.MetaDocumentID])
}

func TestDocumentService_StoreValidation(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())

	tests := []struct {
		name, product, content, field string
	}{
		{"missing name", "", "body", "product_name"},
		{"blank name", "   ", "body", "product_name"},
		{"missing content", "Widget", "", "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Store(context.Background(), tt.product, tt.content, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDocumentService_SameInstantDistinctIDs(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())
	ctx := context.Background()

	first, err := svc.Store(ctx, "Widget", "one", nil)
	require.NoError(t, err)
	second, err := svc.Store(ctx, "Widget", "two", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, strings.HasPrefix(second.ID, first.ID+"_"))

	a, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	b, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "one", a.Content)
	assert.Equal(t, "two", b.Content)
}

func TestDocumentService_ConcurrentStores(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := svc.Store(ctx, "Race", "content", nil)
			if err == nil {
				ids[i] = doc.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestDocumentService_SuffixExhausted(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())
	svc.suffix = func() string { return "deadbeef" }
	ctx := context.Background()

	_, err := svc.Store(ctx, "Widget", "one", nil)
	require.NoError(t, err)
	_, err = svc.Store(ctx, "Widget", "two", nil)
	require.NoError(t, err)

	_, err = svc.Store(ctx, "Widget", "three", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestDocumentService_RenderedWriteFails(t *testing.T) {
	blobs := memory.NewBlobStore()
	blobs.FailPut = func(key string) error {
		if strings.HasSuffix(key, ".html") {
			return errBackend
		}
		return nil
	}
	svc := newTestDocumentService(blobs)

	_, err := svc.Store(context.Background(), "Widget", "body", nil)
	require.Error(t, err)

	var serr *domain.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, domain.RepresentationHTML, serr.Representation)
	assert.ErrorIs(t, err, errBackend)

	// The canonical object remains; Get reports the canonical-only state.
	got, err := svc.Get(context.Background(), "widget_1709294400")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
}

func TestDocumentService_CanonicalWriteFails(t *testing.T) {
	blobs := memory.NewBlobStore()
	blobs.FailPut = func(string) error { return errBackend }
	svc := newTestDocumentService(blobs)

	_, err := svc.Store(context.Background(), "Widget", "body", nil)

	var serr *domain.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, domain.RepresentationMarkdown, serr.Representation)
	assert.Equal(t, 0, blobs.Len())
}

func TestDocumentService_RenderFails(t *testing.T) {
	blobs := memory.NewBlobStore()
	svc := NewDocumentService(blobs, &stubRenderer{err: errors.New("bad markdown")}, "prds/")

	_, err := svc.Store(context.Background(), "Widget", "body", nil)

	var serr *domain.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "render", serr.Op)
	assert.Equal(t, domain.RepresentationHTML, serr.Representation)
}

func TestDocumentService_GetNotFound(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())

	for _, id := range []string{"missing_1", "../etc/passwd", "a/b", `a\b`, ".", ".."} {
		_, err := svc.Get(context.Background(), id)
		require.Error(t, err, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}

	_, err := svc.Get(context.Background(), "missing_1")
	assert.EqualError(t, err, "PRD not found: missing_1")
}

func TestDocumentService_GetWithoutRendered(t *testing.T) {
	blobs := memory.NewBlobStore()
	svc := newTestDocumentService(blobs)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, driven.Object{
		Key:  "prds/legacy_1.md",
		Data: []byte("legacy"),
	}, driven.PutOptions{}))

	got, err := svc.Get(ctx, "legacy_1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownName, got.Name)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestDocumentService_Indexer(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())
	idx := &recordingIndexer{err: errors.New("index offline")}
	svc.SetIndexer(idx)

	stored, err := svc.Store(context.Background(), "Widget", "body", nil)
	require.NoError(t, err, "indexing is best-effort")

	require.Len(t, idx.docs, 1)
	assert.Equal(t, stored.ID, idx.docs[0].ID)
}

func TestDocumentService_List(t *testing.T) {
	svc := newTestDocumentService(memory.NewBlobStore())
	ctx := context.Background()

	_, _ = svc.Store(ctx, "Beta", "b", nil)
	_, _ = svc.Store(ctx, "Alpha", "a", nil)

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha_1709294400", docs[0].ID)
	assert.Equal(t, "Alpha", docs[0].Name)
	assert.Empty(t, docs[0].Content)
	assert.Equal(t, "beta_1709294400", docs[1].ID)
}
