package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/metrics"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

const (
	markdownExt         = ".md"
	htmlExt             = ".html"
	markdownContentType = "text/markdown; charset=utf-8"
)

// DocumentService stores documents in two representations and reads them back.
type DocumentService struct {
	blobs    driven.BlobStore
	renderer driven.Renderer
	indexer  driven.DocumentIndexer
	prefix   string

	now    func() time.Time
	suffix func() string
}

// NewDocumentService creates a new document service.
// Every key is written under prefix, e.g. "prds/".
func NewDocumentService(blobs driven.BlobStore, renderer driven.Renderer, prefix string) *DocumentService {
	return &DocumentService{
		blobs:    blobs,
		renderer: renderer,
		prefix:   prefix,
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

// SetIndexer sets the optional indexer fed after each successful store.
func (s *DocumentService) SetIndexer(indexer driven.DocumentIndexer) {
	s.indexer = indexer
}

// Store validates the input, derives id and summary, and writes the
// canonical object followed by the rendered object.
func (s *DocumentService) Store(
	ctx context.Context, name, content string, metadata map[string]string,
) (*domain.StoredDocument, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("product_name")
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("content")
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	doc := domain.Document{
		Name:      name,
		Content:   content,
		Summary:   ExtractSummary(content),
		CreatedAt: createdAt,
		Metadata:  make(map[string]string, len(metadata)+4),
	}
	for k, v := range metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata[domain.MetaProductName] = name
	doc.Metadata[domain.MetaCreatedAt] = createdAt.Format(time.RFC3339)
	doc.Metadata[domain.MetaSummary] = doc.Summary

	mdKey, err := s.writeCanonical(ctx, &doc)
	if err != nil {
		metrics.StorageError(domain.RepresentationMarkdown)
		return nil, err
	}

	htmlKey := s.prefix + doc.ID + htmlExt
	if err := s.writeRendered(ctx, &doc, htmlKey); err != nil {
		metrics.StorageError(domain.RepresentationHTML)
		logger.Error("document %s stored without rendered representation: %v", doc.ID, err)
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexDocument(ctx, doc); err != nil {
			logger.Warn("index document %s: %v", doc.ID, err)
		}
	}

	metrics.DocumentStored()
	logger.Info("stored document %s", doc.ID)

	return &domain.StoredDocument{
		Document:    doc,
		MarkdownURI: s.blobs.URI(mdKey),
		HTMLURI:     s.blobs.URI(htmlKey),
		HTMLURL:     s.blobs.PublicURL(htmlKey),
	}, nil
}

// writeCanonical claims an id with a create-only write, adding a random
// suffix whenever the derived id is already taken.
func (s *DocumentService) writeCanonical(ctx context.Context, doc *domain.Document) (string, error) {
	base := baseID(doc.Name, doc.CreatedAt)

	var key string
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		doc.ID = base
		if attempt > 0 {
			doc.ID = base + "_" + s.suffix()
		}
		doc.Metadata[domain.MetaDocumentID] = doc.ID
		key = s.prefix + doc.ID + markdownExt

		err = s.blobs.Put(ctx, driven.Object{
			Key:         key,
			Data:        []byte(doc.Content),
			ContentType: markdownContentType,
			Metadata:    doc.Metadata,
		}, driven.PutOptions{IfNotExists: true})
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			break
		}
		logger.Debug("document id %s taken, retrying with suffix", doc.ID)
	}

	return "", &domain.StorageError{
		Op:             "write",
		Representation: domain.RepresentationMarkdown,
		Key:            key,
		Err:            err,
	}
}

func (s *DocumentService) writeRendered(ctx context.Context, doc *domain.Document, key string) error {
	body, err := s.renderer.Render(doc.Name, doc.Content)
	if err != nil {
		return &domain.StorageError{Op: "render", Representation: domain.RepresentationHTML, Key: key, Err: err}
	}

	err = s.blobs.Put(ctx, driven.Object{
		Key:         key,
		Data:        body,
		ContentType: s.renderer.ContentType(),
		Metadata:    doc.Metadata,
	}, driven.PutOptions{})
	if err != nil {
		return &domain.StorageError{Op: "write", Representation: domain.RepresentationHTML, Key: key, Err: err}
	}
	return nil
}

// Get reads the canonical object and its metadata. The rendered object is never consulted.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.RetrievedDocument, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("prd_id")
	}
	if !validID(id) {
		return nil, &domain.NotFoundError{ID: id}
	}

	key := s.prefix + id + markdownExt
	obj, err := s.blobs.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		metrics.StorageError(domain.RepresentationMarkdown)
		return nil, &domain.StorageError{Op: "read", Representation: domain.RepresentationMarkdown, Key: key, Err: err}
	}

	doc := documentFromMetadata(id, obj.Metadata)
	doc.Content = string(obj.Data)

	return &domain.RetrievedDocument{Document: doc, URI: s.blobs.URI(key)}, nil
}

// List returns every stored document without content, ordered by id.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.blobs.Walk(ctx, s.prefix, func(info driven.ObjectInfo) error {
		if !strings.HasSuffix(info.Key, markdownExt) {
			return nil
		}
		docs = append(docs, documentFromMetadata(idFromKey(s.prefix, info.Key), info.Metadata))
		return nil
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// documentFromMetadata rebuilds the document fields carried in metadata tags.
func documentFromMetadata(id string, meta map[string]string) domain.Document {
	name := meta[domain.MetaProductName]
	if name == "" {
		name = domain.UnknownName
	}

	var createdAt time.Time
	if v := meta[domain.MetaCreatedAt]; v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			createdAt = t
		}
	}

	return domain.Document{
		ID:        id,
		Name:      name,
		Summary:   meta[domain.MetaSummary],
		Metadata:  meta,
		CreatedAt: createdAt,
	}
}

// validID reports whether id names a single key element under the prefix.
// Dots inside an id are allowed; separators and the dot elements are not.
func validID(id string) bool {
	return !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func idFromKey(prefix, key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), markdownExt)
}
