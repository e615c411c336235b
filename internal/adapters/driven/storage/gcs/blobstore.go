package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/google"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// Scope is the OAuth2 scope the store needs.
const Scope = storage.DevstorageReadWriteScope

// DefaultPublicBaseURL serves objects of public buckets.
const DefaultPublicBaseURL = "https://storage.googleapis.com"

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// Config holds the bucket settings.
type Config struct {
	Bucket        string
	PublicBaseURL string
}

// BlobStore stores objects in a Cloud Storage bucket.
type BlobStore struct {
	svc     *storage.Service
	bucket  string
	baseURL string
}

// NewBlobStore creates a store for cfg.Bucket. opts are passed to storage.NewService.
func NewBlobStore(ctx context.Context, cfg Config, opts ...option.ClientOption) (*BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, domain.NewValidationError("storage.bucket")
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultPublicBaseURL
	}
	return &BlobStore{svc: svc, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Put uploads an object with its metadata in one multipart request.
func (s *BlobStore) Put(ctx context.Context, obj driven.Object, opts driven.PutOptions) error {
	call := s.svc.Objects.Insert(s.bucket, &storage.Object{
		Name:        obj.Key,
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata,
	}).Media(bytes.NewReader(obj.Data), googleapi.ContentType(obj.ContentType)).Context(ctx)

	if opts.IfNotExists {
		call = call.IfGenerationMatch(0)
	}

	if _, err := call.Do(); err != nil {
		if opts.IfNotExists && google.IsPreconditionFailed(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("upload gs://%s/%s: %w", s.bucket, obj.Key, google.WrapError(err))
	}
	return nil
}

// Get reads an object's metadata and then its data.
func (s *BlobStore) Get(ctx context.Context, key string) (*driven.Object, error) {
	attrs, err := s.svc.Objects.Get(s.bucket, key).Context(ctx).Do()
	if err != nil {
		if google.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("stat gs://%s/%s: %w", s.bucket, key, google.WrapError(err))
	}

	resp, err := s.svc.Objects.Get(s.bucket, key).Context(ctx).Download()
	if err != nil {
		if google.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("download gs://%s/%s: %w", s.bucket, key, google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", s.bucket, key, err)
	}

	return &driven.Object{
		Key:         key,
		Data:        data,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
	}, nil
}

// Exists reports whether an object exists.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.svc.Objects.Get(s.bucket, key).Fields("name").Context(ctx).Do()
	if err == nil {
		return true, nil
	}
	if google.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat gs://%s/%s: %w", s.bucket, key, google.WrapError(err))
}

// Walk lists objects under prefix page by page. Cloud Storage lists in lexical order.
func (s *BlobStore) Walk(ctx context.Context, prefix string, fn driven.WalkFunc) error {
	err := s.svc.Objects.List(s.bucket).Prefix(prefix).Pages(ctx, func(page *storage.Objects) error {
		for _, item := range page.Items {
			if err := fn(driven.ObjectInfo{
				Key:      item.Name,
				Size:     int64(item.Size),
				Metadata: item.Metadata,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, driven.ErrStopWalk) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list gs://%s/%s: %w", s.bucket, prefix, google.WrapError(err))
	}
	return nil
}

// URI returns the gs:// locator for a key.
func (s *BlobStore) URI(key string) string {
	return "gs://" + s.bucket + "/" + key
}

// PublicURL returns the HTTP locator of a key in a publicly readable bucket.
// Each key segment is path-escaped so characters such as '#' and '?' stay in the path.
func (s *BlobStore) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + url.PathEscape(s.bucket) + "/" + strings.Join(segments, "/")
}
