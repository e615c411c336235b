package driven

import (
	"context"
	"errors"
)

// ErrStopWalk may be returned by a WalkFunc to end a walk early without error.
var ErrStopWalk = errors.New("stop walk")

// Object is a stored blob with its attached metadata tags.
type Object struct {
	Key         string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored blob without its data.
type ObjectInfo struct {
	Key      string
	Size     int64
	Metadata map[string]string
}

// PutOptions controls a single Put.
type PutOptions struct {
	// IfNotExists makes the write create-only. An existing key yields domain.ErrAlreadyExists.
	IfNotExists bool
}

// WalkFunc is called for each object under a prefix.
// Returning ErrStopWalk ends the walk; any other error aborts it.
type WalkFunc func(info ObjectInfo) error

// BlobStore persists objects by key.
// Implementations: memory, filesystem, sqlite, gcs.
type BlobStore interface {
	// Put writes an object. Each call is individually durable.
	Put(ctx context.Context, obj Object, opts PutOptions) error

	// Get reads an object and its metadata.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (*Object, error)

	// Exists reports whether a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Walk enumerates objects whose key starts with prefix.
	// Enumeration order is backend-specific.
	Walk(ctx context.Context, prefix string, fn WalkFunc) error

	// URI returns the backend locator for a key, e.g. gs://bucket/key.
	URI(key string) string

	// PublicURL returns a publicly resolvable locator for a key.
	PublicURL(key string) string
}
