package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore.
// Walk enumerates keys in lexical order.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]driven.Object

	// FailPut, when set, is consulted before every Put and may inject an error.
	FailPut func(key string) error
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		objects: make(map[string]driven.Object),
	}
}

// Put writes an object, honouring IfNotExists.
func (s *BlobStore) Put(ctx context.Context, obj driven.Object, opts driven.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.FailPut != nil {
		if err := s.FailPut(obj.Key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[obj.Key]; exists && opts.IfNotExists {
		return domain.ErrAlreadyExists
	}
	s.objects[obj.Key] = copyObject(obj)
	return nil
}

// Get reads an object.
func (s *BlobStore) Get(_ context.Context, key string) (*driven.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyObject(obj)
	return &out, nil
}

// Exists reports whether a key exists.
func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Walk calls fn for every key under prefix. fn runs without the lock held.
func (s *BlobStore) Walk(ctx context.Context, prefix string, fn driven.WalkFunc) error {
	s.mu.RLock()
	infos := make([]driven.ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, driven.ObjectInfo{
				Key:      key,
				Size:     int64(len(obj.Data)),
				Metadata: copyMetadata(obj.Metadata),
			})
		}
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(info); err != nil {
			if errors.Is(err, driven.ErrStopWalk) {
				return nil
			}
			return err
		}
	}
	return nil
}

// URI returns a mem:// locator.
func (s *BlobStore) URI(key string) string {
	return "mem://" + key
}

// PublicURL returns the same locator as URI; memory objects are not served.
func (s *BlobStore) PublicURL(key string) string {
	return s.URI(key)
}

// Len returns the number of stored objects.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func copyObject(obj driven.Object) driven.Object {
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	obj.Data = data
	obj.Metadata = copyMetadata(obj.Metadata)
	return obj
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
