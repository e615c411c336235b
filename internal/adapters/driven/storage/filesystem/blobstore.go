package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// metaDir holds the YAML sidecars, relative to the store root.
const metaDir = ".meta"

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore stores objects as files under a root directory.
type BlobStore struct {
	root string
}

// sidecar is the on-disk shape of an object's metadata file.
type sidecar struct {
	ContentType string            `yaml:"content_type,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// NewBlobStore creates a store rooted at dir, creating it if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		return nil, domain.NewValidationError("storage.dir")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, metaDir), 0755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &BlobStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *BlobStore) Root() string {
	return s.root
}

// Put writes the object file and then its sidecar.
// With IfNotExists the object file is claimed first so a losing writer never touches the sidecar.
func (s *BlobStore) Put(ctx context.Context, obj driven.Object, opts driven.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dataPath, metaPath, err := s.paths(obj.Key)
	if err != nil {
		return err
	}

	meta, err := yaml.Marshal(sidecar{ContentType: obj.ContentType, Metadata: obj.Metadata})
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	if opts.IfNotExists {
		if err := createFileAtomic(dataPath, obj.Data, 0644); err != nil {
			return err
		}
	} else if err := writeFileAtomic(dataPath, obj.Data, 0644); err != nil {
		return err
	}

	return writeFileAtomic(metaPath, meta, 0644)
}

// Get reads an object file and its sidecar. A missing sidecar yields no metadata.
func (s *BlobStore) Get(ctx context.Context, key string) (*driven.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	data, err := os.ReadFile(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	meta, err := readSidecar(metaPath)
	if err != nil {
		return nil, err
	}
	return &driven.Object{
		Key:         key,
		Data:        data,
		ContentType: meta.ContentType,
		Metadata:    meta.Metadata,
	}, nil
}

// Exists reports whether the object file exists.
func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	dataPath, _, err := s.paths(key)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

// Walk enumerates object files whose key starts with prefix, in key order.
func (s *BlobStore) Walk(ctx context.Context, prefix string, fn driven.WalkFunc) error {
	var keys []string
	err := doublestar.GlobWalk(os.DirFS(s.root), "**", func(p string, d fs.DirEntry) error {
		if d.IsDir() || p == metaDir || strings.HasPrefix(p, metaDir+"/") {
			return nil
		}
		if strings.HasPrefix(path.Base(p), tempFilePrefix) || !strings.HasPrefix(p, prefix) {
			return nil
		}
		keys = append(keys, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", s.root, err)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := s.info(key)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
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

// URI returns a file:// locator for the object file.
func (s *BlobStore) URI(key string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.root, filepath.FromSlash(key)))}
	return u.String()
}

// PublicURL returns the same locator as URI.
func (s *BlobStore) PublicURL(key string) string {
	return s.URI(key)
}

func (s *BlobStore) info(key string) (driven.ObjectInfo, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return driven.ObjectInfo{}, err
	}
	stat, err := os.Stat(dataPath)
	if err != nil {
		return driven.ObjectInfo{}, err
	}
	meta, err := readSidecar(metaPath)
	if err != nil {
		return driven.ObjectInfo{}, err
	}
	return driven.ObjectInfo{Key: key, Size: stat.Size(), Metadata: meta.Metadata}, nil
}

// paths maps a slash-separated key to its object and sidecar paths.
// Keys that escape the root, or that point into the sidecar directory, are rejected.
func (s *BlobStore) paths(key string) (string, string, error) {
	local := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(local) || key == metaDir || strings.HasPrefix(key, metaDir+"/") {
		return "", "", &domain.ValidationError{Field: "key", Reason: "must be a relative path inside the store"}
	}
	return filepath.Join(s.root, local), filepath.Join(s.root, metaDir, local+".yaml"), nil
}

func readSidecar(p string) (sidecar, error) {
	var meta sidecar
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("read metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata %s: %w", p, err)
	}
	return meta, nil
}
