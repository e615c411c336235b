package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.BlobStore = (*blobStore)(nil)

// blobStore implements driven.BlobStore using SQLite.
type blobStore struct {
	store *Store
}

// Put writes an object. IfNotExists turns the insert into a create-only write.
func (s *blobStore) Put(ctx context.Context, obj driven.Object, opts driven.PutOptions) error {
	metadata, err := json.Marshal(obj.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if obj.Data == nil {
		obj.Data = []byte{}
	}

	query := `
		INSERT INTO blobs (key, data, content_type, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			content_type = excluded.content_type,
			metadata = excluded.metadata
	`
	if opts.IfNotExists {
		query = `
			INSERT INTO blobs (key, data, content_type, metadata, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(key) DO NOTHING
		`
	}

	res, err := s.store.db.ExecContext(ctx, query,
		obj.Key, obj.Data, obj.ContentType, string(metadata), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("put blob: %w", err)
	}
	if opts.IfNotExists {
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("put blob: %w", err)
		}
		if n == 0 {
			return domain.ErrAlreadyExists
		}
	}
	return nil
}

// Get reads an object and its metadata.
func (s *blobStore) Get(ctx context.Context, key string) (*driven.Object, error) {
	var (
		obj      driven.Object
		metadata string
	)
	err := s.store.db.QueryRowContext(ctx,
		`SELECT key, data, content_type, metadata FROM blobs WHERE key = ?`, key,
	).Scan(&obj.Key, &obj.Data, &obj.ContentType, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	if obj.Metadata, err = decodeMetadata(metadata); err != nil {
		return nil, err
	}
	return &obj, nil
}

// Exists reports whether a key exists.
func (s *blobStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blobs WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check blob: %w", err)
	}
	return n > 0, nil
}

// Walk enumerates objects under prefix in key order.
// Rows are read fully before fn is called so fn may use the store.
func (s *blobStore) Walk(ctx context.Context, prefix string, fn driven.WalkFunc) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT key, length(data), metadata FROM blobs
		WHERE substr(key, 1, ?) = ?
		ORDER BY key
	`, len(prefix), prefix)
	if err != nil {
		return fmt.Errorf("walk blobs: %w", err)
	}

	var infos []driven.ObjectInfo
	for rows.Next() {
		var (
			info     driven.ObjectInfo
			metadata string
		)
		if err := rows.Scan(&info.Key, &info.Size, &metadata); err != nil {
			rows.Close()
			return fmt.Errorf("scan blob: %w", err)
		}
		if info.Metadata, err = decodeMetadata(metadata); err != nil {
			rows.Close()
			return err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("walk blobs: %w", err)
	}
	rows.Close()

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

// URI returns a sqlite:// locator naming the database file and key.
func (s *blobStore) URI(key string) string {
	return "sqlite://" + s.store.path + "#" + key
}

// PublicURL returns the same locator as URI; SQLite objects are not served.
func (s *blobStore) PublicURL(key string) string {
	return s.URI(key)
}

func decodeMetadata(raw string) (map[string]string, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}
