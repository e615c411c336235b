package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

func TestBlobStore_PutGet(t *testing.T) {
	store := NewBlobStore()
	ctx := context.Background()

	err := store.Put(ctx, driven.Object{
		Key:      "prds/a_1.md",
		Data:     []byte("# A"),
		Metadata: map[string]string{"product_name": "A"},
	}, driven.PutOptions{})
	require.NoError(t, err)

	obj, err := store.Get(ctx, "prds/a_1.md")
	require.NoError(t, err)
	assert.Equal(t, "# A", string(obj.Data))
	assert.Equal(t, "A", obj.Metadata["product_name"])

	obj.Metadata["product_name"] = "mutated"
	again, _ := store.Get(ctx, "prds/a_1.md")
	assert.Equal(t, "A", again.Metadata["product_name"], "callers get copies")

	ok, err := store.Exists(ctx, "prds/a_1.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlobStore_GetMissing(t *testing.T) {
	_, err := NewBlobStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobStore_IfNotExists(t *testing.T) {
	store := NewBlobStore()
	ctx := context.Background()
	obj := driven.Object{Key: "k", Data: []byte("1")}

	require.NoError(t, store.Put(ctx, obj, driven.PutOptions{IfNotExists: true}))
	err := store.Put(ctx, obj, driven.PutOptions{IfNotExists: true})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, store.Put(ctx, driven.Object{Key: "k", Data: []byte("2")}, driven.PutOptions{}))
	got, _ := store.Get(ctx, "k")
	assert.Equal(t, "2", string(got.Data))
}

func TestBlobStore_Walk(t *testing.T) {
	store := NewBlobStore()
	ctx := context.Background()
	for _, key := range []string{"prds/b.md", "prds/a.md", "other/c.md"} {
		require.NoError(t, store.Put(ctx, driven.Object{Key: key}, driven.PutOptions{}))
	}

	var keys []string
	err := store.Walk(ctx, "prds/", func(info driven.ObjectInfo) error {
		keys = append(keys, info.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"prds/a.md", "prds/b.md"}, keys)

	t.Run("stop early", func(t *testing.T) {
		calls := 0
		err := store.Walk(ctx, "", func(driven.ObjectInfo) error {
			calls++
			return driven.ErrStopWalk
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("abort", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.Walk(ctx, "", func(driven.ObjectInfo) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestBlobStore_FailPut(t *testing.T) {
	store := NewBlobStore()
	store.FailPut = func(key string) error {
		if key == "bad" {
			return errors.New("disk full")
		}
		return nil
	}

	assert.Error(t, store.Put(context.Background(), driven.Object{Key: "bad"}, driven.PutOptions{}))
	assert.NoError(t, store.Put(context.Background(), driven.Object{Key: "good"}, driven.PutOptions{}))
	assert.Equal(t, 1, store.Len())
}
