package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/domain"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), "/home/u/.prdstore")

	st, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 8080, st.Server.Port)
	assert.Equal(t, domain.StorageFilesystem, st.Storage.Backend)
	assert.Equal(t, filepath.Join("/home/u/.prdstore", "data"), st.Storage.Dir)
	assert.Equal(t, filepath.Join("/home/u/.prdstore", "index"), st.Search.IndexDir)
	assert.True(t, st.Confirmation.Required)
	assert.Equal(t, 15*time.Minute, st.Confirmation.TTL)
}

func TestSettingsService_FromConfig(t *testing.T) {
	cfg := memory.NewConfigStore()
	_ = cfg.Set("server.port", "9090")
	_ = cfg.Set("storage.backend", "gcs")
	_ = cfg.Set("storage.bucket", "prd-bucket")
	_ = cfg.Set("search.backend", "none")
	_ = cfg.Set("confirmation.required", false)
	_ = cfg.Set("confirmation.ttl", "30s")
	_ = cfg.Set("google.requests_per_second", 2.5)

	st, err := NewSettingsService(cfg, "/tmp").Get()
	require.NoError(t, err)

	assert.Equal(t, 9090, st.Server.Port)
	assert.Equal(t, domain.StorageGCS, st.Storage.Backend)
	assert.Equal(t, "prd-bucket", st.Storage.Bucket)
	assert.Equal(t, domain.SearchNone, st.Search.Backend)
	assert.False(t, st.Confirmation.Required)
	assert.Equal(t, 30*time.Second, st.Confirmation.TTL)
	assert.Equal(t, 2.5, st.Google.RequestsPerSecond)
}

func TestSettingsService_Invalid(t *testing.T) {
	tests := map[string]string{
		"storage.backend":    "s3",
		"search.backend":     "solr",
		"confirmation.store": "redis",
		"confirmation.ttl":   "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := memory.NewConfigStore()
			_ = cfg.Set(key, value)
			_, err := NewSettingsService(cfg, "/tmp").Get()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestSettingsService_Set(t *testing.T) {
	cfg := memory.NewConfigStore()
	svc := NewSettingsService(cfg, "/tmp")

	require.NoError(t, svc.Set("server.port", "7070"))
	v, _ := cfg.Get("server.port")
	assert.Equal(t, 7070, v)

	require.NoError(t, svc.Set("confirmation.required", "false"))
	require.NoError(t, svc.Set("confirmation.ttl", "1h"))

	assert.Error(t, svc.Set("server.port", "high"))
	assert.Error(t, svc.Set("confirmation.ttl", "forever"))
	assert.ErrorContains(t, svc.Set("nope.key", "1"), "unknown config key")
}

func TestSettingsService_Value(t *testing.T) {
	cfg := memory.NewConfigStore()
	svc := NewSettingsService(cfg, "/tmp")
	_ = cfg.Set("storage.bucket", "b")

	v, ok := svc.Value("storage.bucket")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = svc.Value("search.max_results")
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	_, ok = svc.Value("unknown")
	assert.False(t, ok)

	assert.Contains(t, svc.Keys(), "confirmation.ttl")
}
