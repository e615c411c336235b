package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerHost          = "server.host"
	keyServerPort          = "server.port"
	keyStorageBackend      = "storage.backend"
	keyStorageDir          = "storage.dir"
	keyStorageBucket       = "storage.bucket"
	keyStoragePrefix       = "storage.prefix"
	keyStoragePublicURL    = "storage.public_base_url"
	keySearchBackend       = "search.backend"
	keySearchIndexDir      = "search.index_dir"
	keySearchEngineID      = "search.engine_id"
	keySearchLocation      = "search.location"
	keySearchServingConfig = "search.serving_config"
	keySearchMaxResults    = "search.max_results"
	keyConfirmRequired     = "confirmation.required"
	keyConfirmStore        = "confirmation.store"
	keyConfirmTTL          = "confirmation.ttl"
	keyConfirmPreview      = "confirmation.preview_length"
	keyGoogleProjectID     = "google.project_id"
	keyGoogleCredentials   = "google.credentials_file"
	keyGoogleRPS           = "google.requests_per_second"
	keyGoogleBurst         = "google.burst"
	keyLogVerbose          = "log.verbose"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
)

// knownKeys lists every recognised key with its value kind, sorted by name.
var knownKeys = []struct {
	key  string
	kind valueKind
}{
	{keyConfirmPreview, kindInt},
	{keyConfirmRequired, kindBool},
	{keyConfirmStore, kindString},
	{keyConfirmTTL, kindDuration},
	{keyGoogleBurst, kindInt},
	{keyGoogleCredentials, kindString},
	{keyGoogleProjectID, kindString},
	{keyGoogleRPS, kindFloat},
	{keyLogVerbose, kindBool},
	{keySearchBackend, kindString},
	{keySearchEngineID, kindString},
	{keySearchIndexDir, kindString},
	{keySearchLocation, kindString},
	{keySearchMaxResults, kindInt},
	{keySearchServingConfig, kindString},
	{keyServerHost, kindString},
	{keyServerPort, kindInt},
	{keyStorageBackend, kindString},
	{keyStorageBucket, kindString},
	{keyStorageDir, kindString},
	{keyStoragePrefix, kindString},
	{keyStoragePublicURL, kindString},
}

// SettingsService resolves domain.Settings from a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
}

// NewSettingsService creates a new settings service.
// Unset storage and index directories resolve under dataDir.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{configStore: configStore, dataDir: dataDir}
}

// Get resolves the current settings and validates backend names.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	ttl, err := s.getDuration(keyConfirmTTL, d.Confirmation.TTL)
	if err != nil {
		return nil, err
	}

	settings := &domain.Settings{
		Server: domain.ServerSettings{
			Host: s.getString(keyServerHost, d.Server.Host),
			Port: s.getInt(keyServerPort, d.Server.Port),
		},
		Storage: domain.StorageSettings{
			Backend:       domain.StorageBackend(s.getString(keyStorageBackend, d.Storage.Backend.String())),
			Dir:           s.getString(keyStorageDir, filepath.Join(s.dataDir, "data")),
			Bucket:        s.configStore.GetString(keyStorageBucket),
			Prefix:        s.getString(keyStoragePrefix, d.Storage.Prefix),
			PublicBaseURL: s.getString(keyStoragePublicURL, d.Storage.PublicBaseURL),
		},
		Search: domain.SearchSettings{
			Backend:       domain.SearchBackend(s.getString(keySearchBackend, d.Search.Backend.String())),
			IndexDir:      s.getString(keySearchIndexDir, filepath.Join(s.dataDir, "index")),
			EngineID:      s.configStore.GetString(keySearchEngineID),
			Location:      s.getString(keySearchLocation, d.Search.Location),
			ServingConfig: s.getString(keySearchServingConfig, d.Search.ServingConfig),
			MaxResults:    s.getInt(keySearchMaxResults, d.Search.MaxResults),
		},
		Confirmation: domain.ConfirmationSettings{
			Required:      s.getBool(keyConfirmRequired, d.Confirmation.Required),
			Store:         s.getString(keyConfirmStore, d.Confirmation.Store),
			TTL:           ttl,
			PreviewLength: s.getInt(keyConfirmPreview, d.Confirmation.PreviewLength),
		},
		Google: domain.GoogleSettings{
			ProjectID:         s.configStore.GetString(keyGoogleProjectID),
			CredentialsFile:   s.configStore.GetString(keyGoogleCredentials),
			RequestsPerSecond: s.getFloat(keyGoogleRPS, d.Google.RequestsPerSecond),
			Burst:             s.getInt(keyGoogleBurst, d.Google.Burst),
		},
		Verbose: s.getBool(keyLogVerbose, d.Verbose),
	}

	if !settings.Storage.Backend.IsValid() {
		return nil, fmt.Errorf("invalid %s: %s", keyStorageBackend, settings.Storage.Backend)
	}
	if !settings.Search.Backend.IsValid() {
		return nil, fmt.Errorf("invalid %s: %s", keySearchBackend, settings.Search.Backend)
	}
	if settings.Confirmation.Store != "memory" && settings.Confirmation.Store != "sqlite" {
		return nil, fmt.Errorf("invalid %s: %s", keyConfirmStore, settings.Confirmation.Store)
	}

	return settings, nil
}

// Set parses value according to the key's kind and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var typed any
	var err error
	switch kind {
	case kindInt:
		typed, err = strconv.Atoi(value)
	case kindFloat:
		typed, err = strconv.ParseFloat(value, 64)
	case kindBool:
		typed, err = strconv.ParseBool(value)
	case kindDuration:
		_, err = time.ParseDuration(value)
		typed = value
	default:
		typed = value
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return s.configStore.Set(key, typed)
}

// Value returns the configured value of key, or its resolved default.
func (s *SettingsService) Value(key string) (string, bool) {
	if _, ok := kindOf(key); !ok {
		return "", false
	}
	if v, ok := s.configStore.Get(key); ok {
		return fmt.Sprint(v), true
	}

	settings, err := s.Get()
	if err != nil {
		return "", false
	}
	return defaultValue(settings, key), true
}

// Keys returns every recognised key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(knownKeys))
	for i, k := range knownKeys {
		keys[i] = k.key
	}
	return keys
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range knownKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return kindString, false
}

func defaultValue(st *domain.Settings, key string) string {
	switch key {
	case keyServerHost:
		return st.Server.Host
	case keyServerPort:
		return strconv.Itoa(st.Server.Port)
	case keyStorageBackend:
		return st.Storage.Backend.String()
	case keyStorageDir:
		return st.Storage.Dir
	case keyStorageBucket:
		return st.Storage.Bucket
	case keyStoragePrefix:
		return st.Storage.Prefix
	case keyStoragePublicURL:
		return st.Storage.PublicBaseURL
	case keySearchBackend:
		return st.Search.Backend.String()
	case keySearchIndexDir:
		return st.Search.IndexDir
	case keySearchEngineID:
		return st.Search.EngineID
	case keySearchLocation:
		return st.Search.Location
	case keySearchServingConfig:
		return st.Search.ServingConfig
	case keySearchMaxResults:
		return strconv.Itoa(st.Search.MaxResults)
	case keyConfirmRequired:
		return strconv.FormatBool(st.Confirmation.Required)
	case keyConfirmStore:
		return st.Confirmation.Store
	case keyConfirmTTL:
		return st.Confirmation.TTL.String()
	case keyConfirmPreview:
		return strconv.Itoa(st.Confirmation.PreviewLength)
	case keyGoogleProjectID:
		return st.Google.ProjectID
	case keyGoogleCredentials:
		return st.Google.CredentialsFile
	case keyGoogleRPS:
		return strconv.FormatFloat(st.Google.RequestsPerSecond, 'f', -1, 64)
	case keyGoogleBurst:
		return strconv.Itoa(st.Google.Burst)
	case keyLogVerbose:
		return strconv.FormatBool(st.Verbose)
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
