package file

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// EnvPrefix starts every environment override, e.g. PRDSTORE_STORAGE_BACKEND.
const EnvPrefix = "PRDSTORE_"

// envAliases maps deployment variables onto config keys.
// The PRDSTORE_ form wins when both are set.
var envAliases = map[string]string{
	"storage.bucket":    "BUCKET_NAME",
	"google.project_id": "PROJECT_ID",
	"search.engine_id":  "DATASTORE_ID",
	"server.port":       "PORT",
}

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Environment variables override file values on read; Set only ever writes the file.
type ConfigStore struct {
	mu        sync.RWMutex
	filePath  string
	data      map[string]any
	lookupEnv func(string) (string, bool)
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.prdstore/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".prdstore")
	}
	return NewConfigStoreAt(filepath.Join(configDir, "config.toml"))
}

// NewConfigStoreAt creates a config store for an explicit file path.
func NewConfigStoreAt(path string) (*ConfigStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath:  path,
		data:      make(map[string]any),
		lookupEnv: os.LookupEnv,
	}

	// Load existing data if file exists
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// EnvVar returns the PRDSTORE_ variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get retrieves a configuration value by key, consulting the environment first.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.env(key); ok {
		return v, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

func (s *ConfigStore) env(key string) (string, bool) {
	if v, ok := s.lookupEnv(EnvVar(key)); ok {
		return v, true
	}
	if alias, ok := envAliases[key]; ok {
		if v, ok := s.lookupEnv(alias); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

// GetFloat retrieves a float configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Keys returns the keys present in the file or set through the environment overlay, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	seen := make(map[string]bool, len(s.data))
	for k := range s.data {
		seen[k] = true
	}
	s.mu.RUnlock()

	for key := range envAliases {
		if _, ok := s.env(key); ok {
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// save writes configuration to the TOML file as nested tables (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(unflattenMap(s.data))
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested maps into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// unflattenMap is the inverse of flattenMap.
// A key that is both a value and a table prefix keeps the value under its full dotted name.
func unflattenMap(m map[string]any) map[string]any {
	result := make(map[string]any)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Shorter keys first so tables are created before their leaves.
	sort.Slice(keys, func(i, j int) bool { return strings.Count(keys[i], ".") < strings.Count(keys[j], ".") })

	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := result
		ok := true
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			table, isTable := child.(map[string]any)
			if !isTable {
				ok = false
				break
			}
			node = table
		}
		if ok {
			node[parts[len(parts)-1]] = m[key]
		} else {
			result[key] = m[key]
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
