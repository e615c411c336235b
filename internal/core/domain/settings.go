package domain

import "time"

// StorageBackend identifies a BlobStore implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps objects in process memory.
	StorageMemory StorageBackend = "memory"

	// StorageFilesystem writes objects under a local directory.
	StorageFilesystem StorageBackend = "filesystem"

	// StorageSQLite writes objects into a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageGCS writes objects to a Cloud Storage bucket.
	StorageGCS StorageBackend = "gcs"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageFilesystem, StorageSQLite, StorageGCS:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// SearchBackend identifies a primary search index implementation.
type SearchBackend string

// Available search backends.
const (
	// SearchBleve uses a local bleve index.
	SearchBleve SearchBackend = "bleve"

	// SearchDiscoveryEngine uses a Vertex AI Search serving config.
	SearchDiscoveryEngine SearchBackend = "discoveryengine"

	// SearchNone disables the primary index; every search uses the fallback scanner.
	SearchNone SearchBackend = "none"
)

// IsValid returns true if the search backend is recognised.
func (b SearchBackend) IsValid() bool {
	switch b {
	case SearchBleve, SearchDiscoveryEngine, SearchNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b SearchBackend) String() string {
	return string(b)
}

// ServerSettings configures the SSE transport listener.
type ServerSettings struct {
	Host string
	Port int
}

// StorageSettings configures the document store backend.
type StorageSettings struct {
	Backend       StorageBackend
	Dir           string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

// SearchSettings configures the primary search index.
type SearchSettings struct {
	Backend       SearchBackend
	IndexDir      string
	EngineID      string
	Location      string
	ServingConfig string
	MaxResults    int
}

// ConfirmationSettings configures the confirmation gate.
type ConfirmationSettings struct {
	// Required routes store_prd through the gate.
	Required bool

	// Store is "memory" or "sqlite".
	Store string

	// TTL after which a pending confirmation times out. Zero disables expiry.
	TTL time.Duration

	// PreviewLength is the number of content characters shown in a preview.
	PreviewLength int
}

// GoogleSettings configures access to Google APIs.
type GoogleSettings struct {
	ProjectID         string
	CredentialsFile   string
	RequestsPerSecond float64
	Burst             int
}

// Settings is the complete process configuration, built once at startup.
type Settings struct {
	Server       ServerSettings
	Storage      StorageSettings
	Search       SearchSettings
	Confirmation ConfirmationSettings
	Google       GoogleSettings
	Verbose      bool
}

// DefaultSettings returns the settings used when nothing is configured.
// Directory paths are left empty and resolved against the data directory by the caller.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageSettings{
			Backend:       StorageFilesystem,
			Prefix:        "prds/",
			PublicBaseURL: "https://storage.googleapis.com",
		},
		Search: SearchSettings{
			Backend:       SearchBleve,
			Location:      "global",
			ServingConfig: "default_search",
			MaxResults:    5,
		},
		Confirmation: ConfirmationSettings{
			Required:      true,
			Store:         "memory",
			TTL:           15 * time.Minute,
			PreviewLength: 500,
		},
		Google: GoogleSettings{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// AllStorageBackends returns every recognised storage backend.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageMemory, StorageFilesystem, StorageSQLite, StorageGCS}
}

// AllSearchBackends returns every recognised search backend.
func AllSearchBackends() []SearchBackend {
	return []SearchBackend{SearchBleve, SearchDiscoveryEngine, SearchNone}
}
