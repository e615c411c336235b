package domain

// SearchHit represents a single search result.
type SearchHit struct {
	// DocumentID is the ID of the matched document.
	DocumentID string `json:"prd_id"`

	// Name is the product name of the matched document.
	Name string `json:"product_name"`

	// Summary is the stored summary of the matched document.
	Summary string `json:"summary"`

	// Snippet is a short excerpt around the match.
	Snippet string `json:"snippet"`

	// CreatedAt is the creation instant as recorded in the index or store.
	CreatedAt string `json:"created_at"`

	// RelevanceScore is the ranking signal, 0 when none is available.
	// The fallback scanner reports a flat 1.0.
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchPath identifies which tier produced a result set.
type SearchPath string

// Search tiers.
const (
	// SearchPathPrimary means the external index answered.
	SearchPathPrimary SearchPath = "primary"

	// SearchPathFallback means the index was unavailable and the store was scanned.
	SearchPathFallback SearchPath = "fallback"
)

// FallbackScore is the flat relevance assigned to fallback matches.
const FallbackScore = 1.0

// SearchResults is the ordered, finite result of one Search call.
type SearchResults struct {
	Query string
	Hits  []SearchHit
	Path  SearchPath
}
