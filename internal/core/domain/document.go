package domain

import "time"

// Reserved metadata keys. These are always written by the server and
// override any caller-supplied value with the same key.
const (
	MetaProductName = "product_name"
	MetaDocumentID  = "prd_id"
	MetaCreatedAt   = "created_at"
	MetaSummary     = "summary"
)

// UnknownName is reported for stored objects that carry no name tag.
const UnknownName = "Unknown"

// Document represents a stored product requirements document.
// Documents are append-only: ID, Content and CreatedAt never change after Store.
type Document struct {
	// ID is derived from the name and creation instant, with a
	// disambiguating suffix when the derived value is already taken.
	ID string `json:"prd_id"`

	// Name is the human-supplied product name.
	Name string `json:"product_name"`

	// Content is the canonical markdown.
	Content string `json:"content"`

	// Summary is the short extract computed at creation time.
	Summary string `json:"summary"`

	// Metadata holds caller-supplied tags plus the reserved keys.
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt is set server-side when the document is stored.
	CreatedAt time.Time `json:"created_at"`
}

// StoredDocument is the result of a successful Store: the document plus
// locators for both persisted representations.
type StoredDocument struct {
	Document

	// MarkdownURI is the backend locator of the canonical object.
	MarkdownURI string `json:"gcs_path_markdown"`

	// HTMLURI is the backend locator of the rendered object.
	HTMLURI string `json:"gcs_path_html"`

	// HTMLURL is a publicly resolvable locator for the rendered object.
	HTMLURL string `json:"html_url"`
}

// RetrievedDocument is the result of Get: the canonical document and the
// locator of the object it was read from.
type RetrievedDocument struct {
	Document

	// URI is the backend locator of the canonical object.
	URI string `json:"gcs_path"`
}
