package driven

// Renderer converts canonical markdown into the rendered representation.
// Rendering must be deterministic for a given title and content.
type Renderer interface {
	// Render returns a complete, directly viewable document.
	Render(title, markdown string) ([]byte, error)

	// ContentType is the MIME type of the rendered output.
	ContentType() string
}
