// Package markdown renders canonical markdown documents into standalone HTML pages.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// ContentType of rendered pages.
const ContentType = "text/html; charset=utf-8"

// Verify interface compliance.
var _ driven.Renderer = (*Renderer)(nil)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: auto;
            padding: 20px;
        }
        h1, h2, h3 {
            color: #333;
        }
        code {
            background-color: #f4f4f4;
            padding: 2px 6px;
            border-radius: 3px;
        }
        pre {
            background-color: #f4f4f4;
            padding: 10px;
            border-radius: 5px;
            overflow-x: auto;
        }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Renderer converts markdown to a sanitized HTML page.
// Raw HTML in documents passes through goldmark and is then filtered by bluemonday.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a renderer with tables, strikethrough, autolinks,
// footnotes, definition lists and hard line breaks enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render returns a complete HTML document titled title.
func (r *Renderer) Render(title, source string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(source), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(r.policy.SanitizeBytes(body.Bytes())), //nolint:gosec // sanitized by bluemonday
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

// ContentType returns the media type of rendered output.
func (r *Renderer) ContentType() string {
	return ContentType
}
