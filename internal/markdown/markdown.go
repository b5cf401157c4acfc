// Package markdown renders markdown document bodies to HTML. HTML-sourced
// bodies bypass this package entirely.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// md is configured once; goldmark converters are safe for concurrent use.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		// Source bodies mix markdown with raw markup (image markers,
		// embedded fragments), so raw HTML must pass through.
		html.WithUnsafe(),
	),
)

// Render converts a markdown body to HTML.
func Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
