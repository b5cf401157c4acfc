// Package content turns raw source files into parsed documents.
//
// A source document is either a "page" (a header block of paired metadata
// tags, a delimiter line, then a markup body) or a "fragment" (no delimiter;
// the whole file is the body, metadata stays empty and no layout is applied).
package content

import (
	"path/filepath"
	"strings"
)

// Document is the parsed form of one source file. It lives only for the
// duration of processing that file.
type Document struct {
	Slug     string            // relative path without extension, slash-separated
	Source   string            // absolute path of the source file
	Metadata map[string]string // empty for fragments
	Body     string            // markup body, header excluded
	Fragment bool              // true when no delimiter line was present
	Markdown bool              // true when the body needs markdown rendering
}

// Layout returns the layout name from metadata, or fallback when unset.
func (d *Document) Layout(fallback string) string {
	if name, ok := d.Metadata["layout"]; ok && name != "" {
		return name
	}
	return fallback
}

// RouteKey returns the unversioned route for a page document. The home/index
// slug maps to the site root. Fragments get their versioned route from the
// partial store, not from here.
func (d *Document) RouteKey() string {
	if d.isHome() {
		return "/"
	}
	return "/" + d.Slug
}

// OutputFile returns the page's disk path relative to the output directory.
func (d *Document) OutputFile() string {
	if d.isHome() {
		return "index.html"
	}
	return d.Slug + ".html"
}

func (d *Document) isHome() bool {
	return d.Slug == "index" || d.Slug == "home"
}

// SlugFromPath derives a document slug from its path relative to the content root.
func SlugFromPath(relPath string) string {
	slug := filepath.ToSlash(relPath)
	slug = strings.TrimSuffix(slug, filepath.Ext(relPath))
	return slug
}
