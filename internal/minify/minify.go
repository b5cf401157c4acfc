// Package minify compacts markup without altering rendered semantics:
// insignificant whitespace collapses, comments are stripped, embedded
// script/style blocks are minified, and empty attributes are dropped.
package minify

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var scriptMediaType = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

var m = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		// Full documents and bare fragments both pass through here; the
		// document structure tags must survive for pages.
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(scriptMediaType, js.Minify)
	return m
}

// HTML minifies a markup string (fragment body or full document).
func HTML(markup string) (string, error) {
	return m.String("text/html", markup)
}
