// Package edge serializes the finalized fragment route map into a
// self-contained request-dispatch script.
package edge

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/edgebuilder/internal/partials"
)

// scriptTemplate is the dispatch payload. Routing is exact-match only: no
// prefix matching, no trailing-slash normalization. A hit answers with the
// stored HTML and an immutable cache directive (safe: the version prefix in
// every key already encodes content identity); a miss never calls
// respondWith, so the request passes through to the origin unmodified.
var scriptTemplate = template.Must(template.New("dispatch").Parse(`"use strict";
const ROUTES = {{.Routes}};

addEventListener("fetch", (event) => {
  const path = new URL(event.request.url).pathname;
  const html = ROUTES[path];
  if (html === undefined) {
    return; // pass through to origin
  }
  event.respondWith(new Response(html, {
    status: 200,
    headers: {
      "content-type": "text/html; charset=utf-8",
      "cache-control": "public, immutable, max-age=31536000",
    },
  }));
});
`))

// Emit writes the dispatch script for the given route table.
func Emit(w io.Writer, entries []partials.Entry) error {
	routes := make(map[string]string, len(entries))
	for _, e := range entries {
		routes[e.RouteKey] = e.HTML
	}

	// json.Marshal escapes angle brackets, so stored HTML cannot break out
	// of the script context. Map marshaling sorts keys, keeping the emitted
	// script deterministic for a given route table.
	encoded, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode route table").Build()
	}

	return scriptTemplate.Execute(w, struct{ Routes string }{Routes: string(encoded)})
}

// EmitFile writes the dispatch script to path, creating parent directories.
func EmitFile(path string, entries []partials.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create edge script directory").
			WithContext("path", path).Build()
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create edge script").
			WithContext("path", path).Build()
	}
	defer f.Close()

	if err := Emit(f, entries); err != nil {
		return err
	}
	return f.Close()
}
