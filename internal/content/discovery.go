package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
)

// SourceFile is one discovered document before parsing.
type SourceFile struct {
	Path    string // absolute path
	RelPath string // path relative to the content root
	Slug    string
}

// Markdown reports whether the source body needs markdown rendering.
func (s SourceFile) Markdown() bool {
	return strings.EqualFold(filepath.Ext(s.RelPath), ".md")
}

// Discover walks the content root and returns all source documents in
// lexical (directory-listing) order. That order is load-bearing: the build
// fingerprint is computed over fragment payloads concatenated in it.
//
// A missing content root is a fatal pre-flight condition.
func Discover(root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.ContentRootError("content root not found").
			WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, errors.ContentRootError("content root is not a directory").
			WithContext("path", root).Build()
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm", ".md":
		default:
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{
			Path:    path,
			RelPath: rel,
			Slug:    SlugFromPath(rel),
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk content root").
			WithContext("path", root).Build()
	}
	return files, nil
}

// Read loads and parses one discovered source file.
func Read(src SourceFile) (*Document, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "read document").
			WithContext("path", src.Path).Build()
	}

	metadata, body, fragment := Parse(string(raw))
	return &Document{
		Slug:     src.Slug,
		Source:   src.Path,
		Metadata: metadata,
		Body:     body,
		Fragment: fragment,
		Markdown: src.Markdown(),
	}, nil
}
