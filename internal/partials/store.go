// Package partials accumulates the route map for one build: minified
// fragment payloads destined for the edge dispatch script, and the pages
// written to disk.
//
// The store is a single-writer aggregate threaded through the pipeline. It is
// deliberately two-stage: every fragment payload must be staged before the
// build fingerprint is computed, and the fingerprint must exist before any
// fragment routeKey is finalized, because each public route name embeds a
// digest over content the build has not fully seen until staging completes.
package partials

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
)

// FragmentPrefix namespaces all versioned fragment routes.
const FragmentPrefix = "/__fx/v"

// fingerprintLen is the number of hex characters kept from the SHA-256 digest.
const fingerprintLen = 12

// Entry is one finalized route in the dispatch table.
type Entry struct {
	RouteKey string
	HTML     string
}

// Page records one rendered page written to disk. Pages are tracked for the
// build report and collision checks only; they are never edge-routed.
type Page struct {
	RouteKey   string // unversioned, slug-derived
	OutputFile string // relative to the output directory
}

type stagedFragment struct {
	name string // slug-derived fragment name
	html string // minified payload
}

// Store is the per-build partial accumulator. Not safe for concurrent use;
// the orchestrator is its single writer.
type Store struct {
	fragments   []stagedFragment
	pages       []Page
	fingerprint string
	routes      []Entry
}

// NewStore creates an empty store for one build.
func NewStore() *Store {
	return &Store{}
}

// StageFragment records a minified fragment payload. Staging order must be
// directory-listing order; the fingerprint depends on it. Staging after the
// fingerprint has been computed is a pipeline ordering bug.
func (s *Store) StageFragment(name, html string) error {
	if s.fingerprint != "" {
		return errors.InternalError("fragment staged after fingerprint computation").
			WithContext("fragment", name).Build()
	}
	s.fragments = append(s.fragments, stagedFragment{name: name, html: html})
	return nil
}

// AddPage records a rendered page.
func (s *Store) AddPage(routeKey, outputFile string) {
	s.pages = append(s.pages, Page{RouteKey: routeKey, OutputFile: outputFile})
}

// Pages returns the recorded pages.
func (s *Store) Pages() []Page {
	return s.pages
}

// FragmentCount returns the number of staged fragments.
func (s *Store) FragmentCount() int {
	return len(s.fragments)
}

// ComputeFingerprint hashes the ordered concatenation of all staged fragment
// payloads. It runs exactly once per build and seals staging.
func (s *Store) ComputeFingerprint() string {
	if s.fingerprint != "" {
		return s.fingerprint
	}
	h := sha256.New()
	for _, f := range s.fragments {
		h.Write([]byte(f.html))
	}
	s.fingerprint = hex.EncodeToString(h.Sum(nil))[:fingerprintLen]
	return s.fingerprint
}

// Fingerprint returns the computed fingerprint, or empty before computation.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// FinalizeRoutes assigns versioned routeKeys to all staged fragments and
// returns the dispatch table. Colliding keys are logged and the
// later-processed entry wins; the build continues.
func (s *Store) FinalizeRoutes() ([]Entry, error) {
	if s.fingerprint == "" {
		return nil, errors.InternalError("routes finalized before fingerprint computation").Build()
	}
	if s.routes != nil {
		return s.routes, nil
	}

	pageRoutes := make(map[string]bool, len(s.pages))
	for _, p := range s.pages {
		pageRoutes[p.RouteKey] = true
	}

	index := make(map[string]int, len(s.fragments))
	entries := make([]Entry, 0, len(s.fragments))
	for _, f := range s.fragments {
		key := FragmentPrefix + s.fingerprint + "/" + f.name

		// Fragments and pages live in split namespaces, but a shared name
		// still risks confusing the dispatcher's consumers. Warn either way.
		if pageRoutes["/"+f.name] {
			warn(errors.RouteCollisionError(key).
				WithContext("page", "/"+f.name).Build())
		}

		if at, exists := index[key]; exists {
			warn(errors.RouteCollisionError(key).Build())
			entries[at] = Entry{RouteKey: key, HTML: f.html}
			continue
		}
		index[key] = len(entries)
		entries = append(entries, Entry{RouteKey: key, HTML: f.html})
	}
	s.routes = entries
	return entries, nil
}

func warn(err *errors.ClassifiedError) {
	slog.Warn(err.Message(), err.LogArgs()...)
}
