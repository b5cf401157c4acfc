// Package layouts holds the named layout registry. A layout is a pure
// function from a page data record to full document markup; selection happens
// by the metadata "layout" key with a configurable fallback name.
package layouts

import (
	"sync"

	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
)

// PageData is the record passed to a layout function.
type PageData struct {
	Meta        map[string]string // parsed document metadata
	Body        string            // rendered body markup
	Fingerprint string            // build-wide fragment fingerprint
}

// Title returns the page title from metadata, or fallback when unset.
func (d PageData) Title(fallback string) string {
	if t, ok := d.Meta["title"]; ok && t != "" {
		return t
	}
	return fallback
}

// Func renders a full document from page data.
type Func func(PageData) (string, error)

var (
	regMu sync.RWMutex
	reg   = map[string]Func{}
)

// Register registers a layout function under a name, replacing any previous one.
func Register(name string, fn Func) {
	if fn == nil {
		return
	}
	regMu.Lock()
	reg[name] = fn
	regMu.Unlock()
}

// Get retrieves a layout by name.
func Get(name string) (Func, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	fn, ok := reg[name]
	return fn, ok
}

// Render resolves name and invokes the layout. An unregistered name yields a
// page-scoped MissingLayout error; callers skip the page and continue.
func Render(name string, data PageData) (string, error) {
	fn, ok := Get(name)
	if !ok {
		return "", errors.MissingLayoutError(name).Build()
	}
	return fn(data)
}
