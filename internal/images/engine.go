package images

import (
	"bytes"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
)

// Engine locates marked image elements in markup, derives their variants and
// rewrites the elements in place.
type Engine struct {
	AssetRoot     string // directory image src paths resolve against
	OutputRoot    string // directory derived variants are written under
	DefaultWidths []int
	Quality       int
}

// Stats summarizes one rewrite pass.
type Stats struct {
	Elements       int // marked elements rewritten
	Derived        int // variants generated this pass
	Reused         int // variants already on disk
	MissingSources int // directives skipped: source file absent
	FailedVariants int // variants aborted by write/encode failure
}

// Add accumulates another pass's stats into s.
func (s *Stats) Add(other Stats) {
	s.Elements += other.Elements
	s.Derived += other.Derived
	s.Reused += other.Reused
	s.MissingSources += other.MissingSources
	s.FailedVariants += other.FailedVariants
}

// RewriteDocument runs a pass over a full document (layout output included).
func (e *Engine) RewriteDocument(markup string) (string, Stats, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", Stats{}, errors.WrapError(err, errors.CategoryImage, "parse document markup").Build()
	}

	var stats Stats
	e.walk(doc, make(map[*html.Node]bool), &stats)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", Stats{}, errors.WrapError(err, errors.CategoryImage, "render document markup").Build()
	}
	return buf.String(), stats, nil
}

// RewriteFragment runs a pass over body-only markup without wrapping it in a
// document skeleton.
func (e *Engine) RewriteFragment(markup string) (string, Stats, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return "", Stats{}, errors.WrapError(err, errors.CategoryImage, "parse fragment markup").Build()
	}

	var stats Stats
	processed := make(map[*html.Node]bool)
	var buf bytes.Buffer
	for _, n := range nodes {
		e.walk(n, processed, &stats)
		if err := html.Render(&buf, n); err != nil {
			return "", Stats{}, errors.WrapError(err, errors.CategoryImage, "render fragment markup").Build()
		}
	}
	return buf.String(), stats, nil
}

// walk visits every element below n and rewrites marked images. The processed
// set keeps an explicit per-pass "already handled" state so a node can never
// be visited twice even if rewriting mutates the tree; across passes the
// physically removed marker attribute guarantees the same.
func (e *Engine) walk(n *html.Node, processed map[*html.Node]bool, stats *Stats) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img && !processed[n] {
		if _, ok := getAttr(n, MarkerAttr); ok {
			processed[n] = true
			e.rewriteElement(n, stats)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c, processed, stats)
	}
}

func (e *Engine) rewriteElement(n *html.Node, stats *Stats) {
	src, _ := getAttr(n, "src")
	rel := strings.TrimPrefix(strings.TrimSpace(src), "/")
	if rel == "" {
		stats.MissingSources++
		warn(errors.ImageSourceError(src).Build())
		return
	}

	sourceFile := filepath.Join(e.AssetRoot, filepath.FromSlash(rel))
	if _, err := os.Stat(sourceFile); err != nil {
		// Missing source degrades to a no-op on this element.
		stats.MissingSources++
		warn(errors.ImageSourceError(rel).Build())
		return
	}

	markerValue, _ := getAttr(n, MarkerAttr)
	sizes := ParseSizes(markerValue, e.DefaultWidths)
	if len(sizes) == 0 {
		removeAttr(n, MarkerAttr)
		return
	}

	variants, varStats := e.derive(sourceFile, rel, sizes)
	stats.Add(varStats)
	if len(variants) == 0 {
		// Every variant failed; keep the element (marker included) untouched.
		return
	}

	descriptors := make([]string, 0, len(variants))
	for _, v := range variants {
		descriptors = append(descriptors, v.Descriptor)
	}
	removeAttr(n, MarkerAttr)
	setAttr(n, SrcsetAttr, strings.Join(descriptors, ", "))
	stats.Elements++
}

// derive produces all requested variants for one source image. Variants are
// generated concurrently; a failure aborts only that variant. Existing output
// files are reused by filename (name plus dimensions), not content.
func (e *Engine) derive(sourceFile, rel string, sizes []Size) ([]Variant, Stats) {
	ext := filepath.Ext(rel)
	base := strings.TrimSuffix(rel, ext)

	type slot struct {
		variant Variant
		ok      bool
		reused  bool
	}
	slots := make([]slot, len(sizes))

	var once sync.Once
	var srcImg image.Image
	var decodeErr error
	decode := func() {
		once.Do(func() {
			srcImg, decodeErr = decodeSource(sourceFile)
		})
	}

	var wg sync.WaitGroup
	for i, size := range sizes {
		outRel := base + size.Suffix() + ".jpg"
		outPath := filepath.Join(e.OutputRoot, filepath.FromSlash(outRel))
		variant := Variant{
			Size:       size,
			OutputPath: outRel,
			Descriptor: "/" + outRel + " " + strconv.Itoa(size.Width) + "w",
		}

		if _, err := os.Stat(outPath); err == nil {
			slots[i] = slot{variant: variant, ok: true, reused: true}
			continue
		}

		wg.Add(1)
		go func(i int, size Size) {
			defer wg.Done()
			decode()
			if decodeErr != nil {
				warn(errors.VariantWriteError("decode image source").
					WithContext("source", rel).WithContext("error", decodeErr.Error()).Build())
				return
			}
			data, err := encodeJPEG(resize(srcImg, size), e.Quality)
			if err != nil {
				warn(errors.VariantWriteError("encode variant").
					WithContext("variant", outRel).WithContext("error", err.Error()).Build())
				return
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				warn(errors.VariantWriteError("create variant directory").
					WithContext("variant", outRel).WithContext("error", err.Error()).Build())
				return
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				warn(errors.VariantWriteError("write variant").
					WithContext("variant", outRel).WithContext("error", err.Error()).Build())
				return
			}
			slots[i] = slot{variant: variant, ok: true}
		}(i, size)
	}
	wg.Wait()

	var stats Stats
	variants := make([]Variant, 0, len(slots))
	for _, s := range slots {
		if !s.ok {
			stats.FailedVariants++
			continue
		}
		if s.reused {
			stats.Reused++
		} else {
			stats.Derived++
		}
		variants = append(variants, s.variant)
	}
	return variants, stats
}

func warn(err *errors.ClassifiedError) {
	slog.Warn(err.Message(), err.LogArgs()...)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}
