// Package images derives responsive variants for optimization-marked image
// elements and rewrites them with a srcset descriptor list.
//
// Marked elements carry the marker attribute (data-optimize), optionally
// valued with comma-separated size tokens: a bare width ("300") derives an
// aspect-preserving resize, "600x400" derives a center-cropped cover resize.
// Rewriting physically removes the marker, so a second pass over already
// rewritten markup can never re-match an element.
package images

import (
	"log/slog"
	"strconv"
	"strings"
)

// MarkerAttr flags an image element for variant derivation.
const MarkerAttr = "data-optimize"

// SrcsetAttr receives the joined variant descriptors on rewrite.
const SrcsetAttr = "srcset"

// Size is one requested variant dimension. Height zero means
// aspect-preserving resize to Width.
type Size struct {
	Width  int
	Height int
}

// Cover reports whether this size requires the center-crop cover strategy.
func (s Size) Cover() bool { return s.Height > 0 }

// Suffix returns the filename suffix for this size: "-300" or "-600x400".
func (s Size) Suffix() string {
	if s.Cover() {
		return "-" + strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
	}
	return "-" + strconv.Itoa(s.Width)
}

// Directive is one marked image element awaiting derivation. It is consumed
// during a single rewrite pass.
type Directive struct {
	SourcePath string // src attribute value as written in the element
	Sizes      []Size
}

// Variant is one derived rendition of a source image.
type Variant struct {
	Size       Size
	OutputPath string // relative to the output root, slash-separated
	Descriptor string // "<url> <width>w"
}

// ParseSizes parses a marker attribute value into a size list. An empty value
// yields defaults. Unparseable tokens are skipped.
func ParseSizes(value string, defaults []int) []Size {
	value = strings.TrimSpace(value)
	if value == "" {
		sizes := make([]Size, 0, len(defaults))
		for _, w := range defaults {
			sizes = append(sizes, Size{Width: w})
		}
		return sizes
	}

	var sizes []Size
	for tok := range strings.SplitSeq(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		size, ok := parseSizeToken(tok)
		if !ok {
			slog.Debug("Skipping unparseable image size token", "token", tok)
			continue
		}
		sizes = append(sizes, size)
	}
	return sizes
}

func parseSizeToken(tok string) (Size, bool) {
	if w, h, found := strings.Cut(tok, "x"); found {
		width, err1 := strconv.Atoi(w)
		height, err2 := strconv.Atoi(h)
		if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
			return Size{}, false
		}
		return Size{Width: width, Height: height}, true
	}
	width, err := strconv.Atoi(tok)
	if err != nil || width <= 0 {
		return Size{}, false
	}
	return Size{Width: width}, true
}
