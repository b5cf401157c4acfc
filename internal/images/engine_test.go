package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	assetRoot := t.TempDir()
	outputRoot := t.TempDir()
	writeTestPNG(t, filepath.Join(assetRoot, "img", "hero.png"), 1200, 900)
	return &Engine{
		AssetRoot:     assetRoot,
		OutputRoot:    outputRoot,
		DefaultWidths: []int{320, 640, 1024},
		Quality:       80,
	}
}

func TestRewriteFragment_ExplicitSizes(t *testing.T) {
	e := newTestEngine(t)

	out, stats, err := e.RewriteFragment(`<p>x</p><img src="/img/hero.png" data-optimize="300,600x400" alt="hero">`)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Elements)
	require.Equal(t, 2, stats.Derived)

	// Exactly two derived files with the expected names.
	require.FileExists(t, filepath.Join(e.OutputRoot, "img", "hero-300.jpg"))
	require.FileExists(t, filepath.Join(e.OutputRoot, "img", "hero-600x400.jpg"))
	entries, err := os.ReadDir(filepath.Join(e.OutputRoot, "img"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Marker removed, srcset descriptors reference both widths, alt preserved.
	require.NotContains(t, out, MarkerAttr)
	require.Contains(t, out, "/img/hero-300.jpg 300w")
	require.Contains(t, out, "/img/hero-600x400.jpg 600w")
	require.Contains(t, out, `alt="hero"`)
	require.Contains(t, out, "<p>x</p>")
}

func TestRewriteFragment_CoverVariantDimensions(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.RewriteFragment(`<img src="img/hero.png" data-optimize="600x400">`)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(e.OutputRoot, "img", "hero-600x400.jpg"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 600, cfg.Width)
	require.Equal(t, 400, cfg.Height)
}

func TestRewriteFragment_AspectPreservingVariantDimensions(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.RewriteFragment(`<img src="img/hero.png" data-optimize="300">`)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(e.OutputRoot, "img", "hero-300.jpg"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 300, cfg.Width)
	require.Equal(t, 225, cfg.Height) // 300 * 900/1200
}

func TestRewriteFragment_DefaultWidths(t *testing.T) {
	e := newTestEngine(t)

	out, stats, err := e.RewriteFragment(`<img src="img/hero.png" data-optimize>`)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Derived)

	entries, err := os.ReadDir(filepath.Join(e.OutputRoot, "img"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Contains(t, out, "hero-320.jpg 320w")
	require.Contains(t, out, "hero-640.jpg 640w")
	require.Contains(t, out, "hero-1024.jpg 1024w")
}

func TestRewriteFragment_MissingSourceLeavesElementUnmodified(t *testing.T) {
	e := newTestEngine(t)

	out, stats, err := e.RewriteFragment(`<img src="img/nope.png" data-optimize="300" alt="x">`)
	require.NoError(t, err)
	require.Equal(t, 1, stats.MissingSources)
	require.Equal(t, 0, stats.Elements)
	require.Contains(t, out, MarkerAttr)
	require.NotContains(t, out, SrcsetAttr)
}

func TestRewriteFragment_ExistingVariantReusedByFilename(t *testing.T) {
	e := newTestEngine(t)

	// Pre-place a bogus file under the variant's name; it must be reused as-is.
	stale := filepath.Join(e.OutputRoot, "img", "hero-300.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	out, stats, err := e.RewriteFragment(`<img src="img/hero.png" data-optimize="300">`)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Reused)
	require.Equal(t, 0, stats.Derived)
	require.Contains(t, out, "hero-300.jpg 300w")

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	require.Equal(t, "stale", string(data))
}

func TestRewriteDocument_SecondPassDoesNotReMatch(t *testing.T) {
	e := newTestEngine(t)

	doc := `<!doctype html><html><head><title>t</title></head><body>` +
		`<img src="img/hero.png" data-optimize="300"></body></html>`

	first, stats, err := e.RewriteDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Elements)
	require.NotContains(t, first, MarkerAttr)

	// Remove the derived file so a re-match would be observable as Derived/Reused.
	require.NoError(t, os.Remove(filepath.Join(e.OutputRoot, "img", "hero-300.jpg")))

	second, stats2, err := e.RewriteDocument(first)
	require.NoError(t, err)
	require.Zero(t, stats2.Elements)
	require.Zero(t, stats2.Derived)
	require.Zero(t, stats2.Reused)
	require.Contains(t, second, "hero-300.jpg 300w") // srcset intact
}

func TestRewriteDocument_PassTwoCatchesLayoutImages(t *testing.T) {
	e := newTestEngine(t)
	writeTestPNG(t, filepath.Join(e.AssetRoot, "img", "nav.png"), 400, 100)

	// Body image already rewritten in pass 1; nav image contributed by the layout.
	doc := `<html><body><nav><img src="img/nav.png" data-optimize="200"></nav>` +
		`<img src="img/hero.png" srcset="/img/hero-300.jpg 300w"></body></html>`

	out, stats, err := e.RewriteDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Elements)
	require.Contains(t, out, "nav-200.jpg 200w")
}

func TestParseSizes(t *testing.T) {
	sizes := ParseSizes("300, 600x400", []int{320})
	require.Equal(t, []Size{{Width: 300}, {Width: 600, Height: 400}}, sizes)

	sizes = ParseSizes("", []int{320, 640})
	require.Equal(t, []Size{{Width: 320}, {Width: 640}}, sizes)

	sizes = ParseSizes("abc, -5, 10x", []int{320})
	require.Empty(t, sizes)
}

func TestRewriteFragment_PreservesSurroundingMarkup(t *testing.T) {
	e := newTestEngine(t)

	in := `<div class="wrap"><img src="img/hero.png" data-optimize="300"><span>after</span></div>`
	out, _, err := e.RewriteFragment(in)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, `<div class="wrap">`))
	require.Contains(t, out, "<span>after</span>")
}
