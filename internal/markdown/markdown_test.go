package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown(t *testing.T) {
	out, err := Render("# Title\n\nSome *text*.\n")
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Title</h1>")
	require.Contains(t, out, "<em>text</em>")
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	out, err := Render("intro\n\n<img src=\"img/a.png\" data-optimize=\"300\">\n")
	require.NoError(t, err)
	require.Contains(t, out, `data-optimize="300"`)
}
