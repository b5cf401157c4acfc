package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_WithDelimiter_SplitsHeaderAndBody(t *testing.T) {
	raw := "<title>Home</title>\n<layout>base</layout>\n---\n<h1>Hello</h1>\n"

	metadata, body, fragment := Parse(raw)
	require.False(t, fragment)
	require.Equal(t, map[string]string{"title": "Home", "layout": "base"}, metadata)
	require.Equal(t, "<h1>Hello</h1>\n", body)
	require.NotContains(t, body, "<title>")
}

func TestParse_NoDelimiter_FragmentMode(t *testing.T) {
	raw := "<nav><a href=\"/\">home</a></nav>"

	metadata, body, fragment := Parse(raw)
	require.True(t, fragment)
	require.Empty(t, metadata)
	require.Equal(t, raw, body)
}

func TestParse_DuplicateTags_LastWins(t *testing.T) {
	raw := "<title>First</title>\n<title>Second</title>\n---\nbody"

	metadata, _, _ := Parse(raw)
	require.Equal(t, "Second", metadata["title"])
}

func TestParse_MalformedPairs_SilentlySkipped(t *testing.T) {
	raw := "<title>Home</title>\n<broken>no close\n<ok>fine</ok>\n---\nbody"

	metadata, _, fragment := Parse(raw)
	require.False(t, fragment)
	require.Equal(t, "Home", metadata["title"])
	require.Equal(t, "fine", metadata["ok"])
	require.NotContains(t, metadata, "broken")
}

func TestParse_InnerTextIsTrimmed(t *testing.T) {
	raw := "<summary>\n  spaced out  \n</summary>\n---\nbody"

	metadata, _, _ := Parse(raw)
	require.Equal(t, "spaced out", metadata["summary"])
}

func TestParse_DelimiterInsideLineDoesNotSplit(t *testing.T) {
	raw := "text with --- inline, no header"

	_, body, fragment := Parse(raw)
	require.True(t, fragment)
	require.Equal(t, raw, body)
}

func TestParse_CRLFDelimiterLine(t *testing.T) {
	raw := "<title>Win</title>\r\n---\r\n<p>body</p>\r\n"

	metadata, body, fragment := Parse(raw)
	require.False(t, fragment)
	require.Equal(t, "Win", metadata["title"])
	require.Equal(t, "<p>body</p>\r\n", body)
}

func TestDocument_RouteKeyAndOutputFile(t *testing.T) {
	home := &Document{Slug: "home"}
	require.Equal(t, "/", home.RouteKey())
	require.Equal(t, "index.html", home.OutputFile())

	index := &Document{Slug: "index"}
	require.Equal(t, "index.html", index.OutputFile())

	about := &Document{Slug: "about"}
	require.Equal(t, "/about", about.RouteKey())
	require.Equal(t, "about.html", about.OutputFile())

	nested := &Document{Slug: "guides/setup"}
	require.Equal(t, "/guides/setup", nested.RouteKey())
	require.Equal(t, "guides/setup.html", nested.OutputFile())
}

func TestDocument_LayoutFallback(t *testing.T) {
	doc := &Document{Metadata: map[string]string{}}
	require.Equal(t, "default", doc.Layout("default"))

	doc.Metadata["layout"] = "post"
	require.Equal(t, "post", doc.Layout("default"))
}
