package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/edgebuilder/internal/config"
)

func TestResolveOutputDir_Priority(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Directory = "./from-config"

	require.Equal(t, "./explicit", ResolveOutputDir("./explicit", cfg))
	require.Equal(t, "./from-config", ResolveOutputDir(defaultOutputDir, cfg))

	cfg.Output.Directory = ""
	require.Equal(t, defaultOutputDir, ResolveOutputDir(defaultOutputDir, cfg))
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "edgebuilder.yaml")
	root := &CLI{Config: configPath}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	require.FileExists(t, configPath)

	// Point the scaffolded config at a minimal content tree.
	contentDir := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "index.html"),
		[]byte("<title>Hi</title>\n---\n<p>hello</p>\n"), 0o644))
	cfgYAML := "content:\n  directory: " + contentDir + "\noutput:\n  directory: " + filepath.Join(dir, "public") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0o644))

	build := &BuildCmd{Output: defaultOutputDir}
	require.NoError(t, build.Run(&Global{}, root))
	require.FileExists(t, filepath.Join(dir, "public", "index.html"))
	require.FileExists(t, filepath.Join(dir, "public", "_edge", "dispatch.js"))
}

func TestBuild_MissingConfigFails(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")}
	err := (&BuildCmd{Output: defaultOutputDir}).Run(&Global{}, root)
	require.Error(t, err)
}
