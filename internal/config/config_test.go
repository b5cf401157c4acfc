package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: Test\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "content", cfg.Content.Directory)
	require.Equal(t, []int{320, 640, 1024}, cfg.Images.DefaultWidths)
	require.Equal(t, 80, cfg.Images.Quality)
	require.Equal(t, "default", cfg.Layouts.Default)
	require.Equal(t, "_edge/dispatch.js", cfg.Edge.ScriptPath)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("EDGEBUILDER_TEST_DIR", "docs")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n  directory: ${EDGEBUILDER_TEST_DIR}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.Content.Directory)
}

func TestLoad_RejectsInvalidQuality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("images:\n  quality: 250\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "quality")
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	// The scaffolded file must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Site.Title)
	require.True(t, cfg.Output.Clean)
}
