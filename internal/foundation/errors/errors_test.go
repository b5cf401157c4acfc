package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_ErrorString(t *testing.T) {
	err := NewError(CategoryImage, "image source not found").Warning().Build()
	require.Equal(t, "[image:warning] image source not found", err.Error())
}

func TestClassifiedError_WrapsCause(t *testing.T) {
	cause := stderrors.New("open /a/b: no such file or directory")
	err := WrapError(cause, CategoryFileSystem, "write variant").Build()

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "write variant")
}

func TestClassifiedError_Context(t *testing.T) {
	err := ImageSourceError("img/hero.png").Build()

	src, ok := err.Context().GetString("source")
	require.True(t, ok)
	require.Equal(t, "img/hero.png", src)
	require.True(t, err.IsSeverity(SeverityWarning))
	require.True(t, err.IsCategory(CategoryImage))
}

func TestClassifiedError_FatalSeverities(t *testing.T) {
	require.True(t, ContentRootError("content root missing").Build().IsFatal())
	require.True(t, ConfigError("bad config").Build().IsFatal())
	require.False(t, MissingLayoutError("post").Build().IsFatal())
	require.False(t, RouteCollisionError("/__fx/v1/a").Build().IsFatal())
}

func TestClassifiedError_LogArgs(t *testing.T) {
	err := RouteCollisionError("/__fx/vabc/nav").Build()
	args := err.LogArgs()
	require.Contains(t, args, "category")
	require.Contains(t, args, "route")
	require.Contains(t, args, "/__fx/vabc/nav")
}
