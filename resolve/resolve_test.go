package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bvanjoi/node-resolver/internal/fs"
)

func TestResolveAndLoadSideEffects(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{
			"name": "pkg",
			"sideEffects": ["./side.js"]
		}`,
		"/root/pkg/side.js":  "",
		"/root/pkg/clean.js": "",
	}, nil)

	r := newWithFS(mock, Options{Extensions: []string{"js"}})

	result, err := r.Resolve("/root/pkg", "./side.js")
	require.NoError(t, err)
	require.False(t, result.Ignored)
	require.Equal(t, "/root/pkg/side.js", result.Resource.Path)
	require.Equal(t, "/root/pkg/package.json", result.Resource.Descriptor)

	se, err := r.LoadSideEffects(result.Resource.Path)
	require.NoError(t, err)
	require.True(t, se.Found)
	require.True(t, se.HasSideEffects)

	se2, err := r.LoadSideEffects("/root/pkg/clean.js")
	require.NoError(t, err)
	require.True(t, se2.Found)
	require.False(t, se2.HasSideEffects)
}

func TestResolveFailedIsSoftError(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/a.js": "",
	}, nil)
	r := newWithFS(mock, Options{Extensions: []string{"js"}})

	_, err := r.Resolve("/root/pkg", "./missing")
	require.Error(t, err)
	resolveErr, ok := err.(*Error)
	require.True(t, ok)
	require.True(t, resolveErr.IsResolveFailed())
}
