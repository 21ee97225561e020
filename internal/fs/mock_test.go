package fs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadFileReturnsContentsAndModKey(t *testing.T) {
	m := NewMockFS(map[string]string{"/pkg/a.js": "hello"}, nil)
	contents, modKey, err := m.ReadFile("/pkg/a.js")
	require.NoError(t, err)
	require.Equal(t, "hello", contents)
	require.NotEmpty(t, modKey)
}

func TestReadFileDistinctModKeysAcrossFiles(t *testing.T) {
	m := NewMockFS(map[string]string{
		"/pkg/a.js": "a",
		"/pkg/b.js": "b",
	}, nil)
	_, modKeyA, err := m.ReadFile("/pkg/a.js")
	require.NoError(t, err)
	_, modKeyB, err := m.ReadFile("/pkg/b.js")
	require.NoError(t, err)
	require.NotEqual(t, modKeyA, modKeyB)
}

func TestReadFileMissingReturnsErrNotExist(t *testing.T) {
	m := NewMockFS(nil, nil)
	_, _, err := m.ReadFile("/nope.js")
	require.True(t, errors.Is(err, ErrNotExist))
}

func TestReadDirectoryCaseInsensitiveLookupReportsDifferentCase(t *testing.T) {
	m := NewMockFS(map[string]string{"/pkg/Index.js": ""}, nil)
	entries, err := m.ReadDirectory("/pkg")
	require.NoError(t, err)

	entry, diff := entries.Get("index.js")
	require.NotNil(t, entry)
	require.NotNil(t, diff)
	require.Equal(t, "Index.js", diff.Actual)

	entry, diff = entries.Get("Index.js")
	require.NotNil(t, entry)
	require.Nil(t, diff)
}

func TestReadDirectoryMissingReturnsErrNotExist(t *testing.T) {
	m := NewMockFS(nil, nil)
	_, err := m.ReadDirectory("/missing")
	require.True(t, errors.Is(err, ErrNotExist))
}

func TestEntryKindDistinguishesFilesAndDirs(t *testing.T) {
	m := NewMockFS(map[string]string{"/pkg/dir/file.js": ""}, nil)
	entries, err := m.ReadDirectory("/pkg")
	require.NoError(t, err)
	entry, _ := entries.Get("dir")
	require.Equal(t, DirEntry, entry.Kind(m))
}

func TestEvalSymlinksFollowsToRealPath(t *testing.T) {
	m := NewMockFS(
		map[string]string{"/real/lib/index.js": ""},
		map[string]string{"/linked": "/real/lib"},
	)
	resolved, ok := m.EvalSymlinks("/linked/index.js")
	require.True(t, ok)
	require.Equal(t, "/real/lib/index.js", resolved)
}

func TestEvalSymlinksMissingPathReturnsFalse(t *testing.T) {
	m := NewMockFS(nil, nil)
	_, ok := m.EvalSymlinks("/nope")
	require.False(t, ok)
}

func TestIsInsideNodeModules(t *testing.T) {
	require.True(t, IsInsideNodeModules("/root/node_modules/pkg/index.js"))
	require.True(t, IsInsideNodeModules("node_modules"))
	require.False(t, IsInsideNodeModules("/root/src/index.js"))
}
