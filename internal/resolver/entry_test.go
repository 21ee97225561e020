package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bvanjoi/node-resolver/internal/cache"
	"github.com/bvanjoi/node-resolver/internal/fs"
)

func TestEntryCachePkgFindsOwnDescriptor(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{"name": "pkg"}`,
		"/root/pkg/index.js":     "",
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/pkg")
	pkg, pkgDir, err := ec.pkg(d)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	require.Equal(t, "pkg", pkg.Name)
	require.Equal(t, "/root/pkg", pkgDir)
}

func TestEntryCachePkgWalksUpToAncestor(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json":        `{"name": "pkg"}`,
		"/root/pkg/lib/nested/deep.js":  "",
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/pkg/lib/nested")
	pkg, pkgDir, err := ec.pkg(d)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	require.Equal(t, "pkg", pkg.Name)
	require.Equal(t, "/root/pkg", pkgDir, "the nearest ancestor descriptor must win, not the starting dir")
}

func TestEntryCachePkgNoDescriptorAnywhereReturnsNil(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/standalone/index.js": "",
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/standalone")
	pkg, _, err := ec.pkg(d)
	require.NoError(t, err)
	require.Nil(t, pkg)
}

func TestEntryCachePkgIsMemoizedPerDir(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{"name": "pkg"}`,
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/pkg")
	pkg1, _, err := ec.pkg(d)
	require.NoError(t, err)
	pkg2, _, err := ec.pkg(d)
	require.NoError(t, err)
	require.Same(t, pkg1, pkg2, "repeated pkg() calls on the same dirInfo must not re-parse")
}

func TestEntryCacheMalformedDescriptorReturnsError(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{not valid json`,
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/pkg")
	_, _, err := ec.pkg(d)
	require.Error(t, err)
}

func TestEntryCacheMalformedDescriptorErrorPersistsAcrossCalls(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{not valid json`,
	}, nil)
	ec := newEntryCache(mock, cache.NewShared(), "package.json")

	d := ec.loadDir("/root/pkg")
	_, _, err1 := ec.pkg(d)
	require.Error(t, err1)

	_, _, err2 := ec.pkg(d)
	require.Error(t, err2, "a cached dirInfo must re-surface the error on every call, not just the first")
	require.Equal(t, err1, err2)
}

func TestEntryCacheSharedDescriptorCacheIsReused(t *testing.T) {
	mock := fs.NewMockFS(map[string]string{
		"/root/pkg/package.json": `{"name": "pkg"}`,
	}, nil)
	shared := cache.NewShared()
	ecA := newEntryCache(mock, shared, "package.json")
	ecB := newEntryCache(mock, shared, "package.json")

	pkgA, _, err := ecA.pkg(ecA.loadDir("/root/pkg"))
	require.NoError(t, err)
	pkgB, _, err := ecB.pkg(ecB.loadDir("/root/pkg"))
	require.NoError(t, err)
	require.Same(t, pkgA, pkgB, "two entryCache instances sharing a cache.Shared must reuse the same parsed descriptor")
}
