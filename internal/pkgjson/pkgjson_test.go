package pkgjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
)

func parseOrFail(t *testing.T, path, src string) *PkgJSON {
	t.Helper()
	v, err := jsonvalue.Parse(src)
	require.NoError(t, err)
	pkg, err := Parse(path, v)
	require.NoError(t, err)
	return pkg
}

func TestParseBrowserStringGoesToMainFields(t *testing.T) {
	pkg := parseOrFail(t, "/pkg/package.json", `{
		"name": "app",
		"browser": "./browser.js"
	}`)
	require.Equal(t, "./browser.js", pkg.MainFields["browser"])
	require.Nil(t, pkg.BrowserAlias)
}

func TestParseBrowserObjectBuildsAliasMap(t *testing.T) {
	pkg := parseOrFail(t, "/pkg/package.json", `{
		"name": "app",
		"browser": {
			"./server.js": "./client.js",
			"fs": false
		}
	}`)
	require.Equal(t, []string{"./server.js", "fs"}, pkg.BrowserAliasKeys)
	require.Equal(t, BrowserEntry{Target: "./client.js"}, pkg.BrowserAlias["./server.js"])
	require.Equal(t, BrowserEntry{Ignored: true}, pkg.BrowserAlias["fs"])
}

func TestParseSideEffectsBool(t *testing.T) {
	pkg := parseOrFail(t, "/pkg/package.json", `{"name": "app", "sideEffects": false}`)
	require.NotNil(t, pkg.SideEffects)
	require.False(t, pkg.SideEffects.HasSideEffects("anything.js"))
}

func TestParseSideEffectsGlobArray(t *testing.T) {
	pkg := parseOrFail(t, "/pkg/package.json", `{
		"name": "app",
		"sideEffects": ["./side.js", "*.css"]
	}`)
	require.True(t, pkg.SideEffects.HasSideEffects("side.js"))
	require.True(t, pkg.SideEffects.HasSideEffects("nested/dir/style.css"))
	require.False(t, pkg.SideEffects.HasSideEffects("clean.js"))
}

func TestParseSideEffectsRejectsNonStringArrayEntry(t *testing.T) {
	v, err := jsonvalue.Parse(`{"name": "app", "sideEffects": [1]}`)
	require.NoError(t, err)
	_, err = Parse("/pkg/package.json", v)
	require.Error(t, err)
}

func TestParseRejectsNonObjectRoot(t *testing.T) {
	v, err := jsonvalue.Parse(`"not an object"`)
	require.NoError(t, err)
	_, err = Parse("/pkg/package.json", v)
	require.Error(t, err)
}

func TestParseExportsAndImportsTrees(t *testing.T) {
	pkg := parseOrFail(t, "/pkg/package.json", `{
		"name": "app",
		"exports": { "./dist/*": "./lib/*.js" },
		"imports": { "#util": "./internal/util.js" }
	}`)
	require.True(t, pkg.HasExports)
	require.NotNil(t, pkg.ExportsTree)
	require.True(t, pkg.HasImports)
	require.NotNil(t, pkg.ImportsTree)
}
