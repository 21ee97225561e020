package exports

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
)

func mustBuild(t *testing.T, src string, isImports bool) Node {
	t.Helper()
	v, err := jsonvalue.Parse(src)
	require.NoError(t, err)
	n, err := Build(v, isImports)
	require.NoError(t, err)
	return n
}

func TestBuildRejectsMixedKeys(t *testing.T) {
	v, err := jsonvalue.Parse(`{"./a": "./a.js", "node": "./node.js"}`)
	require.NoError(t, err)
	_, err = Build(v, false)
	require.Error(t, err)
	require.Equal(t, errMixedKeys, err)
}

func TestBuildBareStringIsImplicitDotKey(t *testing.T) {
	n := mustBuild(t, `"./index.js"`, false)
	require.True(t, n.IsSubpathMap)
	require.Len(t, n.Conditions, 1)
	require.Equal(t, ".", n.Conditions[0].Key)
}

func TestLookupWildcardMatch(t *testing.T) {
	n := mustBuild(t, `{"./dist/*": "./lib/*.js"}`, false)
	result, status := Lookup(n, "./dist/foo", nil)
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./lib/foo.js"}, result)
}

func TestLookupLongestPrefixWins(t *testing.T) {
	n := mustBuild(t, `{
		"./dist/*": "./generic/*",
		"./dist/sub/*": "./specific/*"
	}`, false)
	result, status := Lookup(n, "./dist/sub/foo", nil)
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./specific/foo"}, result)
}

func TestLookupExactKeyBeatsWildcard(t *testing.T) {
	n := mustBuild(t, `{
		"./dist/*": "./generic/*",
		"./dist/special": "./exact.js"
	}`, false)
	result, status := Lookup(n, "./dist/special", nil)
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./exact.js"}, result)
}

func TestLookupNoMatchIsNull(t *testing.T) {
	n := mustBuild(t, `{"./dist/*": "./lib/*.js"}`, false)
	_, status := Lookup(n, "./other/foo", nil)
	require.Equal(t, StatusNull, status)
}

func TestLookupConditionDefault(t *testing.T) {
	n := mustBuild(t, `{
		".": { "import": "./esm.js", "default": "./cjs.js" }
	}`, false)

	result, status := Lookup(n, ".", map[string]bool{"import": true})
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./esm.js"}, result)

	result, status = Lookup(n, ".", map[string]bool{"require": true})
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./cjs.js"}, result)
}

func TestLookupConditionNoMatchIsUndefined(t *testing.T) {
	n := mustBuild(t, `{
		".": { "node": "./node.js" }
	}`, false)
	_, status := Lookup(n, ".", map[string]bool{"browser": true})
	require.Equal(t, StatusUndefined, status)
}

func TestLookupArrayFallsThroughInvalidEntries(t *testing.T) {
	n := mustBuild(t, `{
		".": ["./node_modules/bad.js", "./good.js"]
	}`, false)
	result, status := Lookup(n, ".", nil)
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"./good.js"}, result)
}

func TestLookupRejectsInvalidSegment(t *testing.T) {
	n := mustBuild(t, `{"./x": "./node_modules/evil.js"}`, false)
	_, status := Lookup(n, "./x", nil)
	require.Equal(t, StatusInvalidPackageTarget, status)
}

func TestLookupImportsAllowsBareSpecifierTarget(t *testing.T) {
	n := mustBuild(t, `{"#util": "lodash/util"}`, true)
	result, status := Lookup(n, "#util", nil)
	require.Equal(t, StatusExact, status)
	require.Equal(t, []string{"lodash/util"}, result)
}

func TestLookupNonSubpathMapIsNull(t *testing.T) {
	n := mustBuild(t, `{"import": "./esm.js", "default": "./cjs.js"}`, false)
	_, status := Lookup(n, ".", map[string]bool{"import": true})
	require.Equal(t, StatusNull, status)
}
