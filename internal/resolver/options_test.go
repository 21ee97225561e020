package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliasMapMatchesFirstKeyInInsertionOrder(t *testing.T) {
	m := NewAliasMap()
	m.Set("lodash", AliasEntry{Kind: AliasTarget, To: "./my-lodash"})
	m.Set("lodash/sort", AliasEntry{Kind: AliasTarget, To: "./my-sort"})

	_, entry, rest, ok := m.Match("lodash/sort")
	require.True(t, ok)
	require.Equal(t, "./my-lodash", entry.To)
	require.Equal(t, "/sort", rest)
}

func TestAliasMapExactMatchHasEmptyRest(t *testing.T) {
	m := NewAliasMap()
	m.Set("./x", AliasEntry{Kind: AliasIgnored})
	_, entry, rest, ok := m.Match("./x")
	require.True(t, ok)
	require.True(t, entry.Kind == AliasIgnored)
	require.Equal(t, "", rest)
}

func TestAliasMapNoMatch(t *testing.T) {
	m := NewAliasMap()
	m.Set("./x", AliasEntry{Kind: AliasTarget, To: "./y"})
	_, _, _, ok := m.Match("./other")
	require.False(t, ok)
}

func TestAliasMapNilIsEmpty(t *testing.T) {
	var m *AliasMap
	require.Equal(t, 0, m.Len())
	_, _, _, ok := m.Match("anything")
	require.False(t, ok)
}

func TestOptionsNormalizeFillsDefaults(t *testing.T) {
	out := Options{}.Normalize("/cwd", func(string) bool { return true }, func(p string) (string, bool) { return p, true })
	require.Equal(t, "package.json", out.DescriptionFile)
	require.Equal(t, []string{"index"}, out.MainFiles)
	require.Equal(t, []string{"main"}, out.MainFields)
	require.Equal(t, map[string]bool{"node": true}, out.ConditionNames)
	require.Equal(t, EnforceDisabled, out.EnforceExtension)
}

func TestOptionsNormalizeEnablesEnforceForBareExtension(t *testing.T) {
	out := Options{Extensions: []string{"js", ""}}.Normalize("/cwd", func(string) bool { return true }, func(p string) (string, bool) { return p, true })
	require.Equal(t, EnforceEnabled, out.EnforceExtension)
}

func TestOptionsNormalizeStripsLeadingDotFromExtensions(t *testing.T) {
	out := Options{Extensions: []string{".ts", "js"}}.Normalize("/cwd", func(string) bool { return true }, func(p string) (string, bool) { return p, true })
	require.Equal(t, []string{"ts", "js"}, out.Extensions)
}

func TestOptionsNormalizeResolvesRelativeTsconfigPath(t *testing.T) {
	out := Options{TsconfigPath: "tsconfig.json"}.Normalize(
		"/cwd",
		func(p string) bool { return p[0] == '/' },
		func(p string) (string, bool) { return "/cwd/" + p, true },
	)
	require.Equal(t, "/cwd/tsconfig.json", out.TsconfigPath)
}

func TestOptionsNormalizeLeavesAbsoluteTsconfigPathAlone(t *testing.T) {
	out := Options{TsconfigPath: "/abs/tsconfig.json"}.Normalize(
		"/cwd",
		func(p string) bool { return p[0] == '/' },
		func(p string) (string, bool) { return p, true },
	)
	require.Equal(t, "/abs/tsconfig.json", out.TsconfigPath)
}
