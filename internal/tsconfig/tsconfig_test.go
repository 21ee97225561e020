package tsconfig

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return "/"
	}
	return d
}

func TestParseBaseURLAndPaths(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": {
			"baseUrl": "./src",
			"paths": { "test2/*": ["./test2-success/*"] }
		}
	}`, dirOf)
	require.NoError(t, err)
	require.Equal(t, "/proj/src", cfg.BaseURL)
	require.Equal(t, "/proj/src", cfg.BaseURLForPaths)
	require.NotNil(t, cfg.Paths)
	require.Equal(t, []string{"./test2-success/*"}, cfg.Paths.Map["test2/*"])
}

func TestParseWithoutBaseURLUsesConfigDir(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": { "paths": { "util": ["./util.ts"] } }
	}`, dirOf)
	require.NoError(t, err)
	require.Equal(t, "", cfg.BaseURL)
	require.Equal(t, "/proj", cfg.BaseURLForPaths)
}

func TestParseStripsJSONCCommentsAndTrailingCommas(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		// comment
		"compilerOptions": {
			"baseUrl": ".",
		},
	}`, dirOf)
	require.NoError(t, err)
	require.Equal(t, "/proj", cfg.BaseURL)
}

func TestMergeFillsOnlyMissingFields(t *testing.T) {
	base, err := Parse("/proj/base.json", `{
		"compilerOptions": {
			"baseUrl": "./src",
			"paths": { "a/*": ["./a/*"] }
		}
	}`, dirOf)
	require.NoError(t, err)

	extender, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": { "baseUrl": "./override" }
	}`, dirOf)
	require.NoError(t, err)

	merged := Merge(extender, base)
	require.Equal(t, "/proj/override", merged.BaseURL, "extender's own baseUrl must win")
	require.NotNil(t, merged.Paths, "missing paths should be filled from base")
	require.Equal(t, []string{"./a/*"}, merged.Paths.Map["a/*"])
}

func TestMergeLeavesExtenderPathsUntouchedWhenSet(t *testing.T) {
	base, err := Parse("/proj/base.json", `{
		"compilerOptions": { "paths": { "a/*": ["./a/*"] } }
	}`, dirOf)
	require.NoError(t, err)
	extender, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": { "paths": { "b/*": ["./b/*"] } }
	}`, dirOf)
	require.NoError(t, err)

	merged := Merge(extender, base)
	_, hasA := merged.Paths.Map["a/*"]
	require.False(t, hasA)
	require.Contains(t, merged.Paths.Map, "b/*")
}

func TestPathsMatchLongestPrefixWins(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": {
			"paths": {
				"*": ["./generic/*"],
				"lib/*": ["./lib-specific/*"]
			}
		}
	}`, dirOf)
	require.NoError(t, err)

	match, ok := cfg.Paths.Match("lib/foo")
	require.True(t, ok)
	require.True(t, match.HasWild)
	require.Equal(t, "foo", match.Captured)
	require.Equal(t, "./lib-specific/foo", match.Substitute(match.Templates[0]))
}

func TestPathsMatchExactBeatsWildcardAtSamePrefixLength(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": {
			"paths": {
				"util": ["./util-exact.ts"],
				"util*": ["./util-wild/*"]
			}
		}
	}`, dirOf)
	require.NoError(t, err)

	match, ok := cfg.Paths.Match("util")
	require.True(t, ok)
	require.False(t, match.HasWild)
	require.Equal(t, []string{"./util-exact.ts"}, match.Templates)
}

func TestPathsMatchNoCandidateReturnsFalse(t *testing.T) {
	cfg, err := Parse("/proj/tsconfig.json", `{
		"compilerOptions": { "paths": { "only/*": ["./only/*"] } }
	}`, dirOf)
	require.NoError(t, err)

	_, ok := cfg.Paths.Match("nothing/here")
	require.False(t, ok)
}
