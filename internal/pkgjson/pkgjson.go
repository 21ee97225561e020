// Package pkgjson is the Package Descriptor Store (spec.md §4.3): it
// reads and parses a package.json file into an immutable PkgJSON value,
// shared across every Entry that points at it. Field handling (a
// string-or-object "browser" field, a bool-or-glob-list "sideEffects")
// is grounded on the teacher's parsePackageJSON
// (evanw-esbuild/internal/resolver/package_json.go), but sideEffects
// glob matching here uses github.com/bmatcuk/doublestar/v4 instead of
// the teacher's hand-rolled globToEscapedRegexp, since the pack already
// depends on doublestar for sideEffects-shaped matching elsewhere.
package pkgjson

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bvanjoi/node-resolver/internal/exports"
	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
)

// BrowserEntry mirrors resolver.AliasEntry but lives here to avoid an
// import cycle; resolver converts it at use time.
type BrowserEntry struct {
	Ignored bool
	Target  string // valid iff !Ignored
}

// SideEffects is either "all files have side effects" (Bool==true,
// Globs==nil), "no files do" (Bool==false, Globs==nil), or a specific
// glob allowlist (Globs!=nil; Bool is ignored).
type SideEffects struct {
	Bool  bool
	Globs []string
}

// HasSideEffects reports whether relPath (package-root-relative, POSIX
// separators) should be treated as having side effects.
func (s SideEffects) HasSideEffects(relPath string) bool {
	if s.Globs == nil {
		return s.Bool
	}
	for _, g := range s.Globs {
		if ok, _ := doublestar.Match(g, relPath); ok {
			return true
		}
	}
	return false
}

// PkgJSON is the parsed, immutable descriptor (spec.md §3 PkgJSON).
type PkgJSON struct {
	Name    string
	Version string

	// MainFields holds the raw string value of every "main"-ish field
	// this descriptor defined (e.g. "main", "module", "browser" as a
	// string), keyed by field name, for the resolver's main_fields walk.
	MainFields map[string]string

	// BrowserAliasKeys/BrowserAlias hold the object form of "browser" in
	// declaration order; nil if "browser" was absent or a string.
	BrowserAliasKeys []string
	BrowserAlias     map[string]BrowserEntry

	ExportsTree   *exports.Node
	ImportsTree   *exports.Node
	SideEffects   *SideEffects
	HasExports    bool
	HasImports    bool
}

// Parse builds a PkgJSON from an already-decoded package.json value.
func Parse(path string, v jsonvalue.Value) (*PkgJSON, error) {
	if v.Kind != jsonvalue.Object {
		return nil, fmt.Errorf("%s: package.json root must be an object", path)
	}

	pkg := &PkgJSON{MainFields: make(map[string]string)}

	if name, ok := v.Prop("name"); ok {
		pkg.Name, _ = name.AsString()
	}
	if version, ok := v.Prop("version"); ok {
		pkg.Version, _ = version.AsString()
	}

	for _, field := range []string{"main", "module", "browser"} {
		if prop, ok := v.Prop(field); ok {
			if s, ok := prop.AsString(); ok {
				pkg.MainFields[field] = s
			}
		}
	}

	if browser, ok := v.Prop("browser"); ok && browser.Kind == jsonvalue.Object {
		pkg.BrowserAliasKeys = append([]string(nil), browser.ObjKeys...)
		pkg.BrowserAlias = make(map[string]BrowserEntry, len(browser.ObjKeys))
		for i, key := range browser.ObjKeys {
			val := browser.ObjVals[i]
			switch {
			case val.Kind == jsonvalue.Bool && !val.Bool:
				pkg.BrowserAlias[key] = BrowserEntry{Ignored: true}
			case val.Kind == jsonvalue.String:
				pkg.BrowserAlias[key] = BrowserEntry{Target: val.Str}
			}
		}
	}

	if exportsVal, ok := v.Prop("exports"); ok && !exportsVal.IsNull() {
		tree, err := exports.Build(exportsVal, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		pkg.ExportsTree = &tree
		pkg.HasExports = true
	}

	if importsVal, ok := v.Prop("imports"); ok && !importsVal.IsNull() {
		tree, err := exports.Build(importsVal, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		pkg.ImportsTree = &tree
		pkg.HasImports = true
	}

	if se, ok := v.Prop("sideEffects"); ok {
		switch se.Kind {
		case jsonvalue.Bool:
			pkg.SideEffects = &SideEffects{Bool: se.Bool}
		case jsonvalue.Array:
			globs := make([]string, 0, len(se.Arr))
			for _, item := range se.Arr {
				if s, ok := item.AsString(); ok {
					globs = append(globs, normalizeSideEffectGlob(s))
				} else {
					return nil, fmt.Errorf("%s: \"sideEffects\" array must contain only strings", path)
				}
			}
			pkg.SideEffects = &SideEffects{Globs: globs}
		default:
			return nil, fmt.Errorf("%s: \"sideEffects\" must be a boolean or an array of strings", path)
		}
	}

	return pkg, nil
}

// normalizeSideEffectGlob mirrors npm's sideEffects matching: a leading
// "./" is stripped since relPath (what HasSideEffects is matched
// against) is always package-root-relative without one, and a bare
// filename pattern ("*.css") gets the same "anywhere under this
// package" reach npm gives it, via a doublestar "**/" prefix when the
// pattern (after stripping "./") has no directory component at all.
func normalizeSideEffectGlob(pattern string) string {
	if pattern == "" {
		return pattern
	}
	if len(pattern) >= 2 && pattern[0] == '.' && pattern[1] == '/' {
		pattern = pattern[2:]
	}
	hasSlash := false
	for _, c := range pattern {
		if c == '/' {
			hasSlash = true
			break
		}
	}
	if hasSlash {
		return pattern
	}
	return "**/" + pattern
}
