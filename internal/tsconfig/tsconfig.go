// Package tsconfig is the TsConfig Engine (spec.md §4.7): it parses
// tsconfig.json as JSONC, resolves "extends" transitively, and compiles
// "compilerOptions.paths" into matchable templates. Structurally
// grounded on the teacher's TSConfigJSON/TSConfigPaths
// (evanw-esbuild/internal/resolver/tsconfig_json.go), but re-expressed
// over this module's own jsonvalue tree instead of esbuild's js_ast,
// since that parser is out of this module's scope.
package tsconfig

import (
	"strings"

	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
)

// Paths is the compiled "compilerOptions.paths" table: ordered keys (for
// longest-prefix-then-no-wildcard tie-breaking) mapping to an ordered
// list of candidate templates.
type Paths struct {
	Keys []string
	Map  map[string][]string
}

// Config is one parsed (and, if applicable, extends-merged) tsconfig.
type Config struct {
	AbsPath string

	// BaseURL is the absolute directory compilerOptions.baseUrl resolves
	// to, or "" if absent.
	BaseURL string
	// BaseURLForPaths is BaseURL if set, else the tsconfig's own
	// directory — TypeScript's "paths without baseUrl" rule.
	BaseURLForPaths string

	Paths *Paths
}

// Parse decodes raw JSONC contents (already read from disk) into a
// Config, without resolving "extends". The extends chain is walked by
// the resolver (loadTsconfigChain in internal/resolver), which parses
// each file with ParseValue and combines them with Merge.
func Parse(absPath string, contents string, dirOf func(string) string) (*Config, error) {
	v, err := jsonvalue.ParseJSONC(contents)
	if err != nil {
		return nil, err
	}
	return ParseValue(absPath, v, dirOf)
}

// ParseValue builds a Config from an already-decoded JSONC value,
// letting callers (e.g. the resolver's "extends" chain walk) inspect the
// raw value themselves without parsing the file twice.
func ParseValue(absPath string, v jsonvalue.Value, dirOf func(string) string) (*Config, error) {
	cfg := &Config{AbsPath: absPath}
	dir := dirOf(absPath)
	cfg.BaseURLForPaths = dir

	compilerOptions, ok := v.Prop("compilerOptions")
	if !ok || compilerOptions.Kind != jsonvalue.Object {
		return cfg, nil
	}

	if baseURL, ok := compilerOptions.Prop("baseUrl"); ok {
		if s, ok := baseURL.AsString(); ok {
			cfg.BaseURL = joinIfRelative(dir, s)
			cfg.BaseURLForPaths = cfg.BaseURL
		}
	}

	if pathsVal, ok := compilerOptions.Prop("paths"); ok && pathsVal.Kind == jsonvalue.Object {
		paths := &Paths{Map: make(map[string][]string)}
		for i, key := range pathsVal.ObjKeys {
			valArr := pathsVal.ObjVals[i]
			if valArr.Kind != jsonvalue.Array {
				continue
			}
			var templates []string
			for _, item := range valArr.Arr {
				if s, ok := item.AsString(); ok {
					templates = append(templates, s)
				}
			}
			if _, exists := paths.Map[key]; !exists {
				paths.Keys = append(paths.Keys, key)
			}
			paths.Map[key] = templates
		}
		cfg.Paths = paths
	}

	return cfg, nil
}

// joinIfRelative mimics path.Join but is indifferent to OS separators;
// callers pass POSIX-normalized paths throughout this package.
func joinIfRelative(dir, p string) string {
	if p == "" {
		return dir
	}
	if strings.HasPrefix(p, "/") {
		return cleanPosix(p)
	}
	return cleanPosix(dir + "/" + p)
}

func cleanPosix(p string) string {
	parts := strings.Split(p, "/")
	var out []string
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	joined := "/" + strings.Join(out, "/")
	return joined
}

// Merge fills missing compilerOptions from base into extender — an
// extendee only fills keys the extender itself left unset, it never
// overwrites (spec.md §4.7).
func Merge(extender, base *Config) *Config {
	out := *extender
	if out.BaseURL == "" && base.BaseURL != "" {
		out.BaseURL = base.BaseURL
		out.BaseURLForPaths = base.BaseURL
	}
	if out.Paths == nil && base.Paths != nil {
		out.Paths = base.Paths
	}
	return &out
}

// MatchResult is one candidate produced by matching a specifier against
// Paths; Resolver callers join each Template substitution against
// BaseURLForPaths and try it as a file/dir.
type MatchResult struct {
	Templates []string
	Captured  string
	HasWild   bool
}

// Match selects the best "paths" key for specifier: longest literal
// prefix wins; among ties, a key without "*" is preferred over one with
// it (spec.md §4.7).
func (p *Paths) Match(specifier string) (MatchResult, bool) {
	if p == nil {
		return MatchResult{}, false
	}

	bestIdx := -1
	bestPrefixLen := -1
	bestHasWild := true

	for i, key := range p.Keys {
		star := strings.IndexByte(key, '*')
		var prefix, suffix string
		hasWild := star >= 0
		if hasWild {
			prefix, suffix = key[:star], key[star+1:]
		} else {
			prefix = key
		}

		if !hasWild {
			if specifier != prefix {
				continue
			}
		} else {
			if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
				continue
			}
			if len(specifier) < len(prefix)+len(suffix) {
				continue
			}
		}

		betterLen := len(prefix) > bestPrefixLen
		tieBreakWild := len(prefix) == bestPrefixLen && bestHasWild && !hasWild
		if bestIdx < 0 || betterLen || tieBreakWild {
			bestIdx = i
			bestPrefixLen = len(prefix)
			bestHasWild = hasWild
		}
	}

	if bestIdx < 0 {
		return MatchResult{}, false
	}

	key := p.Keys[bestIdx]
	star := strings.IndexByte(key, '*')
	captured := ""
	hasWild := star >= 0
	if hasWild {
		prefix, suffix := key[:star], key[star+1:]
		captured = specifier[len(prefix) : len(specifier)-len(suffix)]
	}

	return MatchResult{Templates: p.Map[key], Captured: captured, HasWild: hasWild}, true
}

// Substitute replaces every "*" in template with captured (only
// meaningful when HasWild is true; otherwise template is returned as-is).
func (m MatchResult) Substitute(template string) string {
	if !m.HasWild {
		return template
	}
	return strings.ReplaceAll(template, "*", m.Captured)
}
