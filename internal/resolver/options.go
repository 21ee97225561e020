package resolver

import "strings"

// EnforceExtension controls whether resolve-as-file accepts an
// extensionless hit, per spec.md §3 Options.enforce_extension.
type EnforceExtension uint8

const (
	EnforceAuto EnforceExtension = iota
	EnforceEnabled
	EnforceDisabled
)

// AliasKind tags one AliasMap entry: either a rewrite target or a hard
// "ignore this module" marker (used for e.g. `"fs": false` in a
// bundler's browser field).
type AliasKind uint8

const (
	AliasTarget AliasKind = iota
	AliasIgnored
)

type AliasEntry struct {
	Kind AliasKind
	To   string
}

// AliasMap is an ordered mapping; order is significant because the
// first matching key wins (spec.md §3 AliasMap).
type AliasMap struct {
	keys    []string
	entries map[string]AliasEntry
}

func NewAliasMap() *AliasMap {
	return &AliasMap{entries: make(map[string]AliasEntry)}
}

func (m *AliasMap) Set(key string, entry AliasEntry) {
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = entry
}

func (m *AliasMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Match finds the first key in insertion order such that target == key
// or target begins with key + "/", returning the matched key, its
// entry, and the remainder of target beyond the key.
func (m *AliasMap) Match(target string) (key string, entry AliasEntry, rest string, ok bool) {
	if m == nil {
		return "", AliasEntry{}, "", false
	}
	for _, k := range m.keys {
		if target == k {
			return k, m.entries[k], "", true
		}
		if strings.HasPrefix(target, k+"/") {
			return k, m.entries[k], target[len(k):], true
		}
	}
	return "", AliasEntry{}, "", false
}

// Options is the resolver's normalized configuration, per spec.md §3.
type Options struct {
	Extensions       []string
	EnforceExtension EnforceExtension
	Alias            *AliasMap
	Fallback         *AliasMap
	PreferRelative   bool
	Symlinks         bool
	DescriptionFile  string
	MainFiles        []string
	MainFields       []string
	BrowserField     bool
	ConditionNames   map[string]bool
	TsconfigPath     string // absolute, or "" for none
	FullySpecified   bool
	ResolveToContext bool
}

// Normalize fills in defaults and strips leading dots from extensions,
// mirroring NewResolver's option-normalization step in the teacher
// (evanw-esbuild/internal/resolver/resolver.go NewResolver) but adapted
// to this module's own Options shape (spec.md §4.8).
func (o Options) Normalize(cwd string, isAbs func(string) bool, abs func(string) (string, bool)) Options {
	out := o

	out.Extensions = make([]string, len(o.Extensions))
	for i, ext := range o.Extensions {
		out.Extensions[i] = strings.TrimPrefix(ext, ".")
	}

	if o.EnforceExtension == EnforceAuto {
		out.EnforceExtension = EnforceDisabled
		for _, ext := range out.Extensions {
			if ext == "" {
				out.EnforceExtension = EnforceEnabled
				break
			}
		}
	}

	if out.DescriptionFile == "" {
		out.DescriptionFile = "package.json"
	}
	if len(out.MainFiles) == 0 {
		out.MainFiles = []string{"index"}
	}
	if len(out.MainFields) == 0 {
		out.MainFields = []string{"main"}
	}
	if out.ConditionNames == nil {
		out.ConditionNames = map[string]bool{"node": true}
	}

	if o.TsconfigPath != "" && !isAbs(o.TsconfigPath) {
		if resolved, ok := abs(o.TsconfigPath); ok {
			out.TsconfigPath = resolved
		}
	}

	return out
}
