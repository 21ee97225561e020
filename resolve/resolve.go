// Package resolve is the public surface spec.md §6 calls the "library
// entry": two operations, Resolve and LoadSideEffects, plus an Options
// constructor. Everything here is a thin translation layer over
// internal/resolver — the pipeline, caching, and pattern-matching all
// live there; this package only adapts internal/resolver's types to the
// ResolveResult/Error shapes spec.md §6 names, the way the teacher keeps
// its public API surface (pkg/api) a thin wrapper around the internal
// bundler/resolver packages rather than re-exporting their guts.
package resolve

import (
	"github.com/bvanjoi/node-resolver/internal/cache"
	"github.com/bvanjoi/node-resolver/internal/diag"
	"github.com/bvanjoi/node-resolver/internal/fs"
	"github.com/bvanjoi/node-resolver/internal/resolver"
)

// Resource is a successfully resolved module (spec.md §6:
// "Resource{path, query, fragment, descriptor?}").
type Resource struct {
	Path     string
	Query    string
	Fragment string

	// Descriptor is the absolute path of the package.json (or configured
	// description_file) that owns Path, or "" if none was found — e.g.
	// a BuiltinModule resource has no owning descriptor.
	Descriptor string
}

// Result is the sum type spec.md §6 names "Result<ResolveResult>":
// exactly one of Resource or Ignored is meaningful, discriminated by
// Ignored.
// Ignored is the explicit "resolved, but intentionally empty" outcome
// (an `Ignored` alias/browser-field entry), distinct from a failed
// resolution, which is surfaced as an error instead.
type Result struct {
	Resource Resource
	Ignored  bool
}

// Resolver wraps internal/resolver.Resolver, exposing only the two
// operations spec.md §6 specifies as the library's external interface.
type Resolver struct {
	r    *resolver.Resolver
	fsys fs.FS
}

// Options mirrors internal/resolver.Options field-for-field; kept as a
// distinct type so resolve's public API does not leak an internal
// package's type into callers' signatures.
type Options struct {
	Extensions       []string
	EnforceExtension EnforceExtension
	Alias            map[string]AliasEntry
	Fallback         map[string]AliasEntry
	PreferRelative   bool
	Symlinks         bool
	DescriptionFile  string
	MainFiles        []string
	MainFields       []string
	BrowserField     bool
	ConditionNames   []string
	TsconfigPath     string
	FullySpecified   bool
	ResolveToContext bool

	// SharedCache lets multiple Resolver instances (or resolve.New calls)
	// observe one another's cache fills (spec.md §3 Options.external_cache).
	// Nil creates a private cache scoped to this Resolver alone.
	SharedCache *SharedCache

	// TraceLevel sets the level of the internal/diag log handed to the
	// internal resolver. The resolver writes no trace lines to that log,
	// so no level produces output.
	TraceLevel diag.Level
}

type EnforceExtension = resolver.EnforceExtension

const (
	EnforceAuto     = resolver.EnforceAuto
	EnforceEnabled  = resolver.EnforceEnabled
	EnforceDisabled = resolver.EnforceDisabled
)

// AliasEntry is the public form of resolver.AliasEntry: either a rewrite
// target (To != "", Ignored == false) or an explicit ignore marker.
type AliasEntry struct {
	Ignored bool
	To      string
}

// SharedCache is an opaque handle to a process-scoped cache, constructed
// with NewSharedCache and passed via Options.SharedCache.
type SharedCache struct {
	shared *cache.Shared
}

func NewSharedCache() *SharedCache {
	return &SharedCache{shared: cache.NewShared()}
}

// New builds a Resolver bound to the real OS filesystem.
func New(opts Options) (*Resolver, error) {
	realFS, err := fs.NewRealFS()
	if err != nil {
		return nil, err
	}
	return newWithFS(realFS, opts), nil
}

func newWithFS(fsys fs.FS, opts Options) *Resolver {
	internalOpts := resolver.Options{
		Extensions:       opts.Extensions,
		EnforceExtension: opts.EnforceExtension,
		Alias:            toAliasMap(opts.Alias),
		Fallback:         toAliasMap(opts.Fallback),
		PreferRelative:   opts.PreferRelative,
		Symlinks:         opts.Symlinks,
		DescriptionFile:  opts.DescriptionFile,
		MainFiles:        opts.MainFiles,
		MainFields:       opts.MainFields,
		BrowserField:     opts.BrowserField,
		ConditionNames:   toConditionSet(opts.ConditionNames),
		TsconfigPath:     opts.TsconfigPath,
		FullySpecified:   opts.FullySpecified,
		ResolveToContext: opts.ResolveToContext,
	}

	var shared *cache.Shared
	if opts.SharedCache != nil {
		shared = opts.SharedCache.shared
	}

	log := diag.NewLog(opts.TraceLevel)
	return &Resolver{r: resolver.New(fsys, internalOpts, shared, log), fsys: fsys}
}

func toAliasMap(m map[string]AliasEntry) *resolver.AliasMap {
	if len(m) == 0 {
		return nil
	}
	out := resolver.NewAliasMap()
	for k, v := range m {
		kind := resolver.AliasTarget
		if v.Ignored {
			kind = resolver.AliasIgnored
		}
		out.Set(k, resolver.AliasEntry{Kind: kind, To: v.To})
	}
	return out
}

func toConditionSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// Resolve implements spec.md §6's `resolve(referring_dir, specifier)`.
// A soft failure (no candidate resolved) comes back as a *Error whose
// Kind is ErrResolveFailed; callers that want to distinguish "not found"
// from a hard error should inspect Kind rather than treating every
// non-nil error alike (spec.md §7's soft/hard split).
func (res *Resolver) Resolve(referringDir, specifier string) (Result, error) {
	resource, ok, err := res.r.Resolve(referringDir, specifier)
	if err != nil {
		return Result{}, (*Error)(err)
	}
	if !ok {
		return Result{}, nil
	}
	if resolver.Ignored(resource, ok) {
		return Result{Ignored: true}, nil
	}
	out := splitResource(resource)
	if descriptorPath, pkg, _, derr := res.r.FindOwningPackage(resource.Path); derr == nil && pkg != nil {
		out.Descriptor = descriptorPath
	}
	return Result{Resource: out}, nil
}

// splitResource re-derives Query/Fragment from the combined Suffix for
// callers that want them separately, preserving original ordering
// (spec.md §4.1) by scanning the same way Request does.
func splitResource(r resolver.Resource) Resource {
	suffix := r.Suffix
	out := Resource{Path: r.Path}
	if suffix == "" {
		return out
	}
	hash := -1
	question := -1
	for i := 0; i < len(suffix); i++ {
		switch suffix[i] {
		case '#':
			hash = i
		case '?':
			question = i
		}
	}
	switch {
	case hash >= 0 && question >= 0 && question < hash:
		out.Query = suffix[question:hash]
		out.Fragment = suffix[hash:]
	case hash >= 0 && question >= 0:
		out.Fragment = suffix[hash:question]
		out.Query = suffix[question:]
	case question >= 0:
		out.Query = suffix[question:]
	case hash >= 0:
		out.Fragment = suffix[hash:]
	}
	return out
}

// SideEffectsResult is spec.md §6's `Option<(descriptor_path,
// side_effects)>`: Found is false when no owning descriptor exists or it
// declares no "sideEffects" field at all (meaning: treat as having side
// effects, the npm default).
type SideEffectsResult struct {
	Found          bool
	DescriptorPath string
	HasSideEffects bool
}

// LoadSideEffects implements spec.md §6's `load_side_effects(resolved_path)`:
// it finds resolvedPath's owning package descriptor and reports whether
// that path is declared to have side effects, per the descriptor's
// "sideEffects" field (bool, or glob allowlist matched with doublestar —
// see internal/pkgjson.SideEffects.HasSideEffects).
func (res *Resolver) LoadSideEffects(resolvedPath string) (SideEffectsResult, error) {
	descriptorPath, pkg, relPath, err := res.r.FindOwningPackage(resolvedPath)
	if err != nil {
		return SideEffectsResult{}, (*Error)(err)
	}
	if pkg == nil || pkg.SideEffects == nil {
		return SideEffectsResult{}, nil
	}
	return SideEffectsResult{
		Found:          true,
		DescriptorPath: descriptorPath,
		HasSideEffects: pkg.SideEffects.HasSideEffects(relPath),
	}, nil
}
