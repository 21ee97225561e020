// Package resolver implements the Resolver Facade and Plugin Pipeline
// from spec.md §4.6/§4.8: the staged transformation of a Request into a
// concrete file, alias/browser/imports rewriting, and the node_modules
// walk with "exports" authority. Structurally grounded on the teacher's
// single God-object *resolver in evanw-esbuild/internal/resolver/
// resolver.go, but split into the Info/State/Context value types and
// staged `then` chain spec.md's own design calls for.
package resolver

import (
	"strings"

	"github.com/bvanjoi/node-resolver/internal/cache"
	"github.com/bvanjoi/node-resolver/internal/diag"
	"github.com/bvanjoi/node-resolver/internal/fs"
	"github.com/bvanjoi/node-resolver/internal/pkgjson"
	"github.com/bvanjoi/node-resolver/internal/tsconfig"
)

// Resolver is the entry point (spec.md §4.8). It is safe for concurrent
// use: all mutable state lives in entryCache/cache.Shared, which use
// their own internal synchronization.
type Resolver struct {
	fsys    fs.FS
	opts    Options
	entries *entryCache
	shared  *cache.Shared
	log     *diag.Log

	tsconfigCache *tsconfigResolution
}

type tsconfigResolution struct {
	config *tsconfig.Config
	err    error
}

// New normalizes options and builds a Resolver bound to fsys. shared may
// be nil, in which case a private cache is created (spec.md §3
// Options.external_cache).
func New(fsys fs.FS, opts Options, shared *cache.Shared, log *diag.Log) *Resolver {
	normalized := opts.Normalize(fsys.Cwd(), fsys.IsAbs, fsys.Abs)
	if normalized.Alias == nil {
		normalized.Alias = NewAliasMap()
	}
	if normalized.Fallback == nil {
		normalized.Fallback = NewAliasMap()
	}
	if shared == nil {
		shared = cache.NewShared()
	}
	r := &Resolver{
		fsys:   fsys,
		opts:   normalized,
		shared: shared,
		log:    log,
	}
	r.entries = newEntryCache(fsys, shared, normalized.DescriptionFile)
	return r
}

// toHostPath/fromHostPath bridge this package's internal POSIX-style
// path representation to whatever fs.FS expects. RealFS and MockFS in
// this module both already speak POSIX-separated paths, so these are
// identity today; they exist as the single seam a Windows-native fs.FS
// implementation would need to hook (documented as an accepted scope
// simplification, not a correctness claim about win32 UNC/drive paths).
func (r *Resolver) toHostPath(p string) string   { return p }
func (r *Resolver) fromHostPath(p string) string { return p }

// Resolve runs referringDir+specifier through the pipeline, applying
// tsconfig "paths" first when configured (spec.md §4.7 integrates ahead
// of the main Alias/Imports/Browser chain, since a tsconfig path match
// substitutes the specifier before anything else sees it).
func (r *Resolver) Resolve(referringDir string, specifier string) (Resource, bool, *Error) {
	ctx := NewContext()
	dir := cleanPosix(referringDir)
	req := ParseRequest(specifier)

	if r.opts.TsconfigPath != "" {
		if resolved, ok, err := r.resolveViaTsconfigPaths(dir, req, ctx); err != nil {
			return Resource{}, false, err
		} else if ok {
			return resolved, true, nil
		}
	}

	info := Info{Dir: dir, Req: req, FullySpecified: r.opts.FullySpecified, ResolveToContext: r.opts.ResolveToContext}
	st := runPipeline(r, info, ctx)

	switch {
	case st.IsSuccess():
		return st.Resource(), true, nil
	case st.IsIgnored():
		return Resource{}, true, nil
	case st.IsError():
		return Resource{}, false, st.Err()
	default:
		return Resource{}, false, resolveFailed(specifier)
	}
}

// FindOwningPackage locates the nearest ancestor package descriptor for
// an already-resolved absolute path, returning the descriptor's own
// absolute path, the parsed descriptor, and path's slash-separated
// location relative to that descriptor's directory — the three pieces
// resolve.LoadSideEffects needs for spec.md §6's
// `load_side_effects(resolved_path)`.
func (r *Resolver) FindOwningPackage(path string) (descriptorPath string, pkg *pkgjson.PkgJSON, relPath string, err *Error) {
	dir := dirOf(cleanPosix(r.toHostPath(path)))
	d := r.entries.loadDir(dir)
	p, pkgDir, loadErr := r.entries.pkg(d)
	if loadErr != nil {
		return "", nil, "", loadErr.(*Error)
	}
	if p == nil {
		return "", nil, "", nil
	}
	rel := strings.TrimPrefix(path, pkgDir)
	rel = strings.TrimPrefix(rel, "/")
	return joinPosix(pkgDir, r.opts.DescriptionFile), p, rel, nil
}

// Ignored reports whether the result of Resolve represents an explicit
// alias/browser-field "false" entry (module intentionally ignored)
// rather than a successful resolution. Call it only when ok is true.
func Ignored(res Resource, ok bool) bool {
	return ok && res.Path == ""
}
