package resolver

import (
	"strings"

	"github.com/bvanjoi/node-resolver/internal/exports"
	"github.com/bvanjoi/node-resolver/internal/pkgjson"
)

// splitBareSpecifier separates a Normal specifier into its package head
// ("lodash", "@scope/pkg") and the subpath after it ("" or "/foo/bar").
func splitBareSpecifier(target string) (head string, subpath string) {
	if strings.HasPrefix(target, "@") {
		firstSlash := strings.IndexByte(target, '/')
		if firstSlash < 0 {
			return target, ""
		}
		secondSlash := strings.IndexByte(target[firstSlash+1:], '/')
		if secondSlash < 0 {
			return target, ""
		}
		secondSlash += firstSlash + 1
		return target[:secondSlash], target[secondSlash:]
	}
	slash := strings.IndexByte(target, '/')
	if slash < 0 {
		return target, ""
	}
	return target[:slash], target[slash:]
}

// resolveAsModules walks node_modules directories from info.Dir upward,
// attempting the target as a package at each level, and also checks for
// a package self-reference (spec.md §4.6 "Resolve-as-modules").
func (r *Resolver) resolveAsModules(info Info, ctx *Context) State {
	if self, ok := r.trySelfReference(info, ctx); ok {
		return self
	}

	dir := info.Dir
	for {
		candidateRoot := joinPosix(dir, "node_modules")
		if r.dirExists(candidateRoot) {
			if state, ok := r.resolveInPackageRoot(candidateRoot, info, ctx); ok {
				return state
			}
		}
		parent := dirOf(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Failed(info)
}

// trySelfReference resolves target against the enclosing package's own
// "exports" tree when the bare module head equals that package's name.
func (r *Resolver) trySelfReference(info Info, ctx *Context) (State, bool) {
	d := r.entries.loadDir(r.toHostPath(info.Dir))
	pkg, pkgDir, err := r.entries.pkg(d)
	if err != nil {
		return ErrorState(err.(*Error)), true
	}
	if pkg == nil || pkg.Name == "" || !pkg.HasExports {
		return State{}, false
	}
	head, subpath := splitBareSpecifier(info.Req.Target)
	if head != pkg.Name {
		return State{}, false
	}
	return r.resolveViaExports(pkg, pkgDir, subpath, info, ctx), true
}

// resolveInPackageRoot tries target as a package directly under root
// (a node_modules directory), honoring exports-authority.
func (r *Resolver) resolveInPackageRoot(root string, info Info, ctx *Context) (State, bool) {
	head, subpath := splitBareSpecifier(info.Req.Target)
	pkgDir := joinPosix(root, head)
	if !r.dirExists(pkgDir) {
		return State{}, false
	}

	d := r.entries.loadDir(r.toHostPath(pkgDir))
	pkg, ownDir, err := r.entries.pkg(d)
	if err != nil {
		return ErrorState(err.(*Error)), true
	}

	if pkg != nil && ownDir == pkgDir && pkg.HasExports {
		return r.resolveViaExports(pkg, pkgDir, subpath, info, ctx), true
	}

	target := joinPosix(pkgDir, subpath)
	if subpath == "" {
		if resolved, ok := r.resolveAsDirectory(pkgDir, info.FullySpecified); ok {
			return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()}), true
		}
		return State{}, false
	}
	if resolved, ok := r.resolveAsFile(target, info.FullySpecified); ok {
		return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()}), true
	}
	if resolved, ok := r.resolveAsDirectory(target, info.FullySpecified); ok {
		return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()}), true
	}
	return State{}, false
}

// resolveViaExports makes "exports" authoritative: any candidate that
// fails to produce a resolvable file is a hard failure, even if the raw
// file exists on disk (spec.md §4.6). The descriptor is re-fetched by
// pkgExportsLookup, so the caller only needs to have already confirmed
// HasExports is true.
func (r *Resolver) resolveViaExports(pkg *pkgjson.PkgJSON, pkgDir string, subpath string, info Info, ctx *Context) State {
	full, ok := r.pkgExportsLookup(pkgDir, subpath)
	if !ok {
		return ErrorState(packagePathNotExported(pkg.Name, info.Req.Target))
	}
	for _, candidate := range full {
		resolvedPath := joinPosix(pkgDir, candidate)
		if resolved, ok := r.resolveAsFile(resolvedPath, true); ok {
			return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()})
		}
		if resolved, ok := r.resolveAsDirectory(resolvedPath, true); ok {
			return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()})
		}
	}
	return ErrorState(packagePathNotExported(pkg.Name, info.Req.Target))
}

// pkgExportsLookup re-fetches the package descriptor at pkgDir (already
// known to have HasExports) and performs the subpath trie lookup.
func (r *Resolver) pkgExportsLookup(pkgDir string, subpath string) ([]string, bool) {
	d := r.entries.loadDir(r.toHostPath(pkgDir))
	pkg, ownDir, err := r.entries.pkg(d)
	if err != nil || pkg == nil || ownDir != pkgDir || pkg.ExportsTree == nil {
		return nil, false
	}
	key := "."
	if subpath != "" {
		key = "." + subpath
	}
	result, status := exports.Lookup(*pkg.ExportsTree, key, r.opts.ConditionNames)
	if status != exports.StatusExact && status != exports.StatusInexact {
		return nil, false
	}
	return result, true
}
