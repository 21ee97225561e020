package resolver

import (
	"strings"

	"github.com/bvanjoi/node-resolver/internal/exports"
	"github.com/bvanjoi/node-resolver/internal/pathkind"
	"github.com/bvanjoi/node-resolver/internal/pkgjson"
)

// stage is one link of the Plugin Pipeline (spec.md §4.6): it consumes a
// Resolving state and returns the next state. A stage with nothing to do
// returns its input unchanged; `then` short-circuits once a stage
// produces a finished state.
type stage func(r *Resolver, st State, ctx *Context) State

// then runs st through next only if st is still Resolving, matching the
// "a finished state short-circuits all downstream stages" rule.
func then(st State, next stage, r *Resolver, ctx *Context) State {
	if !st.IsResolving() {
		return st
	}
	return next(r, st, ctx)
}

// runPipeline threads an initial Resolving(info) state through every
// stage in the fixed order spec.md §4.6 mandates.
func runPipeline(r *Resolver, info Info, ctx *Context) State {
	overflowErr, release := ctx.Enter(info.Dir + info.Req.Target)
	if overflowErr != nil {
		return ErrorState(overflowErr)
	}
	defer release()

	st := Resolving(info)
	st = then(st, stageParse, r, ctx)
	st = then(st, stageAlias, r, ctx)
	st = then(st, stagePreferRelative, r, ctx)
	st = then(st, stageImports, r, ctx)
	st = then(st, stageBrowser, r, ctx)
	st = then(st, stageMainDispatch, r, ctx)
	if st.IsFailed() {
		st = then(Resolving(st.Info()), stageFallback, r, ctx)
	}
	st = then(st, stageSymlink, r, ctx)
	return st
}

// stageParse re-classifies kind and is a no-op once Parse has already
// run (query/fragment splitting happens once, in ParseRequest).
func stageParse(r *Resolver, st State, ctx *Context) State {
	info := st.Info()
	info.Req.Kind()
	return Resolving(info)
}

// stageAlias iterates options.Alias in insertion order (spec.md §4.6 #2).
func stageAlias(r *Resolver, st State, ctx *Context) State {
	return applyAliasMap(r, st, ctx, r.opts.Alias)
}

// stageFallback re-runs alias matching against options.Fallback once the
// whole chain has otherwise failed (spec.md §4.6 #7).
func stageFallback(r *Resolver, st State, ctx *Context) State {
	return applyAliasMap(r, st, ctx, r.opts.Fallback)
}

func applyAliasMap(r *Resolver, st State, ctx *Context, aliases *AliasMap) State {
	info := st.Info()
	if aliases.Len() == 0 {
		return Resolving(info)
	}

	_, entry, rest, ok := aliases.Match(info.Req.Target)
	if !ok {
		return Resolving(info)
	}
	if entry.Kind == AliasIgnored {
		return Success(Resource{Suffix: info.Req.Suffix()})
	}

	to := entry.To
	rewritten := to + rest
	if to != "" && rewritten == info.Req.Target {
		// No progress: substituting produced the identical target again.
		return Resolving(info)
	}

	// Unlike exports/imports lookups, alias rewriting has no (dir, target)
	// seen-stack: a short alias cycle (spec.md §8 "an alias cycle of
	// length <=126 resolves or fails cleanly; one of length >=127 returns
	// Overflow") is meant to recurse until the depth limit in ctx.Enter
	// (called by the runPipeline below) trips, not to be short-circuited
	// the first time a target repeats.
	next := info.WithRequest(info.Req.WithTarget(rewritten))
	result := runPipeline(r, next, ctx)
	if result.IsFinished() {
		return result
	}
	return Resolving(info)
}

// stagePreferRelative retries a bare specifier as "./target" when
// options.PreferRelative is set (spec.md §4.6 #3).
func stagePreferRelative(r *Resolver, st State, ctx *Context) State {
	info := st.Info()
	if !r.opts.PreferRelative || !pathkind.IsPackagePath(info.Req.Target) {
		return Resolving(info)
	}
	next := info.WithRequest(info.Req.WithTarget("./" + info.Req.Target))
	result := runPipeline(r, next, ctx)
	if result.IsFinished() {
		return result
	}
	return Resolving(info)
}

// stageImports performs "#..." subpath lookup against the enclosing
// package's "imports" tree (spec.md §4.6 #4).
func stageImports(r *Resolver, st State, ctx *Context) State {
	info := st.Info()
	if info.Req.Kind() != pathkind.Internal {
		return Resolving(info)
	}

	d := r.entries.loadDir(r.toHostPath(info.Dir))
	pkg, _, err := r.entries.pkg(d)
	if err != nil {
		return ErrorState(err.(*Error))
	}
	if pkg == nil || pkg.ImportsTree == nil {
		return Failed(info)
	}

	result, status := exports.Lookup(*pkg.ImportsTree, info.Req.Target, r.opts.ConditionNames)
	if status != exports.StatusExact && status != exports.StatusInexact {
		return Failed(info)
	}
	for _, candidate := range result {
		release, isCycle := ctx.MarkCycle(info.Dir, candidate)
		if isCycle {
			continue
		}
		next := info.WithRequest(info.Req.WithTarget(candidate))
		res := runPipeline(r, next, ctx)
		release()
		if res.IsFinished() {
			return res
		}
	}
	return Failed(info)
}

// stageBrowser applies the enclosing package's object-form "browser"
// alias map (spec.md §4.6 #5).
func stageBrowser(r *Resolver, st State, ctx *Context) State {
	info := st.Info()
	if !r.opts.BrowserField {
		return Resolving(info)
	}

	d := r.entries.loadDir(r.toHostPath(info.Dir))
	pkg, pkgDir, err := r.entries.pkg(d)
	if err != nil {
		return ErrorState(err.(*Error))
	}
	if pkg == nil || pkg.BrowserAlias == nil {
		return Resolving(info)
	}

	var matchKey string
	switch info.Req.Kind() {
	case pathkind.Normal:
		matchKey = info.Req.Target
	case pathkind.Relative, pathkind.AbsolutePosix, pathkind.AbsoluteWindows:
		abs := joinPosix(info.Dir, info.Req.Target)
		rel := strings.TrimPrefix(abs, pkgDir)
		matchKey = "." + rel
		if resolved, ok := r.resolveAsFile(abs, false); ok {
			relResolved := strings.TrimPrefix(resolved, pkgDir)
			if entry, ok := pkg.BrowserAlias["."+relResolved]; ok {
				return applyBrowserEntry(r, info, entry, ctx)
			}
		}
	default:
		return Resolving(info)
	}

	entry, ok := pkg.BrowserAlias[matchKey]
	if !ok {
		return Resolving(info)
	}
	return applyBrowserEntry(r, info, entry, ctx)
}

// stageMainDispatch is spec.md §4.6 #6: the actual filesystem dispatch,
// branching on the request's PathKind.
func stageMainDispatch(r *Resolver, st State, ctx *Context) State {
	info := st.Info()
	switch info.Req.Kind() {
	case pathkind.BuiltinModule:
		return Success(Resource{Path: info.Req.Target, Suffix: info.Req.Suffix()})

	case pathkind.Relative, pathkind.AbsolutePosix, pathkind.AbsoluteWindows:
		path := joinPosix(info.Dir, info.Req.Target)
		if info.Req.Kind() == pathkind.AbsolutePosix || info.Req.Kind() == pathkind.AbsoluteWindows {
			path = cleanPosix(info.Req.Target)
		}

		if info.ResolveToContext {
			if r.isDir(path) {
				return Success(Resource{Path: path, Suffix: info.Req.Suffix()})
			}
			return Failed(info)
		}
		if info.FullySpecified {
			if resolved, ok := r.resolveAsFile(path, true); ok {
				return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()})
			}
			return Failed(info)
		}
		if resolved, ok := r.resolveAsFile(path, false); ok {
			return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()})
		}
		if resolved, ok := r.resolveAsDirectory(path, false); ok {
			return Success(Resource{Path: resolved, Suffix: info.Req.Suffix()})
		}
		return Failed(info)

	case pathkind.Normal:
		return r.resolveAsModules(info, ctx)

	default:
		// Internal specifiers that stageImports couldn't resolve, and
		// Empty specifiers, have no further dispatch to attempt.
		return Failed(info)
	}
}

// stageSymlink replaces the final resolved path with its canonical
// realpath when options.Symlinks is set (spec.md §4.6 #8).
func stageSymlink(r *Resolver, st State, ctx *Context) State {
	if !st.IsSuccess() || !r.opts.Symlinks {
		return st
	}
	res := st.Resource()
	if res.Path == "" {
		return st
	}
	if real, ok := r.fsys.EvalSymlinks(r.toHostPath(res.Path)); ok {
		res.Path = r.fromHostPath(real)
	}
	return Success(res)
}

func applyBrowserEntry(r *Resolver, info Info, entry pkgjson.BrowserEntry, ctx *Context) State {
	if entry.Ignored {
		return Success(Resource{Suffix: info.Req.Suffix()})
	}
	if entry.Target == "" || entry.Target == info.Req.Target {
		// Self-pointing mapping is a no-op, avoiding an infinite loop
		// (spec.md §4.6 #5).
		return Resolving(info)
	}
	next := info.WithRequest(info.Req.WithTarget(entry.Target))
	result := runPipeline(r, next, ctx)
	if result.IsFinished() {
		return result
	}
	return Resolving(info)
}
