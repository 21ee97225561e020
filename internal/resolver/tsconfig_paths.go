package resolver

import (
	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
	"github.com/bvanjoi/node-resolver/internal/pathkind"
	"github.com/bvanjoi/node-resolver/internal/tsconfig"
)

// resolveViaTsconfigPaths implements spec.md §4.7's "Paths matching":
// only Normal specifiers are eligible (relative/absolute paths never go
// through tsconfig "paths"), and a miss falls back to normal resolution
// rather than failing outright.
func (r *Resolver) resolveViaTsconfigPaths(dir string, req Request, ctx *Context) (Resource, bool, *Error) {
	cfg, err := r.loadTsconfig()
	if err != nil {
		return Resource{}, false, err
	}
	if cfg == nil || cfg.Paths == nil || req.Kind() != pathkind.Normal {
		return Resource{}, false, nil
	}

	match, ok := cfg.Paths.Match(req.Target)
	if !ok {
		return Resource{}, false, nil
	}

	for _, template := range match.Templates {
		substituted := match.Substitute(template)
		candidate := joinPosix(cfg.BaseURLForPaths, substituted)

		if resolved, ok := r.resolveAsFile(candidate, r.opts.FullySpecified); ok {
			return Resource{Path: resolved, Suffix: req.Suffix()}, true, nil
		}
		if resolved, ok := r.resolveAsDirectory(candidate, r.opts.FullySpecified); ok {
			return Resource{Path: resolved, Suffix: req.Suffix()}, true, nil
		}
	}

	return Resource{}, false, nil
}

// loadTsconfig reads, JSONC-parses, and extends-merges the configured
// tsconfig, memoized for the lifetime of this Resolver (spec.md §4.7).
func (r *Resolver) loadTsconfig() (*tsconfig.Config, *Error) {
	if r.opts.TsconfigPath == "" {
		return nil, nil
	}
	if r.tsconfigCache != nil {
		if r.tsconfigCache.err != nil {
			return nil, r.tsconfigCache.err.(*Error)
		}
		return r.tsconfigCache.config, nil
	}

	cfg, err := r.loadTsconfigChain(r.opts.TsconfigPath, 0)
	if err != nil {
		r.tsconfigCache = &tsconfigResolution{err: err}
		return nil, err.(*Error)
	}
	r.tsconfigCache = &tsconfigResolution{config: cfg}
	return cfg, nil
}

const maxTsconfigExtendsDepth = 32

func (r *Resolver) loadTsconfigChain(absPath string, depth int) (*tsconfig.Config, error) {
	if depth > maxTsconfigExtendsDepth {
		return nil, overflow(absPath)
	}

	contents, _, err := r.fsys.ReadFile(r.toHostPath(absPath))
	if err != nil {
		return nil, cantFindTsConfig(absPath)
	}

	v, parseErr := jsonvalue.ParseJSONC(contents)
	if parseErr != nil {
		return nil, unexpectedJSON(absPath, parseErr)
	}
	cfg, parseErr := tsconfig.ParseValue(absPath, v, dirOf)
	if parseErr != nil {
		return nil, unexpectedJSON(absPath, parseErr)
	}

	extendsPath, ok := r.tsconfigExtendsTarget(absPath, v)
	if !ok {
		return cfg, nil
	}

	base, err := r.loadTsconfigChain(extendsPath, depth+1)
	if err != nil {
		return nil, err
	}
	return tsconfig.Merge(cfg, base), nil
}

// tsconfigExtendsTarget resolves the "extends" field (a relative,
// absolute, or bare-package specifier) to an absolute tsconfig path by
// reusing the regular resolution pipeline (spec.md §4.7: "evaluate
// extends by resolving the string as a module specifier").
func (r *Resolver) tsconfigExtendsTarget(absPath string, v jsonvalue.Value) (string, bool) {
	extendsVal, ok := v.Prop("extends")
	if !ok {
		return "", false
	}
	extends, ok := extendsVal.AsString()
	if !ok || extends == "" {
		return "", false
	}

	dir := dirOf(absPath)
	req := ParseRequest(extends)
	if req.Kind() == pathkind.Relative || req.Kind() == pathkind.AbsolutePosix || req.Kind() == pathkind.AbsoluteWindows {
		candidate := joinPosix(dir, extends)
		if !hasJSONExt(candidate) && r.isFile(candidate+".json") {
			return candidate + ".json", true
		}
		return candidate, true
	}

	// Run the pipeline directly rather than through Resolve: Resolve
	// applies tsconfig "paths" and would re-enter loadTsconfig while this
	// tsconfig is still being loaded.
	st := runPipeline(r, Info{Dir: dir, Req: req}, NewContext())
	if !st.IsSuccess() || st.Resource().Path == "" {
		return "", false
	}
	return st.Resource().Path, true
}

func hasJSONExt(p string) bool {
	return len(p) >= 5 && p[len(p)-5:] == ".json"
}
