package resolver

import "github.com/bvanjoi/node-resolver/internal/pathkind"

// Request is an immutable specifier split into its logical target and a
// verbatim trailing suffix (query and/or fragment), grounded on the
// teacher's inline query/fragment splitting in resolveWithoutSymlinks
// (evanw-esbuild/internal/resolver/resolver.go) but promoted into its
// own value per spec.md §3/§4.1. The suffix is kept as one raw string
// rather than normalized Query+Fragment fields so that whatever order
// the caller wrote it in ("?q#f", "#f?q", "?#f", "#f") survives
// untouched when reattached to the resolved path.
type Request struct {
	Target string
	suffix string
	kind   pathkind.Kind
}

// ParseRequest splits a raw specifier into target and suffix.
//
// The suffix begins at whichever of the last "#" or last "?" occurs
// first in the string; everything before that is the target, everything
// from there on is the suffix, reattached verbatim and in the original
// order by Suffix().
func ParseRequest(raw string) Request {
	hash := lastIndexByte(raw, '#')
	question := lastIndexByte(raw, '?')

	if hash < 0 && question < 0 {
		return Request{Target: raw}
	}

	// A leading "#" with no "?" before it is an internal-imports
	// specifier ("#foo/bar"), not a fragment: Internal requests never
	// carry a preceding target.
	if raw[0] == '#' && (question < 0 || question == 0) {
		return Request{Target: raw}
	}

	split := hash
	if question >= 0 && (split < 0 || question < split) {
		split = question
	}

	return Request{Target: raw[:split], suffix: raw[split:]}
}

func lastIndexByte(s string, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// Kind classifies Target, computing and caching it on first use.
func (r *Request) Kind() pathkind.Kind {
	if r.kind == 0 && r.Target != "" {
		r.kind = pathkind.Classify(r.Target)
	} else if r.Target == "" {
		r.kind = pathkind.Empty
	}
	return r.kind
}

// Suffix returns the verbatim trailing query/fragment text, in whatever
// order it originally appeared.
func (r Request) Suffix() string { return r.suffix }

// HasQueryOrFragment reports whether the specifier carried a "?" or "#"
// suffix at all.
func (r Request) HasQueryOrFragment() bool { return r.suffix != "" }

// WithTarget returns a copy of r with a new target, preserving suffix
// and resetting the cached Kind (used by Alias/BrowserField/Imports
// rewriting, which never touch the query/fragment).
func (r Request) WithTarget(target string) Request {
	return Request{Target: target, suffix: r.suffix}
}
