// Package cache is the Shared Cache (spec.md §3/§10): a process-scoped
// container with slots for parsed package descriptors, parsed tsconfigs
// and directory listings, so multiple Resolver instances (or concurrent
// calls on one) can share work. internal/resolver fills and reads only
// the descriptor slot; its entry cache is kept per Resolver, outside
// this package. Sharded LRU storage is grounded on
// github.com/hashicorp/golang-lru/v2, used the same way
// Keyhole-Koro-InsightifyCore wires it for its own lookup caches;
// concurrent duplicate fills are collapsed with
// golang.org/x/sync/singleflight, the same package bennypowers-mappa,
// onedusk-pd, and standardbeagle-lci all depend on for request
// coalescing.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/bvanjoi/node-resolver/internal/pkgjson"
	"github.com/bvanjoi/node-resolver/internal/tsconfig"
)

const defaultShardCapacity = 4096

// Shared holds one Once cache per kind of parsed data, keyed so that two
// resolver instances pointed at the same SharedCache observe one
// another's fills (spec.md §3 Options.external_cache). The resolver uses
// Descriptors; TsConfigs and DirListings are not filled by it.
type Shared struct {
	Descriptors *Once[*pkgjson.PkgJSON]
	TsConfigs   *Once[*tsconfig.Config]
	DirListings *Once[[]string]
}

// NewShared builds an empty, ready-to-use Shared cache.
func NewShared() *Shared {
	return &Shared{
		Descriptors: NewOnce[*pkgjson.PkgJSON](),
		TsConfigs:   NewOnce[*tsconfig.Config](),
		DirListings: NewOnce[[]string](),
	}
}

// Once is a content-addressed, singleflight-coalesced, LRU-bounded
// cache: for a given key, at most one fill ever runs even under
// concurrent callers, and the result is memoized until evicted.
type Once[V any] struct {
	lru   *lru.Cache[string, entry[V]]
	group singleflight.Group
}

type entry[V any] struct {
	value V
	err   error
}

func NewOnce[V any]() *Once[V] {
	c, _ := lru.New[string, entry[V]](defaultShardCapacity)
	return &Once[V]{lru: c}
}

// GetOrLoad returns the memoized value for key, calling load at most
// once across all concurrent callers that race on the same key.
// modKey is folded into the cache key so a changed (path, mtime) pair
// is treated as a fresh entry rather than reusing a stale value
// (spec.md §4.5: "on mtime change ... the file is re-read").
func (o *Once[V]) GetOrLoad(path, modKey string, load func() (V, error)) (V, error) {
	key := path + "\x00" + modKey

	if e, ok := o.lru.Get(key); ok {
		return e.value, e.err
	}

	v, err, _ := o.group.Do(key, func() (interface{}, error) {
		if e, ok := o.lru.Get(key); ok {
			return e, e.err
		}
		value, loadErr := load()
		o.lru.Add(key, entry[V]{value: value, err: loadErr})
		return entry[V]{value: value, err: loadErr}, loadErr
	})

	if typed, ok := v.(entry[V]); ok {
		return typed.value, typed.err
	}
	var zero V
	return zero, err
}

// Invalidate drops every memoized value for path, regardless of modKey,
// used when the caller knows a file changed but doesn't have its new
// mtime handy.
func (o *Once[V]) Invalidate(path string) {
	for _, key := range o.lru.Keys() {
		if len(key) > len(path) && key[:len(path)] == path && key[len(path)] == 0 {
			o.lru.Remove(key)
		}
	}
}
