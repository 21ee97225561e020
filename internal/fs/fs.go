// Package fs is the filesystem abstraction used by the rest of the
// resolver. Production code talks to the real OS filesystem through
// RealFS; tests build a tree in memory with MockFS so resolution logic
// can be exercised without touching disk.
package fs

import (
	"sort"
	"strings"
	"sync"
)

// EntryKind is the type of a directory entry, resolved lazily.
type EntryKind uint8

const (
	FileEntry EntryKind = 1
	DirEntry  EntryKind = 2
)

// DifferentCase is returned when a lookup succeeded only because the
// filesystem is case-insensitive; the caller asked for one spelling and
// got another. Surfaced so the resolver can warn about portability bugs.
type DifferentCase struct {
	Dir    string
	Query  string
	Actual string
}

// Entry is one named child of a directory. Its kind and symlink target
// are computed at most once, the first time either is asked for.
type Entry struct {
	dir  string
	base string

	once    sync.Once
	kind    EntryKind
	symlink string
}

func (e *Entry) stat(f FS) {
	e.once.Do(func() {
		e.kind, e.symlink = f.statEntry(e.dir, e.base)
	})
}

func (e *Entry) Kind(f FS) EntryKind {
	e.stat(f)
	return e.kind
}

// Symlink returns the entry's raw symlink target, or "" if it isn't one.
func (e *Entry) Symlink(f FS) string {
	e.stat(f)
	return e.symlink
}

// DirEntries is the listing of one directory, keyed case-insensitively
// (to match node's behavior on case-insensitive filesystems) while still
// remembering the original spelling for DifferentCase diagnostics.
type DirEntries struct {
	dir  string
	data map[string]*Entry
}

func MakeEmptyDirEntries(dir string) DirEntries {
	return DirEntries{dir: dir, data: make(map[string]*Entry)}
}

func (entries DirEntries) Get(query string) (*Entry, *DifferentCase) {
	if entries.data == nil {
		return nil, nil
	}
	entry, ok := entries.data[strings.ToLower(query)]
	if !ok {
		return nil, nil
	}
	if entry.base != query {
		return entry, &DifferentCase{Dir: entries.dir, Query: query, Actual: entry.base}
	}
	return entry, nil
}

func (entries DirEntries) SortedKeys() []string {
	keys := make([]string, 0, len(entries.data))
	for _, e := range entries.data {
		keys = append(keys, e.base)
	}
	sort.Strings(keys)
	return keys
}

func (entries DirEntries) Len() int { return len(entries.data) }

// FS is the minimal filesystem surface the resolver needs. Every method
// must be safe to call concurrently from multiple goroutines.
type FS interface {
	// ReadDirectory lists one directory's entries. A missing directory is
	// reported via the returned error being fs.ErrNotExist (use errors.Is).
	ReadDirectory(path string) (DirEntries, error)

	// ReadFile returns the full contents of path plus a modification key
	// used by callers to invalidate their own parse caches.
	ReadFile(path string) (contents string, modKey string, err error)

	// EvalSymlinks resolves every symlink component in path and returns
	// the canonical absolute path. ok is false if path doesn't exist.
	EvalSymlinks(path string) (resolved string, ok bool)

	statEntry(dir string, base string) (EntryKind, string)

	Cwd() string
	IsAbs(path string) bool
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Ext(path string) string
	Join(parts ...string) string
	Rel(base string, target string) (string, bool)
}

// IsInsideNodeModules reports whether any path component equals
// "node_modules", compared case-insensitively.
func IsInsideNodeModules(path string) bool {
	for {
		slash := strings.LastIndexAny(path, "/\\")
		if slash == -1 {
			return strings.EqualFold(path, "node_modules")
		}
		if strings.EqualFold(path[slash+1:], "node_modules") {
			return true
		}
		path = path[:slash]
		if path == "" {
			return false
		}
	}
}
