package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RealFS talks to the host operating system. It caches directory
// listings so repeated lookups of the same directory (common during a
// node_modules walk) don't re-hit the syscall layer.
type RealFS struct {
	cwd string

	mu      sync.Mutex
	listing map[string]*cachedDir
}

type cachedDir struct {
	once    sync.Once
	entries DirEntries
	err     error
}

func NewRealFS() (*RealFS, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &RealFS{cwd: cwd, listing: make(map[string]*cachedDir)}, nil
}

func (r *RealFS) Cwd() string { return r.cwd }

func (r *RealFS) getCached(path string) *cachedDir {
	r.mu.Lock()
	cd, ok := r.listing[path]
	if !ok {
		cd = &cachedDir{}
		r.listing[path] = cd
	}
	r.mu.Unlock()
	return cd
}

func (r *RealFS) ReadDirectory(path string) (DirEntries, error) {
	cd := r.getCached(path)
	cd.once.Do(func() {
		infos, err := os.ReadDir(path)
		if err != nil {
			cd.err = err
			return
		}
		data := make(map[string]*Entry, len(infos))
		for _, info := range infos {
			base := info.Name()
			data[strings.ToLower(base)] = &Entry{dir: path, base: base}
		}
		cd.entries = DirEntries{dir: path, data: data}
	})
	return cd.entries, cd.err
}

func (r *RealFS) ReadFile(path string) (string, string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(path)
	modKey := ""
	if err == nil {
		modKey = fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())
	}
	return string(contents), modKey, nil
}

func (r *RealFS) EvalSymlinks(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return resolved, true
}

func (r *RealFS) statEntry(dir string, base string) (EntryKind, string) {
	full := filepath.Join(dir, base)
	info, err := os.Lstat(full)
	if err != nil {
		return 0, ""
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := filepath.EvalSymlinks(full); err == nil {
			if targetInfo, err := os.Stat(target); err == nil {
				if targetInfo.IsDir() {
					return DirEntry, target
				}
				return FileEntry, target
			}
		}
		return FileEntry, full
	}
	if info.IsDir() {
		return DirEntry, ""
	}
	return FileEntry, ""
}

func (r *RealFS) IsAbs(path string) bool { return filepath.IsAbs(path) }

func (r *RealFS) Abs(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	return abs, err == nil
}

func (r *RealFS) Dir(path string) string  { return filepath.Dir(path) }
func (r *RealFS) Base(path string) string { return filepath.Base(path) }
func (r *RealFS) Ext(path string) string  { return filepath.Ext(path) }

func (r *RealFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (r *RealFS) Rel(base string, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	return rel, err == nil
}
