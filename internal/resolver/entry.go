package resolver

import (
	"errors"
	"os"
	"sync"

	"github.com/bvanjoi/node-resolver/internal/cache"
	"github.com/bvanjoi/node-resolver/internal/fs"
	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
	"github.com/bvanjoi/node-resolver/internal/pkgjson"
)

// dirInfo is the Entry Cache's per-directory node (spec.md §3/§4.4): a
// parent-linked tree keyed by normalized absolute path, with lazily
// computed package-descriptor ownership. Grounded on the teacher's
// dirInfo walk in resolver.go (dirInfoUncached / parseJsonWithPath).
type dirInfo struct {
	absPath string
	parent  *dirInfo

	pkgOnce sync.Once
	pkgInfo *pkgjson.PkgJSON
	pkgDir  string // directory containing the owning descriptor, if any
	pkgErr  error  // persisted so every caller of pkg(), not just the first, sees it

	entries fs.DirEntries
}

// entryCache loads and memoizes dirInfo nodes by absolute path.
type entryCache struct {
	mu   sync.Mutex
	dirs map[string]*dirInfo

	fsys            fs.FS
	shared          *cache.Shared
	descriptorFile  string
}

func newEntryCache(fsys fs.FS, shared *cache.Shared, descriptorFile string) *entryCache {
	return &entryCache{
		dirs:           make(map[string]*dirInfo),
		fsys:           fsys,
		shared:         shared,
		descriptorFile: descriptorFile,
	}
}

// loadDir returns the shared dirInfo for absDir, building parents first.
func (c *entryCache) loadDir(absDir string) *dirInfo {
	c.mu.Lock()
	if d, ok := c.dirs[absDir]; ok {
		c.mu.Unlock()
		return d
	}
	d := &dirInfo{absPath: absDir}
	c.dirs[absDir] = d
	c.mu.Unlock()

	parentPath := c.fsys.Dir(absDir)
	if parentPath != absDir {
		d.parent = c.loadDir(parentPath)
	}

	if entries, err := c.fsys.ReadDirectory(absDir); err == nil {
		d.entries = entries
	} else {
		d.entries = fs.MakeEmptyDirEntries(absDir)
	}

	return d
}

// pkg returns the nearest ancestor package descriptor (including absDir
// itself) plus the directory that owns it, per spec.md §4.4: "if own
// path is (or contains) a description_file, attempt to read it;
// otherwise delegate to parent."
func (c *entryCache) pkg(d *dirInfo) (*pkgjson.PkgJSON, string, error) {
	d.pkgOnce.Do(func() {
		descPath := c.fsys.Join(d.absPath, c.descriptorFile)
		if entry, _ := d.entries.Get(c.descriptorFile); entry != nil && entry.Kind(c.fsys) == fs.FileEntry {
			pkg, err := c.readDescriptor(descPath)
			if err != nil {
				d.pkgErr = err
				return
			}
			if pkg != nil {
				d.pkgInfo = pkg
				d.pkgDir = d.absPath
				return
			}
			// Listed but unreadable by the time we got to it (race with
			// an external delete): fall through to the parent below.
		}
		if d.parent != nil {
			pkg, dir, err := c.pkg(d.parent)
			if err != nil {
				d.pkgErr = err
				return
			}
			d.pkgInfo = pkg
			d.pkgDir = dir
		}
	})
	return d.pkgInfo, d.pkgDir, d.pkgErr
}

func (c *entryCache) readDescriptor(path string) (*pkgjson.PkgJSON, error) {
	contents, modKey, err := c.fsys.ReadFile(path)
	if err != nil {
		return nil, nil2ioError(path, err)
	}
	return c.shared.Descriptors.GetOrLoad(path, modKey, func() (*pkgjson.PkgJSON, error) {
		v, err := jsonvalue.Parse(contents)
		if err != nil {
			return nil, unexpectedJSON(path, err)
		}
		pkg, err := pkgjson.Parse(path, v)
		if err != nil {
			return nil, unexpectedValue(path, err.Error())
		}
		return pkg, nil
	})
}

func nil2ioError(path string, err error) error {
	if isNotExist(err) {
		return nil
	}
	return ioError(path, err)
}

func isNotExist(err error) bool {
	return err != nil && (errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err))
}
