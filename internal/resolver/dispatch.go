package resolver

import (
	"github.com/bvanjoi/node-resolver/internal/fs"
)

// resolveAsFile probes path+ext for every configured extension (and the
// bare path when enforce_extension is Disabled), first hit wins
// (spec.md §4.6 "Resolve-as-file").
func (r *Resolver) resolveAsFile(path string, fullySpecified bool) (string, bool) {
	tryBare := r.opts.EnforceExtension == EnforceDisabled || fullySpecified

	if tryBare {
		if r.isFile(path) {
			return path, true
		}
	}
	if fullySpecified {
		return "", false
	}
	for _, ext := range r.opts.Extensions {
		if ext == "" {
			continue
		}
		candidate := path + "." + ext
		if r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Resolver) isFile(path string) bool {
	dir := dirOf(path)
	if dir == path { // root has no parent to list
		return false
	}
	base := path[len(dir)+1:]
	d := r.entries.loadDir(r.toHostPath(dir))
	entry, _ := d.entries.Get(base)
	return entry != nil && entry.Kind(r.fsys) == fs.FileEntry
}

func (r *Resolver) isDir(path string) bool {
	d := r.entries.loadDir(r.toHostPath(path))
	return d.entries.Len() > 0 || r.dirExists(path)
}

func (r *Resolver) dirExists(path string) bool {
	_, err := r.fsys.ReadDirectory(r.toHostPath(path))
	return err == nil
}

// resolveAsDirectory reads the directory's descriptor and tries each
// main_fields entry, then falls back to main_files (spec.md §4.6
// "Resolve-as-directory").
func (r *Resolver) resolveAsDirectory(path string, fullySpecified bool) (string, bool) {
	d := r.entries.loadDir(r.toHostPath(path))
	pkg, pkgDir, err := r.entries.pkg(d)
	if err == nil && pkg != nil && pkgDir == path {
		for _, field := range r.opts.MainFields {
			rel, ok := pkg.MainFields[field]
			if !ok || rel == "" {
				continue
			}
			candidate := joinPosix(path, rel)
			if resolved, ok := r.resolveAsFile(candidate, fullySpecified); ok {
				return resolved, true
			}
			if resolved, ok := r.resolveAsDirectory(candidate, fullySpecified); ok {
				return resolved, true
			}
		}
	}
	for _, name := range r.opts.MainFiles {
		candidate := joinPosix(path, name)
		if resolved, ok := r.resolveAsFile(candidate, fullySpecified); ok {
			return resolved, true
		}
	}
	return "", false
}
