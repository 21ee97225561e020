package fs

import (
	"errors"
	"path"
	"strings"
)

// ErrNotExist is returned by MockFS operations on a missing path.
var ErrNotExist = errors.New("file does not exist")

// mockNode is either a file (Contents != nil) or a directory (Children
// != nil). Symlink, when non-empty, makes this node an alias for
// another absolute path, resolved by EvalSymlinks/statEntry.
type mockNode struct {
	Contents *string
	Children map[string]*mockNode
	Symlink  string
	modKey   int
}

// MockFS is an in-memory filesystem for tests. Paths are always POSIX
// style and always absolute (leading "/"), regardless of host OS.
type MockFS struct {
	cwd     string
	root    *mockNode
	counter int
}

func NewMockFS(files map[string]string, symlinks map[string]string) *MockFS {
	m := &MockFS{cwd: "/", root: &mockNode{Children: map[string]*mockNode{}}}
	for p, contents := range files {
		m.set(p, contents)
	}
	for p, target := range symlinks {
		m.link(p, target)
	}
	return m
}

func (m *MockFS) segments(p string) []string {
	p = path.Clean("/" + p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

func (m *MockFS) mkdirAll(segs []string) *mockNode {
	node := m.root
	for _, seg := range segs {
		child, ok := node.Children[seg]
		if !ok || child.Children == nil {
			child = &mockNode{Children: map[string]*mockNode{}}
			if node.Children == nil {
				node.Children = map[string]*mockNode{}
			}
			node.Children[seg] = child
		}
		node = child
	}
	return node
}

func (m *MockFS) set(p string, contents string) {
	segs := m.segments(p)
	if len(segs) == 0 {
		return
	}
	dir := m.mkdirAll(segs[:len(segs)-1])
	m.counter++
	dir.Children[segs[len(segs)-1]] = &mockNode{Contents: &contents, modKey: m.counter}
}

func (m *MockFS) link(p string, target string) {
	segs := m.segments(p)
	if len(segs) == 0 {
		return
	}
	dir := m.mkdirAll(segs[:len(segs)-1])
	dir.Children[segs[len(segs)-1]] = &mockNode{Symlink: path.Clean("/" + target)}
}

func (m *MockFS) lookup(p string) *mockNode {
	segs := m.segments(p)
	node := m.root
	for _, seg := range segs {
		if node == nil {
			return nil
		}
		if node.Symlink != "" {
			node = m.lookup(node.Symlink)
			if node == nil {
				return nil
			}
		}
		if node.Children == nil {
			return nil
		}
		node = node.Children[seg]
	}
	return node
}

func (m *MockFS) Cwd() string { return m.cwd }

func (m *MockFS) ReadDirectory(p string) (DirEntries, error) {
	node := m.lookup(p)
	if node == nil {
		return DirEntries{}, ErrNotExist
	}
	if node.Symlink != "" {
		return m.ReadDirectory(node.Symlink)
	}
	if node.Children == nil {
		return DirEntries{}, ErrNotExist
	}
	data := make(map[string]*Entry, len(node.Children))
	for name := range node.Children {
		data[strings.ToLower(name)] = &Entry{dir: p, base: name}
	}
	return DirEntries{dir: p, data: data}, nil
}

func (m *MockFS) ReadFile(p string) (string, string, error) {
	node := m.lookup(p)
	if node == nil {
		return "", "", ErrNotExist
	}
	if node.Symlink != "" {
		return m.ReadFile(node.Symlink)
	}
	if node.Contents == nil {
		return "", "", ErrNotExist
	}
	return *node.Contents, intModKey(node.modKey), nil
}

func intModKey(n int) string {
	digits := []byte{}
	if n == 0 {
		return "0"
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (m *MockFS) EvalSymlinks(p string) (string, bool) {
	segs := m.segments(p)
	node := m.root
	resolved := "/"
	for _, seg := range segs {
		if node.Symlink != "" {
			real, ok := m.EvalSymlinks(node.Symlink)
			if !ok {
				return "", false
			}
			resolved = real
			node = m.lookup(real)
			if node == nil {
				return "", false
			}
		}
		if node.Children == nil {
			return "", false
		}
		child, ok := node.Children[seg]
		if !ok {
			return "", false
		}
		node = child
		resolved = path.Join(resolved, seg)
	}
	if node.Symlink != "" {
		return m.EvalSymlinks(node.Symlink)
	}
	return resolved, true
}

func (m *MockFS) statEntry(dir string, base string) (EntryKind, string) {
	full := path.Join(dir, base)
	node := m.lookup(full)
	if node == nil {
		return 0, ""
	}
	if node.Symlink != "" {
		real, ok := m.EvalSymlinks(full)
		if !ok {
			return 0, ""
		}
		target := m.lookup(real)
		if target == nil {
			return 0, ""
		}
		if target.Children != nil {
			return DirEntry, real
		}
		return FileEntry, real
	}
	if node.Children != nil {
		return DirEntry, ""
	}
	return FileEntry, ""
}

func (m *MockFS) IsAbs(p string) bool { return strings.HasPrefix(p, "/") }

func (m *MockFS) Abs(p string) (string, bool) {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p), true
	}
	return path.Clean(path.Join(m.cwd, p)), true
}

func (m *MockFS) Dir(p string) string  { return path.Dir(p) }
func (m *MockFS) Base(p string) string { return path.Base(p) }
func (m *MockFS) Ext(p string) string  { return path.Ext(p) }

func (m *MockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func (m *MockFS) Rel(base string, target string) (string, bool) {
	base = path.Clean(base)
	target = path.Clean(target)
	if !strings.HasPrefix(target, base) {
		return target, false
	}
	rel := strings.TrimPrefix(target, base)
	return strings.TrimPrefix(rel, "/"), true
}
