package fsiface

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// memFile is one entry in a Mem filesystem.
type memFile struct {
	contents string
	mtime    int64
}

// Mem is an in-memory FS fake used by tests that need deterministic
// mtimes without touching disk.
type Mem struct {
	files map[string]memFile
	dirs  map[string]struct{}
}

// NewMem returns an empty in-memory filesystem.
func NewMem() *Mem {
	return &Mem{
		files: make(map[string]memFile),
		dirs:  make(map[string]struct{}),
	}
}

// WriteFile adds or overwrites a file and its modification time, and
// registers every ancestor directory implied by its path.
func (m *Mem) WriteFile(path, contents string, mtimeSecs int64) {
	m.files[path] = memFile{contents: contents, mtime: mtimeSecs}
	dir, _ := m.Split(path)
	for dir != "" && dir != "." && dir != "/" {
		m.dirs[strings.TrimSuffix(dir, "/")] = struct{}{}
		dir, _ = m.Split(strings.TrimSuffix(dir, "/"))
	}
}

func (m *Mem) Read(path string) (string, error) {
	f, ok := m.files[path]
	if !ok {
		return "", errors.Errorf("mem fs: no such file %s", path)
	}
	return f.contents, nil
}

func (m *Mem) Walk(root string) ([]DirEntry, error) {
	byDir := make(map[string]*DirEntry)
	ensure := func(dir string) *DirEntry {
		if e, ok := byDir[dir]; ok {
			return e
		}
		e := &DirEntry{Dir: dir}
		byDir[dir] = e
		return e
	}
	ensure(root)

	for path := range m.files {
		if !strings.HasPrefix(path, root+"/") && path != root {
			continue
		}
		dir, file := m.Split(path)
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			dir = root
		}
		e := ensure(dir)
		e.Files = append(e.Files, file)
	}
	for dir := range m.dirs {
		if !strings.HasPrefix(dir, root) {
			continue
		}
		ensure(dir)
		parent, base := m.Split(dir)
		parent = strings.TrimSuffix(parent, "/")
		if parent != "" && strings.HasPrefix(parent, root) {
			pe := ensure(parent)
			found := false
			for _, s := range pe.SubDirs {
				if s == base {
					found = true
					break
				}
			}
			if !found {
				pe.SubDirs = append(pe.SubDirs, base)
			}
		}
	}

	var dirs []string
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	out := make([]DirEntry, 0, len(dirs))
	for _, dir := range dirs {
		e := byDir[dir]
		sort.Strings(e.SubDirs)
		sort.Strings(e.Files)
		out = append(out, *e)
	}
	return out, nil
}

func (m *Mem) Join(components ...string) string {
	return strings.Join(components, "/")
}

func (m *Mem) Split(path string) (string, string) {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "", path
	}
	return path[:idx+1], path[idx+1:]
}

func (m *Mem) Exists(path string) bool {
	if _, ok := m.files[path]; ok {
		return true
	}
	_, ok := m.dirs[path]
	return ok
}

func (m *Mem) MTime(path string) (int64, error) {
	f, ok := m.files[path]
	if !ok {
		return 0, errors.Errorf("mem fs: no such file %s", path)
	}
	return f.mtime, nil
}

var _ FS = (*Mem)(nil)
