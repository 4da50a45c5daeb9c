// Package fsiface defines the small filesystem contract the builder,
// discoverer, and cache consume: read, walk, join, split, exists, and
// mtime. Keeping the surface this narrow means the core never assumes
// a concrete path separator or OS beyond what this interface exposes,
// and tests can swap in an in-memory fake instead of touching disk.
package fsiface

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// DirEntry describes one step of a Walk: the directory visited, its
// subdirectory names, and its file names, both sorted for
// deterministic traversal order.
type DirEntry struct {
	Dir     string
	SubDirs []string
	Files   []string
}

// FS is the filesystem contract consumed by discover, importcache, and
// buildgraph.
type FS interface {
	Read(path string) (string, error)
	Walk(root string) ([]DirEntry, error)
	Join(components ...string) string
	Split(path string) (dir, file string)
	Exists(path string) bool
	MTime(path string) (int64, error)
}

// OS is the real, disk-backed FS implementation.
type OS struct{}

// New returns the disk-backed FS.
func New() OS { return OS{} }

func (OS) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}

func (OS) Walk(root string) ([]DirEntry, error) {
	byDir := make(map[string]*DirEntry)
	var order []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		byDir[path] = &DirEntry{Dir: path}
		order = append(order, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}

	for _, dir := range order {
		children, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "readdir %s", dir)
		}
		e := byDir[dir]
		for _, c := range children {
			if c.IsDir() {
				e.SubDirs = append(e.SubDirs, c.Name())
			} else {
				e.Files = append(e.Files, c.Name())
			}
		}
		sort.Strings(e.SubDirs)
		sort.Strings(e.Files)
	}

	out := make([]DirEntry, 0, len(order))
	for _, dir := range order {
		out = append(out, *byDir[dir])
	}
	return out, nil
}

func (OS) Join(components ...string) string {
	return filepath.Join(components...)
}

func (OS) Split(path string) (string, string) {
	return filepath.Split(path)
}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OS) MTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", path)
	}
	return info.ModTime().Unix(), nil
}

var _ FS = OS{}
