// Package discover walks a package directory on disk and produces the
// FoundPackage the graph builder consumes: every source file under
// the root, converted to its dotted module name.
package discover

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/importgraph/grimp/internal/fsiface"
)

// ModuleFile names one source file inside a FoundPackage by its
// resolved dotted module name.
type ModuleFile struct {
	Module    string
	FilePath  string
	IsPackage bool
}

// FoundPackage is the discovery output for one package root: its
// dotted name, its directory on disk, and every module file beneath
// it, sorted by module name.
type FoundPackage struct {
	Name        string
	Directory   string
	ModuleFiles []ModuleFile
}

// Package describes one package root to discover: its dotted name and
// the directory it lives in on disk.
type Package struct {
	Name      string
	Directory string
}

// defaultInitStem is the file stem that maps a directory itself to a
// module, rather than a child of it (the source dialect's package
// marker file).
const defaultInitStem = "__init__"

// Discover walks pkg.Directory and returns every source file with one
// of extensions (e.g. ".py"), converted to its dotted module name
// under pkg.Name. A file named "__init__.<ext>" at directory D maps to
// the dotted name of D; every other file strips its extension.
// Directory path components become dotted name components.
func Discover(fs fsiface.FS, pkg Package, extensions []string) (FoundPackage, error) {
	entries, err := fs.Walk(pkg.Directory)
	if err != nil {
		return FoundPackage{}, errors.Wrapf(err, "discover %s", pkg.Directory)
	}

	extSet := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		extSet[e] = struct{}{}
	}

	found := FoundPackage{Name: pkg.Name, Directory: pkg.Directory}
	for _, entry := range entries {
		dirModule := dottedName(pkg, fs, entry.Dir)
		for _, file := range entry.Files {
			ext := extOf(file)
			if _, ok := extSet[ext]; !ok {
				continue
			}
			stem := strings.TrimSuffix(file, ext)
			isPackage := stem == defaultInitStem
			var moduleName string
			if isPackage {
				moduleName = dirModule
			} else if dirModule == "" {
				moduleName = stem
			} else {
				moduleName = dirModule + "." + stem
			}
			if moduleName == "" {
				continue
			}
			found.ModuleFiles = append(found.ModuleFiles, ModuleFile{
				Module:    moduleName,
				FilePath:  fs.Join(entry.Dir, file),
				IsPackage: isPackage,
			})
		}
	}

	sort.Slice(found.ModuleFiles, func(i, j int) bool {
		return found.ModuleFiles[i].Module < found.ModuleFiles[j].Module
	})
	return found, nil
}

// dottedName converts dir (a path under pkg.Directory) into its dotted
// module name rooted at pkg.Name.
func dottedName(pkg Package, fs fsiface.FS, dir string) string {
	if dir == pkg.Directory {
		return pkg.Name
	}
	rel := strings.TrimPrefix(dir, pkg.Directory)
	rel = strings.Trim(rel, "/\\")
	if rel == "" {
		return pkg.Name
	}
	rel = strings.ReplaceAll(rel, "\\", "/")
	parts := strings.Split(rel, "/")
	return pkg.Name + "." + strings.Join(parts, ".")
}

func extOf(file string) string {
	idx := strings.LastIndexByte(file, '.')
	if idx < 0 {
		return ""
	}
	return file[idx:]
}
