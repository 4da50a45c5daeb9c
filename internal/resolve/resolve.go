// Package resolve converts an ImportedObject's source-form name
// (absolute or relative) into either an internal module name already
// known to the graph, or — when external distillation is enabled — a
// collapsed external package name.
package resolve

import (
	"strings"

	"github.com/importgraph/grimp/internal/importparse"
)

// Resolution is the outcome of resolving one ImportedObject.
type Resolution struct {
	// ModuleName is the resolved module name: an internal module when
	// Internal is true, otherwise a distilled external package name
	// (empty if external distillation found nothing usable, e.g. the
	// import is an ancestor of one of our own packages).
	ModuleName string
	Internal   bool
	// Resolved is false when the name could not be resolved to
	// anything usable at all (no internal hit and either external
	// resolution is disabled or distillation yielded nothing).
	Resolved bool
}

// Resolver resolves imports against a fixed universe of internal
// module names and package roots, as known after package discovery.
type Resolver struct {
	internalModules map[string]struct{}
	packageRoots    []string
}

// New builds a Resolver. internalModules is every module name known
// to the graph being built (packages and leaf modules alike);
// packageRoots is the list of top-level package names being analyzed,
// used for external-distillation's shared-head-component search.
func New(internalModules []string, packageRoots []string) *Resolver {
	set := make(map[string]struct{}, len(internalModules))
	for _, m := range internalModules {
		set[m] = struct{}{}
	}
	return &Resolver{internalModules: set, packageRoots: packageRoots}
}

// AbsoluteName resolves importedName (as written in an
// ImportedObject.Name, possibly with leading dots) to an absolute
// dotted name, relative to module (the name of the file containing
// the import) and whether that file is a package file (an "__init__"
// module).
func AbsoluteName(module string, isPackageFile bool, importedName string) string {
	k := leadingDots(importedName)
	if k == 0 {
		return importedName
	}

	var base string
	if isPackageFile {
		if k == 1 {
			base = module
		} else {
			base = dropLastComponents(module, k-1)
		}
	} else {
		base = dropLastComponents(module, k)
	}

	suffix := importedName[k:]
	if suffix == "" {
		return base
	}
	if base == "" {
		return suffix
	}
	return base + "." + suffix
}

func leadingDots(name string) int {
	n := 0
	for n < len(name) && name[n] == '.' {
		n++
	}
	return n
}

// dropLastComponents removes the last n dotted components of name,
// returning "" if that removes everything.
func dropLastComponents(name string, n int) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	if n >= len(parts) {
		return ""
	}
	return strings.Join(parts[:len(parts)-n], ".")
}

// Resolve resolves one ImportedObject found in a file belonging to
// module (isPackageFile: whether that file is the package's
// "__init__"). When includeExternal is false, non-internal imports
// resolve with Resolved=false.
func (r *Resolver) Resolve(module string, isPackageFile bool, obj importparse.ImportedObject, includeExternal bool) Resolution {
	absolute := AbsoluteName(module, isPackageFile, obj.Name)
	return r.resolveAbsolute(absolute, includeExternal)
}

func (r *Resolver) resolveAbsolute(absolute string, includeExternal bool) Resolution {
	if _, ok := r.internalModules[absolute]; ok {
		return Resolution{ModuleName: absolute, Internal: true, Resolved: true}
	}
	if parent, ok := parentName(absolute); ok {
		if _, ok := r.internalModules[parent]; ok {
			return Resolution{ModuleName: parent, Internal: true, Resolved: true}
		}
	}

	if !includeExternal {
		return Resolution{}
	}

	distilled, ok := r.distillExternal(absolute)
	if !ok {
		return Resolution{}
	}
	return Resolution{ModuleName: distilled, Internal: false, Resolved: true}
}

func parentName(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	return name[:idx], true
}

// distillExternal collapses a non-internal absolute name into a
// coarse external package name, dropping it
// entirely if it is an ancestor of one of our own internal packages
// (it's then a namespace we partially occupy, not a third party), and
// otherwise picking the deepest shared-prefix-plus-one candidate
// portion across our package roots to resolve namespace-package
// ambiguity (e.g. "google.cloud" vs a bare "google").
func (r *Resolver) distillExternal(absolute string) (string, bool) {
	if r.isAncestorOfInternalPackage(absolute) {
		return "", false
	}

	candidateParts := strings.Split(absolute, ".")
	head := candidateParts[0]

	var best string
	for _, root := range r.packageRoots {
		rootParts := strings.Split(root, ".")
		if rootParts[0] != head {
			continue
		}
		shared := sharedPrefixLen(rootParts, candidateParts)
		extra := shared
		if extra < len(candidateParts) {
			extra++
		}
		portion := strings.Join(candidateParts[:extra], ".")
		if len(portion) > len(best) {
			best = portion
		}
	}
	if best != "" {
		return best, true
	}
	return head, true
}

func (r *Resolver) isAncestorOfInternalPackage(name string) bool {
	prefix := name + "."
	for _, root := range r.packageRoots {
		if strings.HasPrefix(root, prefix) {
			return true
		}
	}
	return false
}

func sharedPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
