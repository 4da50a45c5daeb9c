// Package graph implements the module hierarchy, import index, and
// pathfinding/query engine described for a static import-graph
// analyzer: a directed graph whose nodes are dotted-name modules and
// whose edges are direct source-level imports.
package graph

import (
	"sort"
	"strings"

	"github.com/importgraph/grimp/internal/intern"
)

// Graph holds the full module hierarchy, the forward/reverse import
// index, and the interners backing both. A Graph's interners are
// private to the instance (Design Note: process-wide interners would
// leak state between independently-built graphs held by a long-lived
// process, e.g. a query server keeping multiple package roots
// resident).
//
// Graph mutation (AddModule, AddImport, RemoveModule, RemoveImport,
// SquashModule) is not safe for concurrent use; callers must confine
// mutation to a single goroutine and treat the Graph as read-only
// once assembly finishes. Query methods are safe for concurrent use
// against a Graph that is no longer being mutated.
type Graph struct {
	names        *intern.Table
	lineContents *intern.Table

	byName map[intern.Symbol]ModuleToken
	slots  []module

	imports        map[ModuleToken]map[ModuleToken]struct{}
	reverseImports map[ModuleToken]map[ModuleToken]struct{}
	importDetails  map[ModuleToken]map[ModuleToken]map[importDetailsKey]ImportDetails
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		names:          intern.New(),
		lineContents:   intern.New(),
		byName:         make(map[intern.Symbol]ModuleToken),
		imports:        make(map[ModuleToken]map[ModuleToken]struct{}),
		reverseImports: make(map[ModuleToken]map[ModuleToken]struct{}),
		importDetails:  make(map[ModuleToken]map[ModuleToken]map[importDetailsKey]ImportDetails),
	}
}

// splitName splits a dotted module name into its components, failing
// on empty segments or leading/trailing dots.
func splitName(name string) ([]string, error) {
	if name == "" {
		return nil, wrapf(ErrInvalidModuleExpression, "empty module name")
	}
	parts := strings.Split(name, ".")
	for _, p := range parts {
		if p == "" {
			return nil, wrapf(ErrInvalidModuleExpression, "module name %q has an empty segment", name)
		}
	}
	return parts, nil
}

// parentName returns the dotted name of name's parent, or "" (with ok
// false) if name has no parent.
func parentName(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	return name[:idx], true
}

func (g *Graph) moduleAt(t ModuleToken) *module {
	if int(t.index) >= len(g.slots) {
		return nil
	}
	m := &g.slots[t.index]
	if !m.live || m.generation != t.generation {
		return nil
	}
	return m
}

// ToModule converts a live ModuleToken into its read-only Module view.
// Panics if the token is dead — callers are expected to only hold
// tokens returned by this Graph.
func (g *Graph) ToModule(t ModuleToken) Module {
	m := g.moduleAt(t)
	if m == nil {
		panic("graph: dead module token")
	}
	return Module{
		Token:       t,
		Name:        g.names.String(m.name),
		IsInvisible: m.isInvisible,
		IsSquashed:  m.isSquashed,
	}
}

// GetModuleByName returns the module named name, if it exists.
func (g *Graph) GetModuleByName(name string) (ModuleToken, bool) {
	sym, ok := g.names.Lookup(name)
	if !ok {
		return ModuleToken{}, false
	}
	t, ok := g.byName[sym]
	return t, ok
}

// GetModule returns the Module view for t, if t is still live.
func (g *Graph) GetModule(t ModuleToken) (Module, bool) {
	m := g.moduleAt(t)
	if m == nil {
		return Module{}, false
	}
	return g.ToModule(t), true
}

// AllModules returns every live module, in name order (for
// deterministic iteration in callers that need it).
func (g *Graph) AllModules() []Module {
	out := make([]Module, 0, len(g.byName))
	for _, t := range g.byName {
		out = append(out, g.ToModule(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsModuleSquashed reports whether t refers to a live, squashed
// module.
func (g *Graph) IsModuleSquashed(t ModuleToken) bool {
	m := g.moduleAt(t)
	return m != nil && m.isSquashed
}

// GetModuleParent returns m's parent module, if any.
func (g *Graph) GetModuleParent(t ModuleToken) (ModuleToken, bool) {
	m := g.moduleAt(t)
	if m == nil || !m.hasParent {
		return ModuleToken{}, false
	}
	return m.parent, true
}

// GetModuleChildren returns m's direct children.
func (g *Graph) GetModuleChildren(t ModuleToken) []ModuleToken {
	m := g.moduleAt(t)
	if m == nil {
		return nil
	}
	out := make([]ModuleToken, 0, len(m.children))
	for c := range m.children {
		out = append(out, c)
	}
	return out
}

// GetModuleDescendants returns every descendant of t, parents before
// their children (breadth-first order).
func (g *Graph) GetModuleDescendants(t ModuleToken) []ModuleToken {
	var out []ModuleToken
	queue := g.GetModuleChildren(t)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		out = append(out, next)
		queue = append(queue, g.GetModuleChildren(next)...)
	}
	return out
}
