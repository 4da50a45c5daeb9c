package graph

import "github.com/importgraph/grimp/internal/intern"

// ModuleToken is an opaque, stable handle into a Graph's module
// hierarchy. It is a generational index into a slot-map: a removed
// module's slot can be reused, but any token referring to the old
// generation becomes dead rather than aliasing the new occupant.
type ModuleToken struct {
	index      uint32
	generation uint32
}

// IsZero reports whether t is the zero-value token, never issued by
// get_or_add_module.
func (t ModuleToken) IsZero() bool {
	return t == ModuleToken{}
}

// module is the live-slot storage backing a ModuleToken. It is never
// exposed directly; callers only ever see the token and Module value.
type module struct {
	generation uint32
	live       bool

	name        intern.Symbol
	isInvisible bool
	isSquashed  bool
	parent      ModuleToken
	hasParent   bool
	children    map[ModuleToken]struct{}
}

// Module is the read-only view of a module entity returned by
// lookups.
type Module struct {
	Token       ModuleToken
	Name        string
	IsInvisible bool
	IsSquashed  bool
}

// ImportDetails describes one textual import statement that caused an
// edge to be recorded between two modules. Two ImportDetails with the
// same line number and contents are considered equal.
type ImportDetails struct {
	LineNumber           int
	internedLineContents intern.Symbol
}

// LineContents resolves the interned line text against the owning
// Graph.
func (d ImportDetails) LineContents(g *Graph) string {
	return g.lineContents.String(d.internedLineContents)
}

type importDetailsKey struct {
	lineNumber int
	contents   intern.Symbol
}
