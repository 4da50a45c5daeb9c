// Package importparse parses a source file's import statements into
// an ordered list of ImportedObjects, using tree-sitter's Python
// grammar to handle the dialect's syntax (relative imports, wildcard
// imports, aliasing, parenthesized multi-line forms, semicolons, and
// backslash continuation all fall out of the grammar for free) and a
// hand-rolled AST walk to recognize import statements, TYPE_CHECKING
// guards, and nested scopes.
package importparse

// ImportedObject is one parsed import statement. Name is written in
// source form: leading dots denote relative imports (".foo.bar",
// "..mod"), and "*" denotes a wildcard import ("foo.*").
type ImportedObject struct {
	Name             string
	LineNumber       int
	LineContents     string
	TypecheckingOnly bool
}
