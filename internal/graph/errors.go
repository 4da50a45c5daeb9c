package graph

import "github.com/pkg/errors"

// Sentinel error kinds surfaced by query methods. Callers match on
// these with errors.Is; details beyond the kind are carried in the
// wrapped message.
var (
	// ErrNoSuchContainer means a named container (module or package
	// prefix) referenced by a query does not exist in the graph.
	ErrNoSuchContainer = errors.New("no such container")

	// ErrSharedDescendants means two module sets that a query expects
	// to be disjoint overlap.
	ErrSharedDescendants = errors.New("module sets share descendants")

	// ErrInvalidModuleExpression means a module-expression string
	// violated the mini-language grammar.
	ErrInvalidModuleExpression = errors.New("invalid module expression")

	// ErrModuleNotPresent means a query referenced a module absent
	// from the graph.
	ErrModuleNotPresent = errors.New("module not present")

	// ErrChildrenExist means squashing or adding a squashed module
	// failed because the module already has children.
	ErrChildrenExist = errors.New("module already has children")
)

// wrapf attaches context to a sentinel error without losing its
// identity under errors.Is.
func wrapf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}
