package importparse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parse parses sourceCode (the contents of filename) and returns every
// import statement found, in source order, including those nested
// inside function and class bodies. Imports inside a
// "if TYPE_CHECKING:" (or "if <ident>.TYPE_CHECKING:") guard are
// marked TypecheckingOnly.
func Parse(filename string, sourceCode []byte) ([]ImportedObject, error) {
	sourceCode = DecodeSource(sourceCode)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, &ParseError{Filename: filename, Text: firstLine(sourceCode)}
	}
	defer tree.Close()

	lines := splitLines(sourceCode)
	w := &walker{source: sourceCode, lines: lines, filename: filename}
	root := tree.RootNode()
	w.walk(root, false)
	if n := root; w.err == nil && n.HasError() {
		for descended := true; descended && n.Type() != "ERROR" && !n.IsMissing(); {
			descended = false
			for i := 0; i < int(n.ChildCount()) && !descended; i++ {
				if c := n.Child(i); c.HasError() || c.IsMissing() {
					n, descended = c, true
				}
			}
		}
		lineNumber, lineContents := w.lineContentsFor(n)
		w.err = &ParseError{Filename: filename, LineNumber: lineNumber, Text: lineContents}
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.objects, nil
}

type walker struct {
	source   []byte
	lines    []string
	filename string
	objects  []ImportedObject
	err      error
}

func splitLines(src []byte) []string {
	return strings.Split(string(src), "\n")
}

func firstLine(src []byte) string {
	lines := splitLines(src)
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

func (w *walker) lineContentsFor(node *sitter.Node) (int, string) {
	row := int(node.StartPoint().Row)
	lineNumber := row + 1
	if row < 0 || row >= len(w.lines) {
		return lineNumber, ""
	}
	return lineNumber, strings.TrimSpace(w.lines[row])
}

// walk descends the AST, collecting import_statement and
// import_from_statement nodes wherever they occur (module level,
// inside functions, inside classes), and tracking whether the current
// position is inside a TYPE_CHECKING guard's consequence block.
func (w *walker) walk(node *sitter.Node, typechecking bool) {
	if node == nil || w.err != nil {
		return
	}

	switch node.Type() {
	case "ERROR":
		lineNumber, lineContents := w.lineContentsFor(node)
		w.err = &ParseError{Filename: w.filename, LineNumber: lineNumber, Text: lineContents}
		return
	case "import_statement":
		w.processImportStatement(node, typechecking)
		return
	case "import_from_statement":
		w.processImportFromStatement(node, typechecking)
		return
	case "if_statement":
		w.processIfStatement(node, typechecking)
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), typechecking)
	}
}

// processIfStatement recurses into an if-statement's branches,
// marking the consequence block as typechecking-only when the
// condition is a TYPE_CHECKING guard; elif/else branches are walked
// with the guard's flag cleared (or inherited from an enclosing guard)
// since they only run when the guard's condition is false.
func (w *walker) processIfStatement(node *sitter.Node, typechecking bool) {
	condition := node.ChildByFieldName("condition")
	guarded := typechecking || isTypeCheckingGuard(condition, w.source)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "elif_clause", "else_clause":
			w.walk(child, typechecking)
		default:
			if child == condition {
				continue
			}
			w.walk(child, guarded)
		}
	}
}

// isTypeCheckingGuard reports whether cond is "TYPE_CHECKING" or
// "<anything>.TYPE_CHECKING".
func isTypeCheckingGuard(cond *sitter.Node, source []byte) bool {
	if cond == nil {
		return false
	}
	switch cond.Type() {
	case "identifier":
		return cond.Content(source) == "TYPE_CHECKING"
	case "attribute":
		attr := cond.ChildByFieldName("attribute")
		return attr != nil && attr.Content(source) == "TYPE_CHECKING"
	default:
		return false
	}
}

// processImportStatement handles "import a[.b.c] [as X]", comma lists
// of the same.
func (w *walker) processImportStatement(node *sitter.Node, typechecking bool) {
	lineNumber, lineContents := w.lineContentsFor(node)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		var name string
		switch child.Type() {
		case "aliased_import":
			moduleNode := child.ChildByFieldName("name")
			if moduleNode == nil {
				continue
			}
			name = moduleNode.Content(w.source)
		case "dotted_name":
			name = child.Content(w.source)
		default:
			continue
		}
		w.emit(name, lineNumber, lineContents, typechecking)
	}
}

// processImportFromStatement handles "from [dots]M import x [as Y]",
// comma and parenthesized lists, and wildcard imports, including
// relative forms.
func (w *walker) processImportFromStatement(node *sitter.Node, typechecking bool) {
	lineNumber, lineContents := w.lineContentsFor(node)

	var base string
	var moduleNode *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "relative_import":
			moduleNode = child
			base = relativeBase(child, w.source)
		case "dotted_name":
			if moduleNode == nil {
				moduleNode = child
				base = child.Content(w.source)
			}
		}
		if moduleNode != nil {
			break
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == moduleNode {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			w.emit(joinBase(base, "*"), lineNumber, lineContents, typechecking)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			w.emit(joinBase(base, nameNode.Content(w.source)), lineNumber, lineContents, typechecking)
		case "dotted_name", "identifier":
			w.emit(joinBase(base, child.Content(w.source)), lineNumber, lineContents, typechecking)
		}
	}
}

// relativeBase renders a relative_import node's leading dots plus any
// trailing dotted_name suffix, e.g. "..sub" for "from ..sub import x".
func relativeBase(node *sitter.Node, source []byte) string {
	var dots string
	var suffix string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_prefix":
			dots = child.Content(source)
		case "dotted_name":
			suffix = child.Content(source)
		}
	}
	return dots + suffix
}

// joinBase joins a from-import's base (possibly dotted, possibly
// relative with trailing dots, possibly empty) with the imported
// name. A base ending in '.' (a bare relative prefix with no module
// suffix) already supplies the separator.
func joinBase(base, name string) string {
	if base == "" {
		return name
	}
	if strings.HasSuffix(base, ".") {
		return base + name
	}
	return base + "." + name
}

func (w *walker) emit(name string, lineNumber int, lineContents string, typechecking bool) {
	w.objects = append(w.objects, ImportedObject{
		Name:             name,
		LineNumber:       lineNumber,
		LineContents:     lineContents,
		TypecheckingOnly: typechecking,
	})
}
