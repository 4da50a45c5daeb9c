package importparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(objs []ImportedObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name
	}
	return out
}

func TestParseSimpleImport(t *testing.T) {
	objs, err := Parse("a.py", []byte("import os\nimport a.b.c\nimport os as op\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "a.b.c", "os"}, names(objs))
	assert.Equal(t, 1, objs[0].LineNumber)
	assert.Equal(t, "import os", objs[0].LineContents)
}

func TestParseCommaImport(t *testing.T) {
	objs, err := Parse("a.py", []byte("import os, sys\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "sys"}, names(objs))
}

func TestParseFromImport(t *testing.T) {
	objs, err := Parse("a.py", []byte("from os import path\nfrom os import path as ospath\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os.path", "os.path"}, names(objs))
}

func TestParseFromImportParenthesizedMultiline(t *testing.T) {
	src := "from json import (\n    dumps,\n    loads,  # comment\n)\n"
	objs, err := Parse("a.py", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"json.dumps", "json.loads"}, names(objs))
}

func TestParseWildcardImport(t *testing.T) {
	objs, err := Parse("a.py", []byte("from os import *\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os.*"}, names(objs))
}

// S1. Direct relative import.
func TestParseRelativeImportDot(t *testing.T) {
	objs, err := Parse("pkg/a.py", []byte("from . import b\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{".b"}, names(objs))
}

func TestParseRelativeImportWithModule(t *testing.T) {
	objs, err := Parse("a.py", []byte("from .pkg import x\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{".pkg.x"}, names(objs))
}

func TestParseRelativeImportDoubleDotNoModule(t *testing.T) {
	objs, err := Parse("a.py", []byte("from .. import y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"..y"}, names(objs))
}

// S3. Wildcard + relative.
func TestParseRelativeWildcard(t *testing.T) {
	objs, err := Parse("a.py", []byte("from ..sub import *\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"..sub.*"}, names(objs))
}

// S2. Type-checking exclusion.
func TestParseTypeCheckingGuard(t *testing.T) {
	src := "import x\nif TYPE_CHECKING:\n    import y\n"
	objs, err := Parse("a.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "x", objs[0].Name)
	assert.False(t, objs[0].TypecheckingOnly)
	assert.Equal(t, "y", objs[1].Name)
	assert.True(t, objs[1].TypecheckingOnly)
}

func TestParseTypeCheckingGuardQualified(t *testing.T) {
	src := "import typing\nif typing.TYPE_CHECKING:\n    import y\nelse:\n    import z\n"
	objs, err := Parse("a.py", []byte(src))
	require.NoError(t, err)
	byName := map[string]bool{}
	for _, o := range objs {
		byName[o.Name] = o.TypecheckingOnly
	}
	assert.True(t, byName["y"])
	assert.False(t, byName["z"])
}

func TestParseNestedInFunctionAndClass(t *testing.T) {
	src := "def f():\n    import inside_func\n\nclass C:\n    def m(self):\n        import inside_method\n"
	objs, err := Parse("a.py", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"inside_func", "inside_method"}, names(objs))
}

func TestParseSemicolonStatementList(t *testing.T) {
	objs, err := Parse("a.py", []byte("import a; import b\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(objs))
}

func TestParseBackslashContinuation(t *testing.T) {
	objs, err := Parse("a.py", []byte("from os import \\\n    path\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"os.path"}, names(objs))
}

func TestParseSyntaxErrorReportsParseError(t *testing.T) {
	_, err := Parse("broken.py", []byte("def f(:\n    pass\n"))
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.py", parseErr.Filename)
	assert.Positive(t, parseErr.LineNumber)
}

func TestParseIgnoresStringsAndComments(t *testing.T) {
	src := "x = \"import fake\"\n# import alsofake\ny = '''\nimport alsofake2\n'''\nimport real\n"
	objs, err := Parse("a.py", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, names(objs))
}
