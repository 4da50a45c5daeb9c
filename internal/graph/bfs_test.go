package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(g *Graph, toks []ModuleToken) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		m, _ := g.GetModule(t)
		out[i] = m.Name
	}
	return out
}

// TestFindShortestChainPrefersShorterPath is scenario S4: a graph with
// a->b->c->d and a->x->d should resolve find_shortest_chain(a, d) to
// the length-3 chain through x.
func TestFindShortestChainPrefersShorterPath(t *testing.T) {
	g := New()
	a, _ := g.AddModule("a")
	b, _ := g.AddModule("b")
	c, _ := g.AddModule("c")
	d, _ := g.AddModule("d")
	x, _ := g.AddModule("x")

	g.AddImport(a, b)
	g.AddImport(b, c)
	g.AddImport(c, d)
	g.AddImport(a, x)
	g.AddImport(x, d)

	chain, err := g.FindShortestChain(a, d, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x", "d"}, names(g, chain))
}

// TestFindShortestCycle is scenario S6.
func TestFindShortestCycle(t *testing.T) {
	g := New()
	a, _ := g.AddModule("A")
	b, _ := g.AddModule("B")
	c, _ := g.AddModule("C")
	x, _ := g.AddModule("X")

	g.AddImport(a, b)
	g.AddImport(b, c)
	g.AddImport(c, a)

	cycle, err := g.FindShortestCycle(a, false)
	require.NoError(t, err)
	assert.Len(t, cycle, 3)

	noCycle, err := g.FindShortestCycle(x, false)
	require.NoError(t, err)
	assert.Nil(t, noCycle)
}

func TestFindShortestPathSharedDescendantsError(t *testing.T) {
	g := New()
	a, _ := g.AddModule("a")

	_, err := g.FindShortestPath([]ModuleToken{a}, []ModuleToken{a}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSharedDescendants)
}

func TestFindShortestPathHonorsExcludedModules(t *testing.T) {
	g := New()
	a, _ := g.AddModule("a")
	b, _ := g.AddModule("b")
	c, _ := g.AddModule("c")
	g.AddImport(a, b)
	g.AddImport(b, c)

	excluded := map[ModuleToken]struct{}{b: {}}
	path, err := g.FindShortestPath([]ModuleToken{a}, []ModuleToken{c}, excluded, nil)
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestFindShortestPathHonorsExcludedEdges(t *testing.T) {
	g := New()
	a, _ := g.AddModule("a")
	b, _ := g.AddModule("b")
	c, _ := g.AddModule("c")
	g.AddImport(a, b)
	g.AddImport(a, c)
	g.AddImport(b, c)

	excluded := excludedImports{a: {c: {}}}
	path, err := g.FindShortestPath([]ModuleToken{a}, []ModuleToken{c}, nil, excluded)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(g, path))
}

func TestFindReachExcludesStartSet(t *testing.T) {
	g := New()
	a, _ := g.AddModule("a")
	b, _ := g.AddModule("b")
	g.AddImport(a, b)
	g.AddImport(b, a)

	reach := g.findReachForward([]ModuleToken{a})
	assert.ElementsMatch(t, []ModuleToken{b}, reach)
}
