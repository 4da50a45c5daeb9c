// Package layers implements the layered-architecture analyzer: given
// an ordered list of layer levels, it enumerates every forbidden
// (importer, imported) pair and, for each pair that actually has
// chains between it, materializes the violation as a
// PackageDependency built from direct and indirect Routes.
package layers

import (
	"sort"
	"sync"

	"github.com/importgraph/grimp/internal/graph"
)

// Level is one rank in an ordered architectural stack: a bag of
// sibling layers plus the flags controlling how strictly it is
// enforced.
type Level struct {
	Layers      []graph.ModuleToken
	Independent bool
	Closed      bool
}

// Route is a (heads, middle, tails) decomposition of the chains that
// violate one (importer, imported) layer pair.
type Route struct {
	Heads  []graph.ModuleToken
	Middle []graph.ModuleToken
	Tails  []graph.ModuleToken
}

// PackageDependency is one materialized layer violation between an
// importer layer module and an imported layer module, decomposed into
// its direct and indirect Routes.
type PackageDependency struct {
	Importer graph.ModuleToken
	Imported graph.ModuleToken
	Routes   []Route
}

type illegalPair struct {
	from graph.ModuleToken
	to   graph.ModuleToken
}

// illegalPairs enumerates every forbidden (from, to) pair implied by
// levels, per the permutation rules: lower levels must never import
// higher ones; independent siblings must never import each other;
// and a closed level hides everything below it from everything
// above it (modules above a closed level must not import modules
// below it).
func illegalPairs(levels []Level) []illegalPair {
	var pairs []illegalPair

	for idx, level := range levels {
		for _, m := range level.Layers {
			// Lower levels must not import this module.
			for _, lowerLevel := range levels[idx+1:] {
				for _, lm := range lowerLevel.Layers {
					pairs = append(pairs, illegalPair{from: lm, to: m})
				}
			}

			// Independent siblings must not import each other.
			if level.Independent {
				for _, sm := range level.Layers {
					if sm == m {
						continue
					}
					pairs = append(pairs, illegalPair{from: m, to: sm})
				}
			}

			// Walk higher levels nearest-first; once a closed level is
			// crossed, m is hidden from every level beyond it.
			closed := false
			for i := idx - 1; i >= 0; i-- {
				higher := levels[i]
				if closed {
					for _, hm := range higher.Layers {
						pairs = append(pairs, illegalPair{from: hm, to: m})
					}
				}
				closed = closed || higher.Closed
			}
		}
	}
	return pairs
}

// queryGraph is the subset of *graph.Graph the analyzer needs,
// narrowed so it can be exercised against a fake in tests without
// constructing a full graph.
type queryGraph interface {
	GetModule(t graph.ModuleToken) (graph.Module, bool)
	GetModuleDescendants(t graph.ModuleToken) []graph.ModuleToken
	ChainExists(i, j graph.ModuleToken, asPackages bool) (bool, error)
	FindShortestChainsWithExclusions(fromSet, toSet []graph.ModuleToken, excludedModules map[graph.ModuleToken]struct{}) ([][]graph.ModuleToken, error)
	DirectImportExists(i, j graph.ModuleToken, asPackages bool) (bool, error)
}

// FindIllegalDependencies runs the layer analyzer: it enumerates the
// illegal pairs implied by levels, then — in parallel, one goroutine
// group per pair, since each pair's analysis only reads the shared
// graph — finds and classifies the routes violating each pair that
// actually has a chain between it.
func FindIllegalDependencies(g queryGraph, levels []Level) ([]PackageDependency, error) {
	pairs := illegalPairs(levels)

	allLayerModules := make(map[graph.ModuleToken]struct{})
	for _, level := range levels {
		for _, m := range level.Layers {
			for t := range expandWithSelf(g, m) {
				allLayerModules[t] = struct{}{}
			}
		}
	}

	type result struct {
		dep *PackageDependency
		err error
	}
	results := make([]result, len(pairs))

	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair illegalPair) {
			defer wg.Done()
			dep, err := analyzePair(g, pair, allLayerModules)
			results[i] = result{dep: dep, err: err}
		}(i, pair)
	}
	wg.Wait()

	var deps []PackageDependency
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.dep != nil {
			deps = append(deps, *r.dep)
		}
	}

	sort.Slice(deps, func(i, j int) bool {
		ni, nj := moduleName(g, deps[i].Importer), moduleName(g, deps[j].Importer)
		if ni != nj {
			return ni < nj
		}
		return moduleName(g, deps[i].Imported) < moduleName(g, deps[j].Imported)
	})
	return deps, nil
}

func moduleName(g queryGraph, t graph.ModuleToken) string {
	m, _ := g.GetModule(t)
	return m.Name
}

func analyzePair(g queryGraph, pair illegalPair, allLayerModules map[graph.ModuleToken]struct{}) (*PackageDependency, error) {
	exists, err := g.ChainExists(pair.from, pair.to, true)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	fromExpanded := expandWithSelf(g, pair.from)
	toExpanded := expandWithSelf(g, pair.to)

	excludedModules := map[graph.ModuleToken]struct{}{}
	for t := range allLayerModules {
		_, isFrom := fromExpanded[t]
		_, isTo := toExpanded[t]
		if !isFrom && !isTo {
			excludedModules[t] = struct{}{}
		}
	}

	chains, err := g.FindShortestChainsWithExclusions(toSlice(fromExpanded), toSlice(toExpanded), excludedModules)
	if err != nil {
		return nil, err
	}
	if len(chains) == 0 {
		return nil, nil
	}

	var routes []Route
	for _, chain := range chains {
		route, err := classifyChain(g, chain, fromExpanded, toExpanded)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return &PackageDependency{Importer: pair.from, Imported: pair.to, Routes: routes}, nil
}

func classifyChain(g queryGraph, chain []graph.ModuleToken, fromExpanded, toExpanded map[graph.ModuleToken]struct{}) (Route, error) {
	if len(chain) == 2 {
		return Route{Heads: []graph.ModuleToken{chain[0]}, Tails: []graph.ModuleToken{chain[1]}}, nil
	}

	middle := chain[1 : len(chain)-1]

	var heads []graph.ModuleToken
	for m := range fromExpanded {
		ok, err := g.DirectImportExists(m, middle[0], false)
		if err != nil {
			return Route{}, err
		}
		if ok {
			heads = append(heads, m)
		}
	}

	var tails []graph.ModuleToken
	for m := range toExpanded {
		ok, err := g.DirectImportExists(middle[len(middle)-1], m, false)
		if err != nil {
			return Route{}, err
		}
		if ok {
			tails = append(tails, m)
		}
	}

	return Route{Heads: heads, Middle: middle, Tails: tails}, nil
}

func expandWithSelf(g queryGraph, t graph.ModuleToken) map[graph.ModuleToken]struct{} {
	out := map[graph.ModuleToken]struct{}{t: {}}
	for _, d := range g.GetModuleDescendants(t) {
		out[d] = struct{}{}
	}
	return out
}

func toSlice(set map[graph.ModuleToken]struct{}) []graph.ModuleToken {
	out := make([]graph.ModuleToken, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}
