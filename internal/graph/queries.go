package graph

import "sort"

// FindDownstreamModules returns every module that can reach m (things
// that depend on m), optionally expanding m with its descendants
// first.
func (g *Graph) FindDownstreamModules(m ModuleToken, asPackage bool) []ModuleToken {
	return g.findReachReverse(g.fromSet(m, asPackage))
}

// FindUpstreamModules returns every module reachable from m (things m
// depends on), optionally expanding m with its descendants first.
func (g *Graph) FindUpstreamModules(m ModuleToken, asPackage bool) []ModuleToken {
	return g.findReachForward(g.fromSet(m, asPackage))
}

func (g *Graph) fromSet(m ModuleToken, asPackage bool) []ModuleToken {
	if !asPackage {
		return []ModuleToken{m}
	}
	set := g.expandWithSelf(m)
	out := make([]ModuleToken, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

// FindShortestChain delegates to FindShortestPath, expanding i and j
// with their descendants when asPackages is true.
func (g *Graph) FindShortestChain(i, j ModuleToken, asPackages bool) ([]ModuleToken, error) {
	return g.FindShortestPath(g.fromSet(i, asPackages), g.fromSet(j, asPackages), nil, nil)
}

// ChainExists reports whether any chain from i to j exists.
func (g *Graph) ChainExists(i, j ModuleToken, asPackages bool) (bool, error) {
	chain, err := g.FindShortestChain(i, j, asPackages)
	if err != nil {
		return false, err
	}
	return chain != nil, nil
}

// FindShortestChains finds, for every pair (d, u) in the importer
// set (i plus, when asPackages, its descendants) crossed with the
// imported set (j likewise expanded), the shortest chain from d to u
// with every other module in the two sets excluded, then returns the
// set of unique chains found this way. If no chain exists between i
// and j at all, returns nil.
func (g *Graph) FindShortestChains(i, j ModuleToken, asPackages bool) ([][]ModuleToken, error) {
	exists, err := g.ChainExists(i, j, asPackages)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	downstream := g.fromSet(i, asPackages)
	upstream := g.fromSet(j, asPackages)

	combined := make(map[ModuleToken]struct{}, len(downstream)+len(upstream))
	for _, d := range downstream {
		combined[d] = struct{}{}
	}
	for _, u := range upstream {
		combined[u] = struct{}{}
	}

	seen := make(map[string]bool)
	var chains [][]ModuleToken
	for _, d := range downstream {
		for _, u := range upstream {
			excludedModules := make(map[ModuleToken]struct{}, len(combined))
			for t := range combined {
				if t != d && t != u {
					excludedModules[t] = struct{}{}
				}
			}
			chain, err := g.FindShortestPath([]ModuleToken{d}, []ModuleToken{u}, excludedModules, nil)
			if err != nil || chain == nil {
				continue
			}
			key := chainKey(chain)
			if !seen[key] {
				seen[key] = true
				chains = append(chains, chain)
			}
		}
	}

	sort.Slice(chains, func(a, b int) bool {
		return chainKey(chains[a]) < chainKey(chains[b])
	})
	return chains, nil
}

// FindShortestChainsWithExclusions finds, for every pair (a, b) in
// fromSet x toSet, the shortest chain from a to b with excludedModules
// never traversed, and returns the set of unique chains found. Used
// by the layer analyzer, which supplies its own exclusion set (every
// other layer's modules) rather than the downstream/upstream
// exclusion FindShortestChains derives.
func (g *Graph) FindShortestChainsWithExclusions(fromSet, toSet []ModuleToken, excludedModules map[ModuleToken]struct{}) ([][]ModuleToken, error) {
	seen := make(map[string]bool)
	var chains [][]ModuleToken
	for _, a := range fromSet {
		for _, b := range toSet {
			if a == b {
				continue
			}
			chain, err := g.FindShortestPath([]ModuleToken{a}, []ModuleToken{b}, excludedModules, nil)
			if err != nil || chain == nil {
				continue
			}
			key := chainKey(chain)
			if !seen[key] {
				seen[key] = true
				chains = append(chains, chain)
			}
		}
	}
	sort.Slice(chains, func(i, j int) bool { return chainKey(chains[i]) < chainKey(chains[j]) })
	return chains, nil
}

func chainKey(chain []ModuleToken) string {
	out := make([]byte, 0, len(chain)*8)
	for _, t := range chain {
		out = append(out, byte(t.index), byte(t.index>>8), byte(t.index>>16), byte(t.index>>24))
		out = append(out, byte(t.generation), byte(t.generation>>8), byte(t.generation>>16), byte(t.generation>>24))
	}
	return string(out)
}
