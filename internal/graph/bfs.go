package graph

// adjacency is the minimal view BFS needs over either imports or
// reverseImports, so find_reach and the bidirectional search can
// share one implementation for both directions.
type adjacency map[ModuleToken]map[ModuleToken]struct{}

// orderedSet is an insertion-ordered set of tokens. Plain Go maps
// iterate in random order; reach and frontier expansion must be
// deterministic given identical graph state, so BFS here tracks both
// a membership map and an append-only slice.
type orderedSet struct {
	seen  map[ModuleToken]struct{}
	order []ModuleToken
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[ModuleToken]struct{})}
}

func (s *orderedSet) add(t ModuleToken) bool {
	if _, ok := s.seen[t]; ok {
		return false
	}
	s.seen[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

func (s *orderedSet) has(t ModuleToken) bool {
	_, ok := s.seen[t]
	return ok
}

// sortedNeighbors returns the tokens in set ordered by slot index.
// Tokens are issued in insertion order, so this recovers the
// insertion-ordered traversal the raw Go map loses; identical graph
// state then always produces identical BFS results.
func sortedNeighbors(set map[ModuleToken]struct{}) []ModuleToken {
	out := make([]ModuleToken, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && tokenLess(out[j], out[j-1]) {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

func tokenLess(a, b ModuleToken) bool {
	if a.index != b.index {
		return a.index < b.index
	}
	return a.generation < b.generation
}

// findReach runs an iterative BFS over adj starting from every token
// in from, returning everything reachable, excluding the starting set
// itself.
func findReach(adj adjacency, from []ModuleToken) []ModuleToken {
	startSet := make(map[ModuleToken]struct{}, len(from))
	for _, f := range from {
		startSet[f] = struct{}{}
	}

	visited := newOrderedSet()
	queue := make([]ModuleToken, 0, len(from))
	for _, f := range from {
		queue = append(queue, f)
	}
	seenInFrontier := make(map[ModuleToken]struct{}, len(from))
	for _, f := range from {
		seenInFrontier[f] = struct{}{}
	}

	var result []ModuleToken
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range sortedNeighbors(adj[cur]) {
			if _, ok := seenInFrontier[next]; ok {
				continue
			}
			seenInFrontier[next] = struct{}{}
			queue = append(queue, next)
			if _, isStart := startSet[next]; !isStart {
				if visited.add(next) {
					result = append(result, next)
				}
			}
		}
	}
	return result
}

// findReachForward and findReachReverse run findReach over the
// forward and reverse import adjacency respectively; the higher-order
// upstream/downstream queries are built on them.
func (g *Graph) findReachForward(from []ModuleToken) []ModuleToken {
	return findReach(g.imports, from)
}

func (g *Graph) findReachReverse(from []ModuleToken) []ModuleToken {
	return findReach(g.reverseImports, from)
}

// excludedImports maps a from-token to the set of to-tokens whose
// edge must never be traversed.
type excludedImports map[ModuleToken]map[ModuleToken]struct{}

// FindShortestPath runs a bidirectional BFS from any token in
// fromModules to any token in toModules over the forward import
// graph, honoring excludedModules (never traversed into) and
// excludedImports (specific edges never traversed). Returns nil, nil
// if no path exists.
func (g *Graph) FindShortestPath(fromModules, toModules []ModuleToken, excludedModules map[ModuleToken]struct{}, excluded excludedImports) ([]ModuleToken, error) {
	fromSet := make(map[ModuleToken]struct{}, len(fromModules))
	for _, f := range fromModules {
		fromSet[f] = struct{}{}
	}
	for _, tt := range toModules {
		if _, ok := fromSet[tt]; ok {
			return nil, wrapf(ErrSharedDescendants, "from and to module sets overlap")
		}
	}

	type side struct {
		pred     map[ModuleToken]ModuleToken // token -> predecessor on this side
		hasPred  map[ModuleToken]bool
		frontier []ModuleToken
		adj      adjacency
		reverse  bool // true for the successors side, walking reverseImports
	}

	fwd := &side{pred: map[ModuleToken]ModuleToken{}, hasPred: map[ModuleToken]bool{}, adj: g.imports}
	bwd := &side{pred: map[ModuleToken]ModuleToken{}, hasPred: map[ModuleToken]bool{}, adj: g.reverseImports, reverse: true}

	for _, f := range fromModules {
		if _, ok := fwd.hasPred[f]; !ok {
			fwd.hasPred[f] = false
			fwd.frontier = append(fwd.frontier, f)
		}
	}
	for _, tt := range toModules {
		if _, ok := bwd.hasPred[tt]; !ok {
			bwd.hasPred[tt] = false
			bwd.frontier = append(bwd.frontier, tt)
		}
	}

	meet, ok := ModuleToken{}, false

	expand := func(s *side, other *side) {
		var next []ModuleToken
		for _, cur := range s.frontier {
			for _, n := range sortedNeighbors(s.adj[cur]) {
				if _, excl := excludedModules[n]; excl {
					continue
				}
				// On the successors side the real edge is n -> cur.
				edgeFrom, edgeTo := cur, n
				if s.reverse {
					edgeFrom, edgeTo = n, cur
				}
				if toSet := excluded[edgeFrom]; toSet != nil {
					if _, excl := toSet[edgeTo]; excl {
						continue
					}
				}
				if _, visited := s.hasPred[n]; visited {
					continue
				}
				s.hasPred[n] = true
				s.pred[n] = cur
				next = append(next, n)
				if _, onOther := other.hasPred[n]; onOther && !ok {
					meet, ok = n, true
				}
			}
		}
		s.frontier = next
	}

	for len(fwd.frontier) > 0 && len(bwd.frontier) > 0 {
		if len(fwd.frontier) <= len(bwd.frontier) {
			expand(fwd, bwd)
		} else {
			expand(bwd, fwd)
		}
		if ok {
			break
		}
	}
	if !ok {
		return nil, nil
	}

	// Walk fwd.pred from meet back to a from-token, reverse it, then
	// walk bwd.pred from meet forward to a to-token.
	var head []ModuleToken
	cur := meet
	for {
		head = append(head, cur)
		parent, has := fwd.pred[cur]
		if !has {
			break
		}
		cur = parent
	}
	for i, j := 0, len(head)-1; i < j; i, j = i+1, j-1 {
		head[i], head[j] = head[j], head[i]
	}

	var tail []ModuleToken
	cur = meet
	for {
		parent, has := bwd.pred[cur]
		if !has {
			break
		}
		tail = append(tail, parent)
		cur = parent
	}

	path := append(head, tail...)
	return path, nil
}

// FindShortestCycle searches for the shortest non-trivial cycle
// touching module or (if asPackage) any of its descendants. Results
// are deterministic: when asPackage expands to multiple candidates,
// they are tried in name order.
func (g *Graph) FindShortestCycle(module ModuleToken, asPackage bool) ([]ModuleToken, error) {
	var candidates []ModuleToken
	if asPackage {
		set := g.expandWithSelf(module)
		mods := make([]Module, 0, len(set))
		for t := range set {
			mods = append(mods, g.ToModule(t))
		}
		sortModulesByName(mods)
		for _, m := range mods {
			candidates = append(candidates, m.Token)
		}
	} else {
		candidates = []ModuleToken{module}
	}

	var best []ModuleToken
	for _, c := range candidates {
		for _, next := range g.ModulesDirectlyImportedBy(c) {
			path, err := g.FindShortestPath([]ModuleToken{next}, []ModuleToken{c}, nil, nil)
			if err != nil {
				continue
			}
			if path == nil || len(path) == 0 {
				continue
			}
			// path is [next, ..., c]; drop the closing c so the
			// cycle lists each module once, c first.
			cycle := append([]ModuleToken{c}, path[:len(path)-1]...)
			if best == nil || len(cycle) < len(best) {
				best = cycle
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	return best, nil
}

func sortModulesByName(mods []Module) {
	for i := 1; i < len(mods); i++ {
		j := i
		for j > 0 && mods[j-1].Name > mods[j].Name {
			mods[j-1], mods[j] = mods[j], mods[j-1]
			j--
		}
	}
}
