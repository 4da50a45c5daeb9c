package graph

// AddModule is get_or_add_module: idempotent, materializing every
// missing ancestor as invisible along the way. If the module already
// exists, its is_invisible flag is cleared (it becomes explicit) and
// its token is returned unchanged.
func (g *Graph) AddModule(name string) (ModuleToken, error) {
	return g.addModule(name, false)
}

// AddSquashedModule is get_or_add_squashed_module: as AddModule, then
// marks the module squashed. Fails with ErrChildrenExist if the
// module already has children, since a squashed module invariantly
// has none.
func (g *Graph) AddSquashedModule(name string) (ModuleToken, error) {
	t, err := g.addModule(name, false)
	if err != nil {
		return ModuleToken{}, err
	}
	m := g.moduleAt(t)
	if len(m.children) > 0 {
		return ModuleToken{}, wrapf(ErrChildrenExist, "cannot squash %q", name)
	}
	m.isSquashed = true
	return t, nil
}

func (g *Graph) addModule(name string, invisible bool) (ModuleToken, error) {
	parts, err := splitName(name)
	if err != nil {
		return ModuleToken{}, err
	}

	if t, ok := g.GetModuleByName(name); ok {
		if !invisible {
			g.moduleAt(t).isInvisible = false
		}
		return t, nil
	}

	var (
		parentTok ModuleToken
		hasParent bool
	)
	if len(parts) > 1 {
		parentTok, err = g.addModule(parentName2(parts), true)
		if err != nil {
			return ModuleToken{}, err
		}
		hasParent = true
	}

	sym := g.names.Intern(name)
	tok := g.allocSlot()
	m := g.moduleAt(tok)
	m.name = sym
	m.isInvisible = invisible
	m.hasParent = hasParent
	m.parent = parentTok
	m.children = make(map[ModuleToken]struct{})
	g.byName[sym] = tok

	if hasParent {
		g.moduleAt(parentTok).children[tok] = struct{}{}
	}
	return tok, nil
}

func parentName2(parts []string) string {
	name := parts[0]
	for _, p := range parts[1 : len(parts)-1] {
		name += "." + p
	}
	return name
}

func (g *Graph) allocSlot() ModuleToken {
	// Reuse a dead slot if one exists, bumping its generation so old
	// tokens referring to it stay dead.
	for i := range g.slots {
		if !g.slots[i].live {
			g.slots[i].live = true
			g.slots[i].generation++
			return ModuleToken{index: uint32(i), generation: g.slots[i].generation}
		}
	}
	g.slots = append(g.slots, module{live: true, generation: 1})
	return ModuleToken{index: uint32(len(g.slots) - 1), generation: 1}
}

// RemoveModule removes t and, recursively, every descendant, purging
// every edge and ImportDetails entry that touched any of them. A
// no-op if t is already absent.
func (g *Graph) RemoveModule(t ModuleToken) {
	m := g.moduleAt(t)
	if m == nil {
		return
	}

	// Recurse into children first; copy the key set since
	// removeOne mutates m.children of the parent via the sibling map,
	// not this one, but children of t are removed from t's own map
	// as we go.
	children := make([]ModuleToken, 0, len(m.children))
	for c := range m.children {
		children = append(children, c)
	}
	for _, c := range children {
		g.RemoveModule(c)
	}

	g.removeOne(t)
}

// removeOne removes a single module (already childless) and all
// edges/details touching it, without recursing.
func (g *Graph) removeOne(t ModuleToken) {
	m := g.moduleAt(t)
	if m == nil {
		return
	}

	if m.hasParent {
		if parent := g.moduleAt(m.parent); parent != nil {
			delete(parent.children, t)
		}
	}

	for other := range g.imports[t] {
		g.unlinkReverse(other, t)
		delete(g.importDetails[t], other)
	}
	delete(g.imports, t)

	for other := range g.reverseImports[t] {
		g.unlinkForward(other, t)
		if m2 := g.importDetails[other]; m2 != nil {
			delete(m2, t)
		}
	}
	delete(g.reverseImports, t)
	delete(g.importDetails, t)

	delete(g.byName, m.name)
	g.slots[t.index].live = false
	g.slots[t.index].children = nil
}

func (g *Graph) unlinkForward(from, to ModuleToken) {
	if set := g.imports[from]; set != nil {
		delete(set, to)
	}
}

func (g *Graph) unlinkReverse(to, from ModuleToken) {
	if set := g.reverseImports[to]; set != nil {
		delete(set, from)
	}
}

// SquashModule collapses t's entire subtree into t: every import
// into or out of a descendant is re-parented onto t, then the
// descendants are removed, then t is marked squashed.
func (g *Graph) SquashModule(t ModuleToken) error {
	m := g.moduleAt(t)
	if m == nil {
		return wrapf(ErrModuleNotPresent, "squash: module token is dead")
	}

	descendants := g.GetModuleDescendants(t)
	descendantSet := make(map[ModuleToken]struct{}, len(descendants))
	for _, d := range descendants {
		descendantSet[d] = struct{}{}
	}

	for _, d := range descendants {
		for other := range g.imports[d] {
			if _, isDescendant := descendantSet[other]; isDescendant || other == t {
				continue
			}
			for key, details := range g.importDetails[d][other] {
				g.addDetailedImportRaw(t, other, key, details)
			}
			if len(g.importDetails[d][other]) == 0 {
				g.addImportRaw(t, other)
			}
		}
		for other := range g.reverseImports[d] {
			if _, isDescendant := descendantSet[other]; isDescendant || other == t {
				continue
			}
			for key, details := range g.importDetails[other][d] {
				g.addDetailedImportRaw(other, t, key, details)
			}
			if len(g.importDetails[other][d]) == 0 {
				g.addImportRaw(other, t)
			}
		}
	}

	for _, d := range descendants {
		g.removeOne(d)
	}

	m.isSquashed = true
	return nil
}
