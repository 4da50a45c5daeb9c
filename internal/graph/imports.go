package graph

// AddImport records a direct import edge i -> j. Idempotent: adding
// the same edge twice is a no-op.
func (g *Graph) AddImport(i, j ModuleToken) {
	g.addImportRaw(i, j)
}

// AddDetailedImport records a direct import edge i -> j together with
// the source line that caused it. Calling this multiple times for the
// same (i, j, lineNumber, lineContents) is idempotent; different line
// numbers/contents for the same edge accumulate as distinct details.
func (g *Graph) AddDetailedImport(i, j ModuleToken, lineNumber int, lineContents string) {
	contentsSym := g.lineContents.Intern(lineContents)
	key := importDetailsKey{lineNumber: lineNumber, contents: contentsSym}
	details := ImportDetails{LineNumber: lineNumber, internedLineContents: contentsSym}
	g.addDetailedImportRaw(i, j, key, details)
}

func (g *Graph) addImportRaw(i, j ModuleToken) {
	if g.imports[i] == nil {
		g.imports[i] = make(map[ModuleToken]struct{})
	}
	g.imports[i][j] = struct{}{}

	if g.reverseImports[j] == nil {
		g.reverseImports[j] = make(map[ModuleToken]struct{})
	}
	g.reverseImports[j][i] = struct{}{}
}

func (g *Graph) addDetailedImportRaw(i, j ModuleToken, key importDetailsKey, details ImportDetails) {
	g.addImportRaw(i, j)

	if g.importDetails[i] == nil {
		g.importDetails[i] = make(map[ModuleToken]map[importDetailsKey]ImportDetails)
	}
	if g.importDetails[i][j] == nil {
		g.importDetails[i][j] = make(map[importDetailsKey]ImportDetails)
	}
	g.importDetails[i][j][key] = details
}

// RemoveImport removes the edge i -> j and all its ImportDetails.
func (g *Graph) RemoveImport(i, j ModuleToken) {
	g.unlinkForward(i, j)
	g.unlinkReverse(j, i)
	if m := g.importDetails[i]; m != nil {
		delete(m, j)
	}
}

// CountImports returns the total number of direct import edges in the
// graph.
func (g *Graph) CountImports() int {
	n := 0
	for _, set := range g.imports {
		n += len(set)
	}
	return n
}

// ModulesDirectlyImportedBy returns every module t directly imports.
func (g *Graph) ModulesDirectlyImportedBy(t ModuleToken) []ModuleToken {
	return tokenSetToSlice(g.imports[t])
}

// ModulesThatDirectlyImport returns every module that directly
// imports t.
func (g *Graph) ModulesThatDirectlyImport(t ModuleToken) []ModuleToken {
	return tokenSetToSlice(g.reverseImports[t])
}

// GetImportDetails returns the recorded ImportDetails for the edge
// i -> j, if any.
func (g *Graph) GetImportDetails(i, j ModuleToken) []ImportDetails {
	m := g.importDetails[i][j]
	if len(m) == 0 {
		return nil
	}
	out := make([]ImportDetails, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	return out
}

// DirectImportExists reports whether a forward edge exists between i
// and j. When asPackages is true, both sides are expanded with their
// descendants first; if the expanded sets intersect, it fails with
// ErrSharedDescendants (the sets were supposed to be disjoint
// subtrees).
func (g *Graph) DirectImportExists(i, j ModuleToken, asPackages bool) (bool, error) {
	if !asPackages {
		_, ok := g.imports[i][j]
		return ok, nil
	}

	iSet := g.expandWithSelf(i)
	jSet := g.expandWithSelf(j)
	for t := range iSet {
		if _, ok := jSet[t]; ok {
			return false, wrapf(ErrSharedDescendants, "modules share descendants")
		}
	}

	for a := range iSet {
		for b := range g.imports[a] {
			if _, ok := jSet[b]; ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func (g *Graph) expandWithSelf(t ModuleToken) map[ModuleToken]struct{} {
	out := map[ModuleToken]struct{}{t: {}}
	for _, d := range g.GetModuleDescendants(t) {
		out[d] = struct{}{}
	}
	return out
}

func tokenSetToSlice(set map[ModuleToken]struct{}) []ModuleToken {
	if len(set) == 0 {
		return nil
	}
	out := make([]ModuleToken, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}
