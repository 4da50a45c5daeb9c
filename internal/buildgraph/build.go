// Package buildgraph composes package discovery, the imports cache,
// the import parser, and the import resolver into a populated
// *graph.Graph: discover -> cache lookup -> parse (on miss) ->
// resolve -> graph.AddDetailedImport. The per-file parse+resolve
// stage runs on a bounded worker pool; graph mutation is confined to
// a single-threaded assembly phase afterward.
package buildgraph

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/importgraph/grimp/internal/discover"
	"github.com/importgraph/grimp/internal/fsiface"
	"github.com/importgraph/grimp/internal/graph"
	"github.com/importgraph/grimp/internal/importcache"
	"github.com/importgraph/grimp/internal/importparse"
	"github.com/importgraph/grimp/internal/resolve"
)

// Package describes one package root to include in the build.
type Package struct {
	Name      string
	Directory string
}

// Options configures a Build.
type Options struct {
	IncludeExternalPackages    bool
	ExcludeTypeCheckingImports bool
	Extensions                 []string
	Workers                    int
	// Cache is optional; when nil, every file is parsed fresh.
	Cache *importcache.Cache
}

const defaultWorkers = 8

// fileWork is one source file queued for parse+resolve.
type fileWork struct {
	pkg       Package
	module    string
	filePath  string
	isPackage bool
}

// fileResult is one file's resolved edges, produced by a worker and
// applied to the graph in the single-threaded assembly phase.
type fileResult struct {
	module string
	edges  []resolvedEdge
	err    error
}

type resolvedEdge struct {
	to               string
	lineNumber       int
	lineContents     string
	typecheckingOnly bool
}

// Build runs the full discover -> cache -> parse -> resolve ->
// assemble pipeline for pkgs and returns the populated graph.
func Build(fs fsiface.FS, pkgs []Package, opts Options) (*graph.Graph, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".py"}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	found := make([]discover.FoundPackage, len(pkgs))
	for i, pkg := range pkgs {
		fp, err := discover.Discover(fs, discover.Package{Name: pkg.Name, Directory: pkg.Directory}, opts.Extensions)
		if err != nil {
			return nil, err
		}
		found[i] = fp
	}

	var allModuleNames []string
	var packageRoots []string
	for i, pkg := range pkgs {
		packageRoots = append(packageRoots, pkg.Name)
		for _, mf := range found[i].ModuleFiles {
			allModuleNames = append(allModuleNames, mf.Module)
		}
	}
	resolver := resolve.New(allModuleNames, packageRoots)

	var work []fileWork
	for i, pkg := range pkgs {
		for _, mf := range found[i].ModuleFiles {
			work = append(work, fileWork{pkg: pkg, module: mf.Module, filePath: mf.FilePath, isPackage: mf.IsPackage})
		}
	}

	results, err := parseAndResolve(fs, work, resolver, opts)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	// Assembly phase: single-threaded, deterministic order.
	sort.Slice(results, func(i, j int) bool { return results[i].module < results[j].module })
	for _, r := range results {
		if _, err := g.AddModule(r.module); err != nil {
			return nil, err
		}
		for _, e := range r.edges {
			if opts.ExcludeTypeCheckingImports && e.typecheckingOnly {
				continue
			}
			imported, err := g.AddModule(e.to)
			if err != nil {
				return nil, err
			}
			from, _ := g.GetModuleByName(r.module)
			g.AddDetailedImport(from, imported, e.lineNumber, e.lineContents)
		}
	}

	if opts.Cache != nil {
		for _, pkg := range pkgs {
			if err := opts.Cache.Save(pkg.Name); err != nil {
				return nil, errors.Wrapf(err, "save cache for package %s", pkg.Name)
			}
		}
	}

	return g, nil
}

// parseAndResolve runs the parse+resolve stage for every item in work
// on a bounded worker pool, returning one fileResult per item.
func parseAndResolve(fs fsiface.FS, work []fileWork, resolver *resolve.Resolver, opts Options) ([]fileResult, error) {
	jobs := make(chan int, len(work))
	results := make([]fileResult, len(work))

	var wg sync.WaitGroup
	workerCount := opts.Workers
	if workerCount <= 0 {
		workerCount = defaultWorkers
	}
	if workerCount > len(work) {
		workerCount = len(work)
	}
	if workerCount == 0 {
		return nil, nil
	}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(fs, work[idx], resolver, opts)
			}
		}()
	}
	for i := range work {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
	}
	return results, nil
}

func processFile(fs fsiface.FS, w fileWork, resolver *resolve.Resolver, opts Options) fileResult {
	objects, err := loadImports(fs, w, opts)
	if err != nil {
		return fileResult{module: w.module, err: err}
	}

	var edges []resolvedEdge
	for _, obj := range objects {
		res := resolver.Resolve(w.module, w.isPackage, obj, opts.IncludeExternalPackages)
		if !res.Resolved {
			continue
		}
		edges = append(edges, resolvedEdge{
			to:               res.ModuleName,
			lineNumber:       obj.LineNumber,
			lineContents:     obj.LineContents,
			typecheckingOnly: obj.TypecheckingOnly,
		})
	}
	return fileResult{module: w.module, edges: edges}
}

// loadImports resolves a cache hit by mtime before falling back to
// parsing the file fresh, storing the fresh result back into the
// cache.
func loadImports(fs fsiface.FS, w fileWork, opts Options) ([]importparse.ImportedObject, error) {
	mtime, err := fs.MTime(w.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", w.filePath)
	}

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(w.pkg.Name, w.module, mtime); ok {
			return cached.ImportedObjects, nil
		}
	}

	source, err := fs.Read(w.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", w.filePath)
	}

	objects, err := importparse.Parse(w.filePath, []byte(source))
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		opts.Cache.Put(w.pkg.Name, w.module, importcache.CachedImports{
			MTimeSecs:       mtime,
			ImportedObjects: objects,
		})
	}
	return objects, nil
}
