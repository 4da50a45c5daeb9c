// Package reportmodel holds the CLI-facing view of a build/query
// result and its renderers, one formatter per OutputFormat
// (text/json/dot/sarif).
package reportmodel

// Cycle is one shortest cycle found in the graph, as module names in
// cycle order.
type Cycle struct {
	Modules []string
}

// Route is the rendering view of layers.Route: module names instead
// of tokens.
type Route struct {
	Heads  []string
	Middle []string
	Tails  []string
}

// Violation is the rendering view of layers.PackageDependency.
type Violation struct {
	Importer string
	Imported string
	Routes   []Route
}

// ScanResult summarizes one build-and-analyze run for CLI output.
type ScanResult struct {
	Modules    int
	Imports    int
	Cycles     []Cycle
	Violations []Violation
}

// OutputFormat selects a ScanResult renderer.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatDot   OutputFormat = "dot"
	FormatSarif OutputFormat = "sarif"
)
