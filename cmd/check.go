package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/buildgraph"
	"github.com/importgraph/grimp/internal/fsiface"
	"github.com/importgraph/grimp/internal/graph"
	"github.com/importgraph/grimp/internal/layercontract"
	"github.com/importgraph/grimp/internal/layers"
	"github.com/importgraph/grimp/internal/reportmodel"
	"github.com/importgraph/grimp/internal/telemetry"
)

const (
	exitCodeSuccess    = 0
	exitCodeViolations = 1
	exitCodeError      = 2
)

var checkConfigPath string
var checkDir string
var checkFormat string

var checkLayersCmd = &cobra.Command{
	Use:   "layers <root-package>",
	Short: "Check a package's import graph against a layer contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckLayers,
}

func init() {
	checkCmd := &cobra.Command{Use: "check", Short: "Run a contract check against the import graph"}
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkLayersCmd)
	checkLayersCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to the layer contract YAML file")
	checkLayersCmd.Flags().StringVar(&checkDir, "dir", ".", "Directory the root package lives in")
	checkLayersCmd.Flags().StringVar(&checkFormat, "format", "", "Output format: text, json, dot, sarif")
	_ = checkLayersCmd.MarkFlagRequired("config")
}

// osExit is a var so tests can intercept process termination.
var osExit = os.Exit

func runCheckLayers(cmd *cobra.Command, args []string) error {
	reporter.Report(telemetry.CheckStarted, nil)

	contract, err := layercontract.Load(checkConfigPath)
	if err != nil {
		return err
	}

	pkg := buildgraph.Package{Name: args[0], Directory: checkDir}
	g, err := buildgraph.Build(fsiface.OS{}, []buildgraph.Package{pkg}, buildgraph.Options{Workers: cfg.Workers})
	if err != nil {
		return err
	}

	levels, err := resolveLevels(g, contract)
	if err != nil {
		return err
	}

	violations, err := layers.FindIllegalDependencies(g, levels)
	if err != nil {
		return err
	}

	result := reportmodel.ScanResult{
		Modules:    len(g.AllModules()),
		Imports:    g.CountImports(),
		Violations: renderViolations(g, violations),
	}

	format := reportmodel.OutputFormat(checkFormat)
	if format == "" {
		format = reportmodel.OutputFormat(cfg.DefaultFormat)
	}
	formatter, err := reportmodel.FormatterFor(format)
	if err != nil {
		return err
	}
	if err := formatter.Format(os.Stdout, result); err != nil {
		return fmt.Errorf("format result: %w", err)
	}

	if len(violations) > 0 {
		reporter.Report(telemetry.CheckViolations, map[string]interface{}{"count": len(violations)})
		osExit(exitCodeViolations)
		return nil
	}
	reporter.Report(telemetry.CheckClean, nil)
	return nil
}

// resolveLevels converts a YAML contract's layer names to graph.Level
// by looking each one up (or auto-adding it, so a layer named in the
// contract but absent from the built graph still participates as an
// empty module) against the already-built graph.
func resolveLevels(g *graph.Graph, c layercontract.Contract) ([]layers.Level, error) {
	levels := make([]layers.Level, 0, len(c.Levels))
	for _, spec := range c.Levels {
		var tokens []graph.ModuleToken
		for _, name := range spec.Layers {
			full := name
			if c.RootPackage != "" {
				full = c.RootPackage + "." + name
			}
			tok, err := g.AddModule(full)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		levels = append(levels, layers.Level{Layers: tokens, Independent: spec.Independent, Closed: spec.Closed})
	}
	return levels, nil
}

func renderViolations(g *graph.Graph, deps []layers.PackageDependency) []reportmodel.Violation {
	out := make([]reportmodel.Violation, 0, len(deps))
	for _, d := range deps {
		v := reportmodel.Violation{
			Importer: moduleName(g, d.Importer),
			Imported: moduleName(g, d.Imported),
		}
		for _, r := range d.Routes {
			v.Routes = append(v.Routes, reportmodel.Route{
				Heads:  moduleNames(g, r.Heads),
				Middle: moduleNames(g, r.Middle),
				Tails:  moduleNames(g, r.Tails),
			})
		}
		out = append(out, v)
	}
	return out
}

func moduleName(g *graph.Graph, t graph.ModuleToken) string {
	m, _ := g.GetModule(t)
	return m.Name
}

func moduleNames(g *graph.Graph, tokens []graph.ModuleToken) []string {
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = moduleName(g, t)
	}
	return names
}
