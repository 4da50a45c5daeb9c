package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/buildgraph"
	"github.com/importgraph/grimp/internal/fsiface"
	"github.com/importgraph/grimp/internal/importcache"
	"github.com/importgraph/grimp/internal/reportmodel"
	"github.com/importgraph/grimp/internal/telemetry"
)

var buildDir string
var buildFormat string
var buildNoCache bool

var buildCmd = &cobra.Command{
	Use:   "build <root-package>",
	Short: "Build the import graph for a package and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildDir, "dir", ".", "Directory the root package lives in")
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "Output format: text, json, dot, sarif (default from config)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Disable the on-disk imports cache")
}

func runBuild(cmd *cobra.Command, args []string) error {
	reporter.Report(telemetry.BuildStarted, nil)

	pkg := buildgraph.Package{Name: args[0], Directory: buildDir}

	opts := buildgraph.Options{
		IncludeExternalPackages: cfg.IncludeExternal,
		Workers:                 cfg.Workers,
	}
	if !buildNoCache {
		cache, err := importcache.Open(cfg.CacheDir)
		if err == nil {
			opts.Cache = cache
			defer cache.Close()
		}
	}

	logger.Progress("building import graph for %s", pkg.Name)
	g, err := buildgraph.Build(fsiface.OS{}, []buildgraph.Package{pkg}, opts)
	if err != nil {
		reporter.Report(telemetry.BuildFailed, nil)
		return err
	}

	result := reportmodel.ScanResult{
		Modules: len(g.AllModules()),
		Imports: g.CountImports(),
	}
	reporter.Report(telemetry.BuildCompleted, map[string]interface{}{"modules": result.Modules})

	format := reportmodel.OutputFormat(buildFormat)
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
	return nil
}
