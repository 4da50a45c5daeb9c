// Package cmd holds grimpctl's cobra command tree. The root command's
// PersistentPreRunE loads the environment, initializes opt-out
// telemetry, and configures the verbosity-aware logger before any
// subcommand runs.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/config"
	"github.com/importgraph/grimp/internal/telemetry"
	"github.com/importgraph/grimp/internal/ui"
)

var (
	// Version is set via -ldflags at release build time.
	Version = "dev"

	verboseFlag  bool
	debugFlag    bool
	quietFlag    bool
	configPath   string
	disableTelem bool

	cfg      config.Config
	logger   *ui.Logger
	reporter *telemetry.Reporter
)

var rootCmd = &cobra.Command{
	Use:   "grimpctl",
	Short: "Import-graph analysis for layered Python-like codebases",
	Long: `grimpctl builds a static import graph for a package-structured
codebase and answers questions about it: shortest import chains,
shortest cycles, and layered-architecture violations.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		telemetry.LoadInstallID()

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if disableTelem {
			cfg.DisableTelemetry = true
		}

		verbosity := ui.VerbosityDefault
		switch {
		case quietFlag:
			verbosity = ui.VerbosityQuiet
		case debugFlag:
			verbosity = ui.VerbosityDebug
		case verboseFlag:
			verbosity = ui.VerbosityVerbose
		}
		logger = ui.New(verbosity)
		reporter = telemetry.New(cfg.DisableTelemetry, Version)
		return nil
	},
}

// Execute runs grimpctl's command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Debug output")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to .grimp.yaml (default: ./.grimp.yaml)")
	rootCmd.PersistentFlags().BoolVar(&disableTelem, "disable-metrics", false, "Disable anonymous usage metrics")
}
