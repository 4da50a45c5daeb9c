package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/buildgraph"
	"github.com/importgraph/grimp/internal/fsiface"
)

var cyclesDir string
var cyclesAsPackage bool

var cyclesCmd = &cobra.Command{
	Use:   "cycles <root-package> <module>",
	Short: "Print the shortest import cycle through a module, if any",
	Args:  cobra.ExactArgs(2),
	RunE:  runCycles,
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
	cyclesCmd.Flags().StringVar(&cyclesDir, "dir", ".", "Directory the root package lives in")
	cyclesCmd.Flags().BoolVar(&cyclesAsPackage, "as-package", false, "Include the module's descendants when searching for a cycle")
}

func runCycles(cmd *cobra.Command, args []string) error {
	root, module := args[0], args[1]
	pkg := buildgraph.Package{Name: root, Directory: cyclesDir}
	g, err := buildgraph.Build(fsiface.OS{}, []buildgraph.Package{pkg}, buildgraph.Options{Workers: cfg.Workers})
	if err != nil {
		return err
	}

	tok, ok := g.GetModuleByName(module)
	if !ok {
		return fmt.Errorf("module %q not found", module)
	}

	cycle, err := g.FindShortestCycle(tok, cyclesAsPackage)
	if err != nil {
		return err
	}
	if len(cycle) == 0 {
		fmt.Println("no cycle found")
		return nil
	}
	printChain(g, cycle)
	return nil
}
