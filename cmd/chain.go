package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/importgraph/grimp/internal/buildgraph"
	"github.com/importgraph/grimp/internal/fsiface"
	"github.com/importgraph/grimp/internal/graph"
)

var chainDir string
var chainAll bool
var chainAsPackages bool

var chainCmd = &cobra.Command{
	Use:   "chain <root-package> <from> <to>",
	Short: "Print the shortest import chain between two modules",
	Args:  cobra.ExactArgs(3),
	RunE:  runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().StringVar(&chainDir, "dir", ".", "Directory the root package lives in")
	chainCmd.Flags().BoolVar(&chainAll, "all", false, "Print every shortest chain instead of just one")
	chainCmd.Flags().BoolVar(&chainAsPackages, "as-packages", false, "Treat from/to as packages, including their descendants")
}

func runChain(cmd *cobra.Command, args []string) error {
	root, from, to := args[0], args[1], args[2]
	pkg := buildgraph.Package{Name: root, Directory: chainDir}
	g, err := buildgraph.Build(fsiface.OS{}, []buildgraph.Package{pkg}, buildgraph.Options{Workers: cfg.Workers})
	if err != nil {
		return err
	}

	fromTok, ok := g.GetModuleByName(from)
	if !ok {
		return fmt.Errorf("module %q not found", from)
	}
	toTok, ok := g.GetModuleByName(to)
	if !ok {
		return fmt.Errorf("module %q not found", to)
	}

	if chainAll {
		chains, err := g.FindShortestChains(fromTok, toTok, chainAsPackages)
		if err != nil {
			return err
		}
		if len(chains) == 0 {
			fmt.Println("no chain found")
			return nil
		}
		for _, chain := range chains {
			printChain(g, chain)
		}
		return nil
	}

	chain, err := g.FindShortestChain(fromTok, toTok, chainAsPackages)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		fmt.Println("no chain found")
		return nil
	}
	printChain(g, chain)
	return nil
}

func printChain(g *graph.Graph, chain []graph.ModuleToken) {
	names := make([]string, len(chain))
	for i, t := range chain {
		m, _ := g.GetModule(t)
		names[i] = m.Name
	}
	fmt.Println(strings.Join(names, " -> "))
}
