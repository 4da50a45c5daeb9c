package main

import (
	"fmt"
	"os"

	"github.com/importgraph/grimp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}
