package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weftbench",
	Short: "Scenario runner for the weft cooperative runtime",
	Long:  `weftbench drives the weft runtime through configurable scenarios and reports timing and scheduler statistics.`,
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
