package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	RunE:  listScenarios,
}

func listScenarios(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		nameColor.Printf("%-10s", name)
		fmt.Println(" " + scenarios[name].description)
	}
	return nil
}
