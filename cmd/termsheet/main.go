// cmd/termsheet/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "termsheet",
		Short: "Validate term sheets without a workflow broker",
		Long: `termsheet runs the same extraction, validation and export steps the
Zeebe workers run, against local files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newRegistryCmd())

	return rootCmd
}
