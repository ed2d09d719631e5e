// Package cmd wires the frontend's thin CLI shell: config loading,
// analytics opt-in, and dispatch to package collector. Grounded on the
// teacher's cmd/root.go PersistentPreRun pattern.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thir-lang/thir/internal/analytics"
)

var rootCmd = &cobra.Command{
	Use:   "thir",
	Short: "thir lowers a Python project into ThIR for a symbolic tensor-shape checker",
	Long:  `thir is a standalone Python-to-ThIR lowering frontend.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		analytics.Init(disableMetrics)
	},
}

// Execute runs the root command; main calls this and translates its error
// into an exit code (spec.md §6.4).
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
}
