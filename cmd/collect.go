package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thir-lang/thir/collector"
	"github.com/thir-lang/thir/diagnostics"
	"github.com/thir-lang/thir/internal/analytics"
	"github.com/thir-lang/thir/internal/config"
	"github.com/thir-lang/thir/internal/thlog"
)

// FatalError marks an in-run condition the collector could not recover
// from (as opposed to a *config.ConfigError, which is caught before any
// lowering begins). main.go maps this to exit code 2; a non-empty
// collector.Result.Fatal maps to exit code 1 instead, since those files
// were individually skipped rather than aborting the whole run (spec.md
// §6.4, §7).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Lower a Python project and its PyTea library into ThIR",
	Long: `collect walks --entry's project directory and --lib's PyTea library
directory, lowers every Python module found under each, and reports the
resulting module counts.

Examples:
  thir collect --entry ./myproject/main.py --lib ./pytea-lib
  thir collect --config thir.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		// cfg.LogLevel was already validated by config.Load; ParseLevel
		// cannot fail here.
		level, _ := thlog.ParseLevel(cfg.LogLevel)
		log := thlog.New(level)
		analytics.LoadEnvFile(log)

		projectRoot := projectRootOf(cfg.EntryPath)
		res, err := collector.Collect(projectRoot, cfg.PyteaLibPath, cfg.EntryPath, cfg.IgnoreAssert, log)
		if err != nil {
			return &FatalError{Err: fmt.Errorf("collect: %w", err)}
		}
		log.PrintTimingSummary()
		analytics.ReportCollection(res, log)

		if cfg.ExtractIR {
			report := &diagnostics.Report{Findings: res.Findings}
			for _, f := range res.Fatal {
				report.Fatal = append(report.Fatal, diagnostics.FatalEntry{File: f.File, Err: f.Err})
			}
			for _, e := range res.IOErrors {
				report.IOFailures = append(report.IOFailures, diagnostics.IOFailure{File: e.File, Err: e.Err})
			}
			if err := report.WriteSARIF(os.Stdout); err != nil {
				return &FatalError{Err: fmt.Errorf("writing SARIF report: %w", err)}
			}
		}

		if len(res.Fatal) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func projectRootOf(entryPath string) string {
	return filepath.Dir(entryPath)
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().String("entry", "", "Path to the project's entry Python file (required)")
	collectCmd.Flags().String("lib", "", "Path to the PyTea stub library directory (required)")
	collectCmd.Flags().String("config", "", "Path to an optional JSON config file")
	collectCmd.Flags().String("log-level", "reduced", "One of: none, result-only, reduced, full")
	collectCmd.Flags().Bool("extract-ir", false, "Write a SARIF diagnostics report to stdout after collecting")
	collectCmd.Flags().Bool("ignore-assert", true, "Lower assert statements to Pass instead of a raise guard")
}
