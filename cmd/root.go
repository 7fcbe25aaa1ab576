// Package cmd implements the cobra CLI entry point: the root command
// wires up persistent flags and a startup banner, then delegates to the
// build subcommand to run the engine.
package cmd

import (
	"os"

	"github.com/monoid-privacy/cpg/internal/output"
	"github.com/spf13/cobra"
)

// Version is the engine's reported version string.
var Version = "0.1.0"

var (
	verboseFlag  bool
	debugFlag    bool
	noBannerFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "cpg",
	Short: "Code Property Graph construction engine",
	Long: `cpg builds a Code Property Graph from a Go project: a unified
AST/data-flow/type graph produced by a two-phase frontend and a
dependency-ordered resolver pass pipeline.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger := output.NewLogger(output.VerbosityDefault)
		if output.ShouldShowBanner(logger.IsTTY(), noBannerFlag) {
			output.PrintBanner(os.Stderr, Version, output.DefaultBannerOptions())
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug output (implies --verbose)")
	rootCmd.PersistentFlags().BoolVar(&noBannerFlag, "no-banner", false, "disable the startup banner")
	rootCmd.AddCommand(buildCmd)
}

func verbosity() output.VerbosityLevel {
	switch {
	case debugFlag:
		return output.VerbosityDebug
	case verboseFlag:
		return output.VerbosityVerbose
	default:
		return output.VerbosityDefault
	}
}
