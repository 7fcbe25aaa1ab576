package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/monoid-privacy/cpg/cpg/engine"
	"github.com/monoid-privacy/cpg/internal/config"
	"github.com/monoid-privacy/cpg/internal/output"
	"github.com/spf13/cobra"
)

var ambiguityCapFlag int

var buildCmd = &cobra.Command{
	Use:   "build <project-dir>",
	Short: "Build a Code Property Graph for a Go project and print statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot := args[0]

		config.LoadEnv(filepath.Join(projectRoot, ".env"))
		cfg, err := config.LoadRunConfig(filepath.Join(projectRoot, ".cpgconfig.yaml"))
		if err != nil {
			return err
		}
		if ambiguityCapFlag > 0 {
			cfg.FunctionPointerAmbiguityCap = ambiguityCapFlag
		}
		if debugFlag || verboseFlag {
			cfg.Verbosity = verbosity().String()
		}

		logger := output.NewLogger(output.ParseVerbosity(cfg.Verbosity))

		result, err := engine.Build(projectRoot, cfg, logger)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}

		printStatistics(cmd, result)
		return nil
	},
}

func init() {
	buildCmd.Flags().IntVar(&ambiguityCapFlag, "ambiguity-cap", 0, "override the function-pointer resolution ambiguity cap (0 = use config/default)")
}

func printStatistics(cmd *cobra.Command, result *engine.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Files processed:     %d\n", result.FileCount)
	fmt.Fprintf(out, "Records:             %d\n", len(result.Graph.Records()))
	fmt.Fprintf(out, "Problems:            %d\n", len(result.Graph.Problems))
	fmt.Fprintf(out, "Edges:               %d\n", len(result.Graph.Edges.All()))
	fmt.Fprintf(out, "Resolver pass order: %v\n", result.PassOrder)
	fmt.Fprintf(out, "Elapsed:             %s\n", result.Elapsed.Round(time.Millisecond))
}
