package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/config"
	"github.com/rpgo/swr-simulator/internal/domain"
	"github.com/rpgo/swr-simulator/internal/output"
	"github.com/rpgo/swr-simulator/internal/scenario"
)

// runOptions are the flags shared by the commands that run a scenario.
type runOptions struct {
	format    string
	outputDir string
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "console",
		"output format: "+strings.Join(output.AvailableFormatterNames(), ", ")+" or all")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory instead of stdout")
}

type runFunc func(ctx context.Context, sc calculation.Scenario) (*domain.Report, error)

// runScenarioFile loads a scenario file and its data, runs it and emits the report.
func (a *app) runScenarioFile(cmd *cobra.Command, path string, opts *runOptions, run runFunc) error {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return err
	}
	sc, _, err := scenario.Load(cfg)
	if err != nil {
		return err
	}
	report, err := run(cmd.Context(), sc)
	if err != nil {
		return err
	}
	return emit(cmd, report, opts)
}

func emit(cmd *cobra.Command, report *domain.Report, opts *runOptions) error {
	if opts.outputDir == "" {
		if output.NormalizeFormatName(opts.format) == "all" {
			return fmt.Errorf("format 'all' needs --output-dir")
		}
		return output.Render(cmd.OutOrStdout(), report, opts.format)
	}
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files, err := output.GenerateReport(report, opts.format, opts.outputDir)
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", f)
	}
	return err
}

func newSimulateCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Search the safe withdrawal rate and back-test the scenario's policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenarioFile(cmd, args[0], opts, a.engine.RunScenario)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newSWRCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "swr <scenario.yaml>",
		Short: "Search the largest safe constant withdrawal rate per cycle and per year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenarioFile(cmd, args[0], opts, a.engine.SearchSWR)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newOptimiseCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:     "optimise <scenario.yaml>",
		Aliases: []string{"optimize"},
		Short:   "Grid-search asset mixes for the lowest failure rate",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenarioFile(cmd, args[0], opts, a.engine.Optimise)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example scenario (default example_scenario.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_scenario.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return fmt.Errorf("failed to write example: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
}
