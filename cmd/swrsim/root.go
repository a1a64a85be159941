package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/config"
	"github.com/rpgo/swr-simulator/internal/logging"
)

const version = "v0.1.0"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configFile string
	logLevel   string
	workers    int

	settings *config.ServiceConfig
	logger   *logging.Logger
	engine   *calculation.CalculationEngine
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "swrsim",
		Short:   "Safe withdrawal rate back-test simulator",
		Version: version,
		Long: `swrsim back-tests retirement withdrawal strategies against every rolling window
of historic market returns, searches for the safe withdrawal rate and compares asset mixes.

Scenarios are YAML files; run 'swrsim example' to write a starting point.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init(cmd) },
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "service config file (default ./configs/swrsim.yaml or ./swrsim.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error); overrides the config file")
	root.PersistentFlags().IntVar(&a.workers, "workers", -1, "parallel workers per fan-out (0 = all CPUs); overrides the config file")

	root.AddCommand(
		newSimulateCmd(a),
		newSWRCmd(a),
		newOptimiseCmd(a),
		newServeCmd(a),
		newExampleCmd(),
	)
	return root
}

// init loads service settings and builds the logger and engine.
func (a *app) init(cmd *cobra.Command) error {
	settings, err := config.LoadServiceConfig(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.LogLevel = a.logLevel
	}
	if a.workers >= 0 {
		settings.Workers = a.workers
	}
	logger, err := logging.New(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = logger.With("cmd", cmd.Name())

	a.engine = calculation.NewCalculationEngine()
	a.engine.SetLogger(a.logger)
	a.engine.SetWorkers(settings.Workers)
	return nil
}
