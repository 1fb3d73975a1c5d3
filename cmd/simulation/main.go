// solarsim simulates the solar system with Newtonian gravity.
//
// Usage:
//
//	solarsim [window]        - Render the simulation in a desktop window
//	solarsim terminal        - Render the simulation in the terminal
//	solarsim headless        - Run without rendering and record telemetry
//	solarsim bodies          - List the configured bodies
//	solarsim config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>       - YAML file overlaying the built-in solar system
//	--log-level <level>   - debug, info, warn or error (default: info)
//	--log-format <fmt>    - text, json or logfmt (default: text)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"solar-system-sim/internal/config"
	"solar-system-sim/internal/logging"
	"solar-system-sim/internal/scenario"
)

var (
	// Global flags
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	// Set up by the root command before any subcommand runs.
	logger *log.Logger
	cfg    *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "solarsim",
	Short: "N-body simulation of the solar system",
	Long: `solarsim steps the Sun and the eight planets forward one simulated day
per tick using pairwise Newtonian gravity and draws their orbits.

Without a subcommand the simulation opens in a desktop window.

Examples:
  solarsim
  solarsim terminal
  solarsim headless --steps 3650 --telemetry-dir out --plot
  solarsim --config binary.yaml bodies`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config overlaying the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json, logfmt)")
	windowFlags(rootCmd)

	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(terminalCmd)
	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(bodiesCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	logger, err = logging.New(os.Stderr, flagLogLevel, flagLogFormat)
	if err != nil {
		return err
	}
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("configuration loaded", "path", flagConfig, "bodies", len(cfg.Bodies), "command", cmd.Name())
	return nil
}

func buildScenario() (*scenario.Scenario, error) {
	return scenario.Build(cfg, logger)
}
