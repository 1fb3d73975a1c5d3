package main

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the built-in defaults merged with --config. The output is a
valid config file and a starting point for custom scenarios.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cfg.WriteYAML(cmd.OutOrStdout())
	},
}
