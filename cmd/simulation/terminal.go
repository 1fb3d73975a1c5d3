package main

import (
	"github.com/spf13/cobra"

	"solar-system-sim/internal/terminal"
)

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Render the simulation in the terminal",
	Long: `Draw the simulation on a character canvas, one step per tick.

Keys: p pauses, l toggles labels, + and - zoom, q quits.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc, err := buildScenario()
		if err != nil {
			return err
		}
		return terminal.Run(cmd.Context(), sc.Sim, sc.Appearances, terminal.Options{
			TPS:          cfg.Terminal.TPS,
			ColumnsPerAU: cfg.Terminal.ColumnsPerAU,
			Logger:       logger,
		})
	},
}
