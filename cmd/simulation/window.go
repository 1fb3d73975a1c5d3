package main

import (
	"github.com/spf13/cobra"

	"solar-system-sim/internal/visualization"
	"solar-system-sim/internal/visualization/window"
)

var flagFit bool

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Render the simulation in a desktop window",
	Long: `Open a window and advance the simulation one step per tick, drawing
each body, its orbit trail and its distance to the anchor body.

Keys: H toggles the HUD, Esc or Q quits.`,
	RunE: runWindow,
}

func init() {
	windowFlags(windowCmd)
}

func windowFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagFit, "fit", false, "Scale the view to keep every body visible")
}

func runWindow(cmd *cobra.Command, _ []string) error {
	sc, err := buildScenario()
	if err != nil {
		return err
	}

	var projector visualization.Projector = visualization.NewFixedScaleProjector(cfg.Screen.PixelsPerAU)
	if flagFit {
		projector = visualization.NewFitProjector()
	}

	r := window.NewRenderer(sc.Sim, sc.Appearances, projector, logger)
	return window.Run(r, window.Options{
		Width:  cfg.Screen.Width,
		Height: cfg.Screen.Height,
		TPS:    cfg.Screen.TPS,
		Title:  cfg.Screen.Title,
	})
}
