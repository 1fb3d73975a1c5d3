package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"solar-system-sim/internal/telemetry"
)

var (
	flagSteps        int
	flagEvery        int
	flagTelemetryDir string
	flagPlot         bool
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the simulation without rendering",
	Long: `Advance the simulation for a number of steps, sampling energy and
momentum along the way. With --telemetry-dir the samples are written to
energy.csv and bodies.csv. A summary of the energy drift is printed at the end.

Steps <= 0 runs until interrupted.`,
	RunE: runHeadless,
}

func init() {
	headlessCmd.Flags().IntVar(&flagSteps, "steps", 365, "Number of steps to simulate (<= 0 = until interrupted)")
	headlessCmd.Flags().IntVar(&flagEvery, "every", 0, "Sample every N steps (0 = telemetry.every from config)")
	headlessCmd.Flags().StringVar(&flagTelemetryDir, "telemetry-dir", "", "Directory for CSV telemetry (default: telemetry.dir from config)")
	headlessCmd.Flags().BoolVar(&flagPlot, "plot", false, "Print an ASCII plot of the energy drift")
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	sc, err := buildScenario()
	if err != nil {
		return err
	}

	every := cfg.Telemetry.Every
	if flagEvery > 0 {
		every = flagEvery
	}
	dir := cfg.Telemetry.Dir
	if flagTelemetryDir != "" {
		dir = flagTelemetryDir
	}

	rec, err := telemetry.NewRecorder(dir, every)
	if err != nil {
		return err
	}
	defer rec.Close()
	if err := rec.Observe(sc.Sim); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := sc.Sim.Run(ctx, flagSteps, rec.Observe)
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	if err := rec.Close(); err != nil {
		return fmt.Errorf("closing telemetry: %w", err)
	}

	out := cmd.OutOrStdout()
	sc.Sim.PrintState(out)
	summary := rec.Summary()
	fmt.Fprintln(out, summary)
	if rec.Dir() != "" {
		logger.Info("telemetry written", "dir", rec.Dir(), "samples", summary.Samples)
	}
	if flagPlot {
		fmt.Fprintln(out, rec.Plot(70, 12))
	}
	return nil
}
