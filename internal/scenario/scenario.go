// Package scenario turns a configuration into a ready-to-run simulation and
// the presentation records its renderers need.
package scenario

import (
	"fmt"

	"github.com/charmbracelet/log"

	"solar-system-sim/internal/common"
	"solar-system-sim/internal/config"
	"solar-system-sim/internal/simulation"
	"solar-system-sim/internal/visualization"
)

// Scenario is a configured simulation with the appearance of each body.
type Scenario struct {
	Sim         *simulation.Simulator
	Appearances visualization.Appearances
	Config      *config.Config
}

// NewSolver builds the force solver selected in the configuration.
func NewSolver(cfg config.SolverConfig) (simulation.ForceSolver, error) {
	switch cfg.Kind {
	case config.SolverPairwise, "":
		return simulation.PairwiseSolver{Workers: cfg.Workers}, nil
	case config.SolverBarnesHut:
		return &simulation.BarnesHutSolver{Theta: cfg.Theta}, nil
	default:
		return nil, fmt.Errorf("unknown solver kind %q", cfg.Kind)
	}
}

// Build creates the simulation described by cfg. Bodies are added in
// configuration order, which is also the integration order.
func Build(cfg *config.Config, logger *log.Logger) (*Scenario, error) {
	if logger == nil {
		logger = log.Default()
	}
	solver, err := NewSolver(cfg.Simulation.Solver)
	if err != nil {
		return nil, err
	}

	sim, err := simulation.NewSimulator(
		simulation.WithTimeStep(cfg.Simulation.TimeStep),
		simulation.WithGravitationalConstant(cfg.Simulation.GravitationalConstant),
		simulation.WithForceSolver(solver),
		simulation.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	appearances := make(visualization.Appearances, len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		body, err := simulation.NewBody(bc.Name,
			common.FromArray(bc.PositionAU, common.AstronomicalUnit),
			common.FromArray(bc.VelocityKMS, common.MetersPerKilometer),
			bc.Mass,
			simulation.WithTrail(cfg.Trail.Capacity, cfg.Trail.Stride),
		)
		if err != nil {
			return nil, fmt.Errorf("bodies[%d] %s: %w", i, bc.Name, err)
		}
		if err := sim.AddBody(body); err != nil {
			return nil, fmt.Errorf("bodies[%d] %s: %w", i, bc.Name, err)
		}

		clr, ok := visualization.ParseColor(bc.Color)
		if !ok && bc.Color != "" {
			logger.Warn("invalid body color, using fallback", "body", bc.Name, "color", bc.Color)
		}
		appearances[body.GetID()] = visualization.Appearance{Color: clr, Radius: float32(bc.Radius)}

		if bc.Anchor {
			if err := sim.SetAnchor(body.GetID()); err != nil {
				return nil, fmt.Errorf("bodies[%d] %s: %w", i, bc.Name, err)
			}
		}
	}

	logger.Info("scenario ready", "bodies", sim.Len(), "solver", solver.Name(), "dt", sim.TimeStep())
	return &Scenario{Sim: sim, Appearances: appearances, Config: cfg}, nil
}

// Load reads the configuration at path (empty for defaults) and builds it.
func Load(path string, logger *log.Logger) (*Scenario, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, logger)
}
