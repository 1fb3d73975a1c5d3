package scenario

import (
	"errors"
	"math"
	"testing"

	"solar-system-sim/internal/common"
	"solar-system-sim/internal/config"
	"solar-system-sim/internal/logging"
	"solar-system-sim/internal/simulation"
)

func TestBuildDefaults(t *testing.T) {
	sc, err := Load("", logging.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sc.Sim.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", sc.Sim.Len())
	}
	anchor, ok := sc.Sim.Anchor()
	if !ok || anchor.GetName() != "Sun" {
		t.Fatalf("Anchor() = %v, %v; want the Sun", anchor, ok)
	}
	if sc.Sim.TimeStep() != common.SecondsPerDay {
		t.Errorf("TimeStep() = %v", sc.Sim.TimeStep())
	}

	bodies := sc.Sim.Bodies()
	earth := bodies[3]
	if earth.GetName() != "Earth" {
		t.Fatalf("bodies[3] = %s, want Earth", earth.GetName())
	}
	if math.Abs(earth.GetPosition().X+0.8*common.AstronomicalUnit) > 1 || math.Abs(earth.GetVelocity().Y-29783) > 1e-6 {
		t.Errorf("Earth state = %s", earth)
	}
	if earth.History().Capacity() != 2000 {
		t.Errorf("trail capacity = %d, want 2000", earth.History().Capacity())
	}

	for _, b := range bodies {
		app, ok := sc.Appearances[b.GetID()]
		if !ok {
			t.Errorf("%s has no appearance", b.GetName())
			continue
		}
		if app.Radius <= 0 {
			t.Errorf("%s radius = %v", b.GetName(), app.Radius)
		}
	}
	if sun := sc.Appearances[anchor.GetID()]; sun.Radius != 35 || sun.Color.R != 253 {
		t.Errorf("Sun appearance = %+v", sun)
	}

	if err := sc.Sim.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if earth.DistanceToAnchor() == 0 {
		t.Error("Earth distance to anchor not recorded")
	}
}

func TestBuildSolvers(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{config.SolverPairwise, "pairwise"},
		{config.SolverBarnesHut, "barnes-hut"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg, err := config.Default()
			if err != nil {
				t.Fatal(err)
			}
			cfg.Simulation.Solver.Kind = tt.kind

			sc, err := Build(cfg, logging.Discard())
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := sc.Sim.Solver().Name(); got != tt.want {
				t.Errorf("solver = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := NewSolver(config.SolverConfig{Kind: "verlet"}); err == nil {
		t.Error("unknown solver accepted")
	}
}

func TestBuildRejectsInvalidBodies(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Bodies[2].Mass = -1

	_, err = Build(cfg, logging.Discard())
	var massErr *simulation.InvalidMassError
	if !errors.As(err, &massErr) {
		t.Fatalf("Build error = %v, want InvalidMassError", err)
	}
	if massErr.Name != "Venus" {
		t.Errorf("error names %q, want Venus", massErr.Name)
	}
}

func TestBuildRejectsSecondAnchor(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Bodies[5].Anchor = true

	_, err = Build(cfg, logging.Discard())
	if !errors.Is(err, simulation.ErrAnchorAlreadySet) {
		t.Fatalf("Build error = %v, want ErrAnchorAlreadySet", err)
	}
}

func TestBuildCoincidentBodiesFailOnStep(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Bodies[2].PositionAU = cfg.Bodies[1].PositionAU

	sc, err := Build(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var coincident *simulation.CoincidentBodiesError
	if err := sc.Sim.Step(); !errors.As(err, &coincident) {
		t.Fatalf("Step error = %v, want CoincidentBodiesError", err)
	}
}
