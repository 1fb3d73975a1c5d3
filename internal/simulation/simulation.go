package simulation

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

// noAnchor marks a simulation without an anchor body.
const noAnchor = -1

// Simulator advances a collection of bodies under mutual Newtonian gravity
// using semi-implicit Euler integration with a fixed time step.
type Simulator struct {
	bodies []*Body        // Integration order
	index  map[string]int // Body ID -> position in bodies
	anchor int            // Index of the anchor body or noAnchor
	dt     float64        // Seconds per step
	g      float64        // Gravitational constant
	solver ForceSolver    // Force pass implementation
	logger *log.Logger

	steps   uint64  // Completed steps
	elapsed float64 // Simulated seconds

	// Per-step scratch, sized to the body count.
	snapshot  []BodyState
	forces    []r2.Vec
	distances []float64
	nextVel   []r2.Vec
	nextPos   []r2.Vec
}

// Option configures a Simulator.
type Option func(*Simulator) error

// WithTimeStep sets the simulated seconds advanced by each Step.
func WithTimeStep(dt float64) Option {
	return func(s *Simulator) error {
		if !(dt > 0) || math.IsInf(dt, 0) {
			return fmt.Errorf("%w: got %g", ErrInvalidTimeStep, dt)
		}
		s.dt = dt
		return nil
	}
}

// WithGravitationalConstant overrides G.
func WithGravitationalConstant(g float64) Option {
	return func(s *Simulator) error {
		if !(g > 0) || math.IsInf(g, 0) {
			return fmt.Errorf("gravitational constant must be positive and finite, got %g", g)
		}
		s.g = g
		return nil
	}
}

// WithForceSolver replaces the default serial pairwise solver.
func WithForceSolver(solver ForceSolver) Option {
	return func(s *Simulator) error {
		if solver == nil {
			return fmt.Errorf("force solver must not be nil")
		}
		s.solver = solver
		return nil
	}
}

// WithLogger sets the logger used for setup and failure messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewSimulator creates an empty simulation. Without options it steps one day
// at a time with the standard gravitational constant.
func NewSimulator(opts ...Option) (*Simulator, error) {
	s := &Simulator{
		index:  make(map[string]int),
		anchor: noAnchor,
		dt:     common.SecondsPerDay,
		g:      common.GravitationalConstant,
		solver: PairwiseSolver{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("simulator created", "dt", s.dt, "g", s.g, "solver", s.solver.Name())
	return s, nil
}

// AddBody appends a body to the integration order.
func (s *Simulator) AddBody(b *Body) error {
	if b == nil {
		return fmt.Errorf("cannot add nil body")
	}
	if _, exists := s.index[b.id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.id)
	}
	s.index[b.id] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	s.logger.Debug("body added", "id", b.id, "name", b.name, "mass", b.mass)
	return nil
}

// SetAnchor designates the body distances are reported against. It can be
// called once per simulation.
func (s *Simulator) SetAnchor(id string) error {
	if s.anchor != noAnchor {
		return fmt.Errorf("%w: %s", ErrAnchorAlreadySet, s.bodies[s.anchor].id)
	}
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}
	s.anchor = i
	s.logger.Debug("anchor set", "id", id, "name", s.bodies[i].name)
	return nil
}

// Anchor returns the anchor body, if any.
func (s *Simulator) Anchor() (*Body, bool) {
	if s.anchor == noAnchor {
		return nil, false
	}
	return s.bodies[s.anchor], true
}

// Bodies returns the bodies in integration order. The slice is a copy; the
// bodies are shared.
func (s *Simulator) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// GetBody returns a body by its ID.
func (s *Simulator) GetBody(id string) (*Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Len returns the number of bodies.
func (s *Simulator) Len() int {
	return len(s.bodies)
}

// Steps returns the number of completed steps.
func (s *Simulator) Steps() uint64 {
	return s.steps
}

// Elapsed returns the simulated time in seconds.
func (s *Simulator) Elapsed() float64 {
	return s.elapsed
}

// TimeStep returns the simulated seconds per step.
func (s *Simulator) TimeStep() float64 {
	return s.dt
}

// GravitationalConstant returns G.
func (s *Simulator) GravitationalConstant() float64 {
	return s.g
}

// Solver returns the force solver in use.
func (s *Simulator) Solver() ForceSolver {
	return s.solver
}

// Step advances every body by one time step.
//
// All forces are computed from the positions at the start of the step; only
// then are velocities and positions updated (v += F/m·dt, then p += v·dt).
// On error no body is modified.
func (s *Simulator) Step() error {
	n := len(s.bodies)
	if n == 0 {
		s.steps++
		s.elapsed += s.dt
		return nil
	}
	s.prepare(n)

	// 1. Freeze positions and reject degenerate configurations.
	for i, b := range s.bodies {
		s.snapshot[i] = BodyState{ID: b.id, Position: b.position, Mass: b.mass}
		s.forces[i] = r2.Vec{}
		s.distances[i] = 0
	}
	if err := checkCoincident(s.snapshot); err != nil {
		s.logger.Error("step rejected", "step", s.steps+1, "error", err)
		return err
	}

	// 2. Force pass over the frozen snapshot.
	if err := s.solver.Forces(s.g, s.snapshot, s.anchor, s.forces, s.distances); err != nil {
		s.logger.Error("force pass failed", "step", s.steps+1, "error", err)
		return fmt.Errorf("computing forces: %w", err)
	}

	// 3. Integrate into candidate buffers so a bad result commits nothing.
	for i, b := range s.bodies {
		accel := r2.Vec{X: s.forces[i].X / b.mass, Y: s.forces[i].Y / b.mass}
		vel := r2.Add(b.velocity, r2.Scale(s.dt, accel))
		pos := r2.Add(b.position, r2.Scale(s.dt, vel))
		if !common.IsFinite(vel) {
			return &InvalidStateError{Body: b.id, Field: "velocity", Value: vel}
		}
		if !common.IsFinite(pos) {
			return &InvalidStateError{Body: b.id, Field: "position", Value: pos}
		}
		s.nextVel[i] = vel
		s.nextPos[i] = pos
	}

	// 4. Commit.
	for i, b := range s.bodies {
		b.velocity = s.nextVel[i]
		b.position = s.nextPos[i]
		if s.anchor != noAnchor && i != s.anchor {
			b.distanceToAnchor = s.distances[i]
		}
		b.orbit.Append(b.position)
	}
	s.steps++
	s.elapsed += s.dt
	return nil
}

// prepare sizes the scratch buffers for n bodies.
func (s *Simulator) prepare(n int) {
	if cap(s.snapshot) >= n {
		s.snapshot = s.snapshot[:n]
		s.forces = s.forces[:n]
		s.distances = s.distances[:n]
		s.nextVel = s.nextVel[:n]
		s.nextPos = s.nextPos[:n]
		return
	}
	s.snapshot = make([]BodyState, n)
	s.forces = make([]r2.Vec, n)
	s.distances = make([]float64, n)
	s.nextVel = make([]r2.Vec, n)
	s.nextPos = make([]r2.Vec, n)
}

// Run executes the simulation loop for a given number of steps, or until ctx
// is cancelled when steps is zero or negative. observe, if not nil, is called
// after every step; a non-nil error from it stops the loop.
func (s *Simulator) Run(ctx context.Context, steps int, observe func(*Simulator) error) error {
	s.logger.Info("starting simulation", "bodies", len(s.bodies), "steps", steps, "dt", s.dt)
	for i := 0; steps <= 0 || i < steps; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("simulation stopped", "steps", s.steps, "reason", err)
			return err
		}
		if err := s.Step(); err != nil {
			return fmt.Errorf("step %d: %w", s.steps+1, err)
		}
		if observe != nil {
			if err := observe(s); err != nil {
				return err
			}
		}
	}
	s.logger.Info("simulation finished", "steps", s.steps, "days", s.elapsed/common.SecondsPerDay)
	return nil
}

// PrintState writes the current positions of all bodies.
func (s *Simulator) PrintState(w io.Writer) {
	fmt.Fprint(w, s.String())
}

// String returns a multi-line summary of the simulation state.
func (s *Simulator) String() string {
	var sb strings.Builder
	sb.WriteString("--- Current Simulation State ---\n")
	fmt.Fprintf(&sb, "Step: %d  Time: %.2f days\n", s.steps, s.elapsed/common.SecondsPerDay)
	if len(s.bodies) == 0 {
		sb.WriteString("  None\n")
	}
	for i, b := range s.bodies {
		marker := ""
		if i == s.anchor {
			marker = " (anchor)"
		}
		fmt.Fprintf(&sb, "  %s%s | Distance to anchor: %.4e m\n", b, marker, b.distanceToAnchor)
	}
	sb.WriteString("-----------------------------\n")
	return sb.String()
}
