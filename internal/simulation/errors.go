package simulation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

var (
	// ErrDuplicateBody is returned when a body (or its ID) is added twice.
	ErrDuplicateBody = errors.New("body already exists in simulation")
	// ErrUnknownBody is returned when an ID does not name a body of the simulation.
	ErrUnknownBody = errors.New("unknown body")
	// ErrAnchorAlreadySet is returned by a second SetAnchor call.
	ErrAnchorAlreadySet = errors.New("anchor already set")
	// ErrInvalidTimeStep is returned for non-positive or non-finite time steps.
	ErrInvalidTimeStep = errors.New("time step must be positive and finite")
)

// InvalidMassError reports a body constructed with a mass that is not a
// positive finite number.
type InvalidMassError struct {
	Name string
	Mass float64
}

func (e *InvalidMassError) Error() string {
	return fmt.Sprintf("invalid mass for body %q: %g (must be > 0)", e.Name, e.Mass)
}

// CoincidentBodiesError reports two bodies sharing the same position, which
// leaves the force between them undefined.
type CoincidentBodiesError struct {
	First    string
	Second   string
	Position r2.Vec
}

func (e *CoincidentBodiesError) Error() string {
	return fmt.Sprintf("bodies %s and %s are coincident at %s", e.First, e.Second, common.FormatVector(e.Position))
}

// InvalidStateError reports a non-finite kinematic value, either supplied at
// construction or produced by a step that was therefore not committed.
type InvalidStateError struct {
	Body  string
	Field string
	Value r2.Vec
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("non-finite %s for body %s: %s", e.Field, e.Body, common.FormatVector(e.Value))
}
