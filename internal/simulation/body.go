package simulation

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

// Body is a point mass taking part in the gravitational interaction.
// It holds state only; every mutation is done by the Simulator that owns it.
type Body struct {
	id       string
	name     string
	position r2.Vec // meters
	velocity r2.Vec // meters per second
	mass     float64
	orbit    *OrbitHistory

	distanceToAnchor float64 // meters, measured during the last step
}

// BodyOption configures optional Body settings.
type BodyOption func(*Body)

// WithTrail bounds the orbit history of the body. See NewOrbitHistory.
func WithTrail(capacity, stride int) BodyOption {
	return func(b *Body) {
		b.orbit = NewOrbitHistory(capacity, stride)
	}
}

// WithID overrides the generated identifier.
func WithID(id string) BodyOption {
	return func(b *Body) {
		if id != "" {
			b.id = id
		}
	}
}

// NewBody creates a new body at a given position. The mass must be a positive
// finite number and the kinematic state must be finite.
func NewBody(name string, pos, vel r2.Vec, mass float64, opts ...BodyOption) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, &InvalidMassError{Name: name, Mass: mass}
	}
	if !common.IsFinite(pos) {
		return nil, &InvalidStateError{Body: name, Field: "position", Value: pos}
	}
	if !common.IsFinite(vel) {
		return nil, &InvalidStateError{Body: name, Field: "velocity", Value: vel}
	}

	b := &Body{
		id:       fmt.Sprintf("body-%s", uuid.NewString()[:8]),
		name:     name,
		position: pos,
		velocity: vel,
		mass:     mass,
		orbit:    NewOrbitHistory(0, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// GetID returns the unique identifier of the body.
func (b *Body) GetID() string {
	return b.id
}

// GetName returns the display name of the body.
func (b *Body) GetName() string {
	return b.name
}

// GetPosition returns the current position in meters.
func (b *Body) GetPosition() r2.Vec {
	return b.position
}

// GetVelocity returns the current velocity in meters per second.
func (b *Body) GetVelocity() r2.Vec {
	return b.velocity
}

func (b *Body) Mass() float64 {
	return b.mass
}

// DistanceToAnchor returns the distance to the anchor body measured during
// the last step, before any body moved. It is zero before the first step,
// for the anchor itself, and when the simulation has no anchor.
func (b *Body) DistanceToAnchor() float64 {
	return b.distanceToAnchor
}

// Orbit returns the retained past positions, oldest first.
func (b *Body) Orbit() []r2.Vec {
	return b.orbit.Points()
}

// History exposes the orbit history for allocation-free iteration.
func (b *Body) History() *OrbitHistory {
	return b.orbit
}

// Momentum returns m·v.
func (b *Body) Momentum() r2.Vec {
	return r2.Scale(b.mass, b.velocity)
}

// KineticEnergy returns ½·m·|v|².
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * r2.Norm2(b.velocity)
}

// String representation for logging
func (b *Body) String() string {
	return fmt.Sprintf("Body[%s %s] Pos: %s Vel: %s Mass: %.4e", b.id, b.name,
		common.FormatVector(b.position), common.FormatVector(b.velocity), b.mass)
}
