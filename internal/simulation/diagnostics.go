package simulation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

// Diagnostics summarizes the conserved quantities of the system. Semi-implicit
// Euler does not conserve energy exactly, so the drift of TotalEnergy over a
// run is a measure of integration error.
type Diagnostics struct {
	Step            uint64
	Elapsed         float64 // seconds
	Momentum        r2.Vec  // kg·m/s
	KineticEnergy   float64 // J
	PotentialEnergy float64 // J
	TotalEnergy     float64 // J
	AngularMomentum float64 // kg·m²/s, about the origin
	CenterOfMass    r2.Vec  // m
	TotalMass       float64 // kg
}

// Diagnostics computes the current conserved quantities.
func (s *Simulator) Diagnostics() Diagnostics {
	d := Diagnostics{Step: s.steps, Elapsed: s.elapsed}
	var weighted r2.Vec
	for i, b := range s.bodies {
		d.Momentum = r2.Add(d.Momentum, b.Momentum())
		d.KineticEnergy += b.KineticEnergy()
		d.AngularMomentum += b.mass * r2.Cross(b.position, b.velocity)
		d.TotalMass += b.mass
		weighted = r2.Add(weighted, r2.Scale(b.mass, b.position))

		for _, o := range s.bodies[i+1:] {
			r := common.Distance(b.position, o.position)
			if r == 0 {
				continue
			}
			d.PotentialEnergy -= s.g * b.mass * o.mass / r
		}
	}
	if d.TotalMass > 0 {
		d.CenterOfMass = r2.Scale(1/d.TotalMass, weighted)
	}
	d.TotalEnergy = d.KineticEnergy + d.PotentialEnergy
	return d
}

// EnergyDrift returns the change of total energy relative to its initial
// value. A zero initial energy yields the absolute change.
func EnergyDrift(initial, current float64) float64 {
	if initial == 0 {
		return current
	}
	return (current - initial) / math.Abs(initial)
}
