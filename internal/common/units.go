// Package common holds physical constants and small vector helpers shared by
// the simulation core and its renderers.
package common

const (
	// AstronomicalUnit is the mean Earth-Sun distance in meters.
	AstronomicalUnit = 149.6e6 * 1000
	// GravitationalConstant in N·m²/kg².
	GravitationalConstant = 6.67428e-11
	// SecondsPerDay is one simulated day, the default step.
	SecondsPerDay = 3600 * 24
	// MetersPerKilometer converts config velocities (km/s) and display labels (km).
	MetersPerKilometer = 1000
)
