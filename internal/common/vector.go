package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// IsFinite reports whether both components of v are finite numbers.
func IsFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// FromArray converts a config-style [x, y] pair into a vector scaled by unit.
func FromArray(a [2]float64, unit float64) r2.Vec {
	return r2.Vec{X: a[0] * unit, Y: a[1] * unit}
}

// FormatVector returns a string representation of the vector.
// Astronomical magnitudes are printed in scientific notation.
func FormatVector(v r2.Vec) string {
	return fmt.Sprintf("[%.4e, %.4e]", v.X, v.Y)
}
