package visualization

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

// padding keeps fitted content away from the screen edges.
const padding = 50.0

// Projector maps world coordinates (meters) onto screen coordinates.
type Projector interface {
	// Fit updates the transformation for the given world points and screen size.
	Fit(points []r2.Vec, width, height int)
	// ToScreen converts a world position into screen coordinates.
	ToScreen(world r2.Vec) r2.Vec
	// Scale returns the current screen units per meter.
	Scale() float64
}

// FixedScaleProjector uses a constant scale with the world origin at the
// center of the screen.
type FixedScaleProjector struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// NewFixedScaleProjector creates a projector mapping one astronomical unit
// to unitsPerAU screen units.
func NewFixedScaleProjector(unitsPerAU float64) *FixedScaleProjector {
	return &FixedScaleProjector{scale: unitsPerAU / common.AstronomicalUnit}
}

// Fit centers the origin; the points are ignored.
func (p *FixedScaleProjector) Fit(_ []r2.Vec, width, height int) {
	p.offsetX = float64(width) / 2
	p.offsetY = float64(height) / 2
}

func (p *FixedScaleProjector) ToScreen(world r2.Vec) r2.Vec {
	return r2.Vec{X: world.X*p.scale + p.offsetX, Y: world.Y*p.scale + p.offsetY}
}

func (p *FixedScaleProjector) Scale() float64 {
	return p.scale
}

// Zoom multiplies the scale by factor.
func (p *FixedScaleProjector) Zoom(factor float64) {
	if factor > 0 && !math.IsInf(factor, 0) {
		p.scale *= factor
	}
}

// FitProjector scales and centers the view so every point is visible.
type FitProjector struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// NewFitProjector creates an auto-fitting projector.
func NewFitProjector() *FitProjector {
	return &FitProjector{scale: 1}
}

// Fit determines the scaling and offset to fit the points onto the screen.
func (p *FitProjector) Fit(points []r2.Vec, width, height int) {
	w, h := float64(width), float64(height)
	if len(points) == 0 {
		p.scale = 1.0
		p.offsetX = w / 2
		p.offsetY = h / 2
		return
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, pt := range points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	worldWidth := maxX - minX
	worldHeight := maxY - minY
	if worldWidth == 0 && worldHeight == 0 { // Single point or all points identical
		p.scale = 1.0
		p.offsetX = w/2 - minX*p.scale
		p.offsetY = h/2 - minY*p.scale
		return
	}
	if worldWidth == 0 {
		worldWidth = worldHeight
	}
	if worldHeight == 0 {
		worldHeight = worldWidth
	}

	scaleX := (w - 2*padding) / worldWidth
	scaleY := (h - 2*padding) / worldHeight
	p.scale = math.Min(scaleX, scaleY) // Preserve aspect ratio
	if p.scale <= 0 || math.IsNaN(p.scale) || math.IsInf(p.scale, 0) {
		p.scale = 1.0
	}

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	p.offsetX = w/2 - centerX*p.scale
	p.offsetY = h/2 - centerY*p.scale
}

func (p *FitProjector) ToScreen(world r2.Vec) r2.Vec {
	return r2.Vec{X: world.X*p.scale + p.offsetX, Y: world.Y*p.scale + p.offsetY}
}

func (p *FitProjector) Scale() float64 {
	return p.scale
}
