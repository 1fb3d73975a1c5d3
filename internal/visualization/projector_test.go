package visualization

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

func closeTo(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestFixedScaleProjector(t *testing.T) {
	p := NewFixedScaleProjector(250)
	p.Fit(nil, 1100, 800)

	tests := []struct {
		name  string
		world r2.Vec
		want  r2.Vec
	}{
		{"origin at center", r2.Vec{}, r2.Vec{X: 550, Y: 400}},
		{"one AU right", r2.Vec{X: common.AstronomicalUnit}, r2.Vec{X: 800, Y: 400}},
		{"earth start", r2.Vec{X: -0.8 * common.AstronomicalUnit}, r2.Vec{X: 350, Y: 400}},
		{"down is positive y", r2.Vec{Y: 0.4 * common.AstronomicalUnit}, r2.Vec{X: 550, Y: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ToScreen(tt.world); !closeTo(got, tt.want) {
				t.Errorf("ToScreen(%v) = %v, want %v", tt.world, got, tt.want)
			}
		})
	}

	p.Zoom(2)
	if got := p.ToScreen(r2.Vec{X: common.AstronomicalUnit}); !closeTo(got, r2.Vec{X: 1050, Y: 400}) {
		t.Errorf("after Zoom(2): %v", got)
	}
	p.Zoom(-1)
	if math.Abs(p.Scale()*common.AstronomicalUnit-500) > 1e-9 {
		t.Errorf("negative zoom changed scale to %v px/AU", p.Scale()*common.AstronomicalUnit)
	}
}

func TestFitProjectorKeepsPointsOnScreen(t *testing.T) {
	points := []r2.Vec{
		{X: -2 * common.AstronomicalUnit, Y: 0},
		{X: 1.5 * common.AstronomicalUnit, Y: 0.3 * common.AstronomicalUnit},
		{X: 0, Y: -1 * common.AstronomicalUnit},
	}
	p := NewFitProjector()
	p.Fit(points, 800, 600)

	for _, pt := range points {
		s := p.ToScreen(pt)
		if s.X < padding-1e-6 || s.X > 800-padding+1e-6 || s.Y < padding-1e-6 || s.Y > 600-padding+1e-6 {
			t.Errorf("point %v projected off the padded screen: %v", pt, s)
		}
	}

	// The bounding box center maps to the screen center.
	center := r2.Vec{X: -0.25 * common.AstronomicalUnit, Y: -0.35 * common.AstronomicalUnit}
	if got := p.ToScreen(center); !closeTo(got, r2.Vec{X: 400, Y: 300}) {
		t.Errorf("center projected to %v", got)
	}
}

func TestFitProjectorDegenerate(t *testing.T) {
	p := NewFitProjector()

	p.Fit(nil, 200, 100)
	if got := p.ToScreen(r2.Vec{}); !closeTo(got, r2.Vec{X: 100, Y: 50}) {
		t.Errorf("empty fit: origin at %v", got)
	}

	p.Fit([]r2.Vec{{X: 10, Y: 20}}, 200, 100)
	if got := p.ToScreen(r2.Vec{X: 10, Y: 20}); !closeTo(got, r2.Vec{X: 100, Y: 50}) {
		t.Errorf("single point fit: %v", got)
	}

	// Collinear points must not produce an infinite scale.
	p.Fit([]r2.Vec{{X: 0}, {X: 100}}, 200, 100)
	if s := p.Scale(); math.IsInf(s, 0) || math.IsNaN(s) || s <= 0 {
		t.Errorf("collinear fit scale = %v", s)
	}
}
