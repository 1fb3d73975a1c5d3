// Package window renders the simulation in a desktop window with Ebiten.
package window

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/simulation"
	"solar-system-sim/internal/visualization"
)

const (
	trailWidth = 1.0
	// debugGlyphW and debugGlyphH are the cell size of ebitenutil's debug font.
	debugGlyphW = 6
	debugGlyphH = 16
)

var backgroundColor = color.RGBA{0, 0, 0, 255}

// Renderer implements ebiten.Game. It advances the simulation exactly once
// per tick and draws trails, bodies and distance labels.
type Renderer struct {
	sim         *simulation.Simulator
	appearances visualization.Appearances
	projector   visualization.Projector
	logger      *log.Logger

	screenWidth  int
	screenHeight int

	initialEnergy float64
	showHUD       bool
	err           error // fatal step error, returned from Update
}

// NewRenderer creates a new Ebiten renderer.
func NewRenderer(sim *simulation.Simulator, appearances visualization.Appearances, projector visualization.Projector, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		sim:           sim,
		appearances:   appearances,
		projector:     projector,
		logger:        logger,
		initialEnergy: sim.Diagnostics().TotalEnergy,
		showHUD:       true,
	}
}

// Update is called every tick.
func (r *Renderer) Update() error {
	if r.err != nil {
		return r.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		r.logger.Info("window closed by user", "steps", r.sim.Steps())
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		r.showHUD = !r.showHUD
	}

	if err := r.sim.Step(); err != nil {
		r.logger.Error("simulation halted", "step", r.sim.Steps()+1, "error", err)
		r.err = fmt.Errorf("simulation step failed: %w", err)
		return r.err
	}

	r.projector.Fit(r.positions(), r.screenWidth, r.screenHeight)
	return nil
}

func (r *Renderer) positions() []r2.Vec {
	bodies := r.sim.Bodies()
	points := make([]r2.Vec, len(bodies))
	for i, b := range bodies {
		points[i] = b.GetPosition()
	}
	return points
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	anchor, hasAnchor := r.sim.Anchor()
	for _, body := range r.sim.Bodies() {
		app := r.appearances.Get(body.GetID())
		r.drawTrail(screen, body, app.Color)

		p := r.projector.ToScreen(body.GetPosition())
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), app.Radius, app.Color, true)

		if hasAnchor && body != anchor {
			label := visualization.FormatDistance(body.DistanceToAnchor())
			x := int(p.X) - len(label)*debugGlyphW/2
			y := int(p.Y) - debugGlyphH/2
			ebitenutil.DebugPrintAt(screen, label, x, y)
		}
	}

	if r.showHUD {
		r.drawDebugInfo(screen)
	}
}

// drawTrail connects the retained orbit points. Like a polyline it needs at
// least three points before anything is drawn. With a stride above one the
// last retained point lags the body, so the trail is closed up to it.
func (r *Renderer) drawTrail(screen *ebiten.Image, body *simulation.Body, clr color.RGBA) {
	history := body.History()
	if history.Len() <= 2 {
		return
	}
	var prev r2.Vec
	history.Each(func(i int, p r2.Vec) {
		cur := r.projector.ToScreen(p)
		if i > 0 {
			vector.StrokeLine(screen, float32(prev.X), float32(prev.Y), float32(cur.X), float32(cur.Y), trailWidth, clr, true)
		}
		prev = cur
	})
	if last, ok := history.Last(); ok && last != body.GetPosition() {
		cur := r.projector.ToScreen(body.GetPosition())
		vector.StrokeLine(screen, float32(prev.X), float32(prev.Y), float32(cur.X), float32(cur.Y), trailWidth, clr, true)
	}
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("Simulated: %s (step %d)", visualization.FormatDays(r.sim.Elapsed()), r.sim.Steps()),
		fmt.Sprintf("FPS: %.1f, TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Bodies: %d  Solver: %s", r.sim.Len(), r.sim.Solver().Name()),
		fmt.Sprintf("Energy drift: %+.3e", simulation.EnergyDrift(r.initialEnergy, r.sim.Diagnostics().TotalEnergy)),
		"H: toggle HUD  Esc/Q: quit",
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != r.screenWidth || outsideHeight != r.screenHeight {
		r.screenWidth = outsideWidth
		r.screenHeight = outsideHeight
		r.projector.Fit(r.positions(), r.screenWidth, r.screenHeight)
	}
	return r.screenWidth, r.screenHeight
}

// Err returns the error that halted the simulation, if any.
func (r *Renderer) Err() error {
	return r.err
}

// Options configures the desktop window.
type Options struct {
	Width  int
	Height int
	TPS    int
	Title  string
}

// Run opens the window and blocks until it is closed or the simulation
// fails. Closing the window is not an error.
func Run(r *Renderer, opts Options) error {
	r.screenWidth, r.screenHeight = opts.Width, opts.Height
	r.projector.Fit(r.positions(), r.screenWidth, r.screenHeight)

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	if err := ebiten.RunGame(r); err != nil {
		return err
	}
	return r.err
}
