// Package terminal renders the simulation in a terminal with Bubble Tea.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
	"solar-system-sim/internal/simulation"
	"solar-system-sim/internal/visualization"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// cellAspect is the height of a terminal cell relative to its width.
	cellAspect = 2.0

	bodyGlyph  = '●'
	trailGlyph = '·'

	labelColor = "#808080"
)

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// TickMsg advances the simulation by one step.
type TickMsg time.Time

func tickCmd(tps int) tea.Cmd {
	interval := time.Second / time.Duration(tps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Options configures the terminal renderer.
type Options struct {
	TPS          int
	ColumnsPerAU float64
	Logger       *log.Logger
}

// Model is the Bubble Tea model driving the simulation.
type Model struct {
	sim         *simulation.Simulator
	appearances visualization.Appearances
	projector   *visualization.FixedScaleProjector
	canvas      *Canvas
	logger      *log.Logger
	tps         int

	initialEnergy float64
	paused        bool
	labels        bool
	err           error
}

// NewModel creates a terminal model for sim.
func NewModel(sim *simulation.Simulator, appearances visualization.Appearances, opts Options) Model {
	if opts.TPS <= 0 {
		opts.TPS = 30
	}
	if opts.ColumnsPerAU <= 0 {
		opts.ColumnsPerAU = 12
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	// Rows are projected at double resolution and halved when drawn.
	projector := visualization.NewFixedScaleProjector(opts.ColumnsPerAU)
	m := Model{
		sim:           sim,
		appearances:   appearances,
		projector:     projector,
		canvas:        NewCanvas(defaultWidth, defaultHeight-1),
		logger:        opts.Logger,
		tps:           opts.TPS,
		labels:        true,
		initialEnergy: sim.Diagnostics().TotalEnergy,
	}
	projector.Fit(nil, defaultWidth, int(float64(defaultHeight-1)*cellAspect))
	return m
}

// Err returns the step error that stopped the model, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.tps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		case "l":
			m.labels = !m.labels
		case "+", "=":
			m.projector.Zoom(1.25)
		case "-":
			m.projector.Zoom(0.8)
		}
		return m, nil

	case tea.WindowSizeMsg:
		rows := max(msg.Height-1, 1)
		m.canvas.Resize(msg.Width, rows)
		m.projector.Fit(nil, msg.Width, int(float64(rows)*cellAspect))
		return m, nil

	case TickMsg:
		if m.err != nil {
			return m, tea.Quit
		}
		if !m.paused {
			if err := m.sim.Step(); err != nil {
				m.logger.Error("simulation step failed", "error", err)
				m.err = fmt.Errorf("step %d: %w", m.sim.Steps()+1, err)
				return m, tea.Quit
			}
		}
		return m, tickCmd(m.tps)
	}
	return m, nil
}

// project maps a world position to a canvas cell.
func (m Model) project(p r2.Vec) (int, int) {
	s := m.projector.ToScreen(p)
	return int(math.Round(s.X)), int(math.Round(s.Y / cellAspect))
}

// draw rasterizes trails and bodies onto the canvas.
func (m Model) draw() {
	m.canvas.Clear()
	bodies := m.sim.Bodies()
	for _, b := range bodies {
		color := visualization.Hex(m.appearances.Get(b.GetID()).Color)
		if b.History().Len() > 2 {
			b.History().Each(func(_ int, p r2.Vec) {
				x, y := m.project(p)
				m.canvas.Set(x, y, trailGlyph, color)
			})
		}
	}
	if m.labels {
		for _, b := range bodies {
			x, y := m.project(b.GetPosition())
			m.canvas.WriteString(x+2, y, b.GetName(), labelColor)
		}
	}
	for _, b := range bodies {
		color := visualization.Hex(m.appearances.Get(b.GetID()).Color)
		x, y := m.project(b.GetPosition())
		m.canvas.Set(x, y, bodyGlyph, color)
	}
}

func (m Model) status() string {
	d := m.sim.Diagnostics()
	state := "running"
	if m.paused {
		state = "paused"
	}
	return fmt.Sprintf("day %.0f  bodies %d  drift %+.2e  %s  [p]ause [l]abels [+/-] zoom [q]uit",
		m.sim.Elapsed()/common.SecondsPerDay, m.sim.Len(),
		simulation.EnergyDrift(m.initialEnergy, d.TotalEnergy), state)
}

func (m Model) View() string {
	m.draw()
	return m.canvas.Render() + "\n" + statusStyle.Render(m.status())
}

// Run starts the terminal program and blocks until it quits or ctx is
// cancelled. A step error that stopped the program is returned.
func Run(ctx context.Context, sim *simulation.Simulator, appearances visualization.Appearances, opts Options) error {
	p := tea.NewProgram(
		NewModel(sim, appearances, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal renderer: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
