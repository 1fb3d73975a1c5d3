package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one character of the canvas. An empty color renders unstyled.
type cell struct {
	r     rune
	color string
}

// Canvas is a fixed-size grid of colored runes.
type Canvas struct {
	width, height int
	cells         []cell
}

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Resize changes the canvas size and clears it.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.cells = make([]cell, c.width*c.height)
	c.Clear()
}

// Clear fills the canvas with spaces.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// Set writes r at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, r rune, color string) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, color: color}
}

// At returns the rune at (x, y), or a space when out of bounds.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	return c.cells[y*c.width+x].r
}

// WriteString writes s starting at (x, y), clipped to the canvas.
func (c *Canvas) WriteString(x, y int, s string, color string) {
	for _, r := range s {
		c.Set(x, y, r, color)
		x++
	}
}

// Render returns the canvas with lipgloss styling. Adjacent cells sharing a
// color are rendered as one run.
func (c *Canvas) Render() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*2 + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		row := c.cells[y*c.width : (y+1)*c.width]
		for x := 0; x < len(row); {
			color := row[x].color
			var run strings.Builder
			for x < len(row) && row[x].color == color {
				run.WriteRune(row[x].r)
				x++
			}
			if color == "" {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
		}
	}
	return sb.String()
}

// String returns the canvas without styling.
func (c *Canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, cl := range c.cells[y*c.width : (y+1)*c.width] {
			sb.WriteRune(cl.r)
		}
	}
	return sb.String()
}
