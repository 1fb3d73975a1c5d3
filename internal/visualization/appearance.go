package visualization

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// fallbackColor is used for bodies without a valid color.
var fallbackColor = color.RGBA{200, 200, 255, 255}

// Appearance is the presentation record of a body. The simulation core knows
// nothing about it; renderers look it up by body ID.
type Appearance struct {
	Color  color.RGBA
	Radius float32 // display radius in pixels
}

// Appearances maps body IDs to their presentation records.
type Appearances map[string]Appearance

// Get returns the appearance for a body, or a small default one.
func (a Appearances) Get(id string) Appearance {
	if app, ok := a[id]; ok {
		return app
	}
	return Appearance{Color: fallbackColor, Radius: 4}
}

// ParseColor parses a "#RRGGBB" color. Invalid input yields the fallback
// color and false.
func ParseColor(hex string) (color.RGBA, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallbackColor, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, true
}

// Hex formats a color as "#rrggbb".
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
