package render

import (
	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/texture"
)

const (
	currentColorBoxSize = 40.0
	maxZoomViewSize     = 160.0
	rampWidth           = 320.0
	rampHeight          = 24.0
	rampStops           = 10
	hueStops            = 12
	hueStep             = 30.0
)

const pickHelp = "Move the pointer outside the window to sample the screen. " +
	"The color is picked when the pointer returns."

func (a *App) pickerPanel(guard *texture.Guard) {
	th := a.ui.Theme()
	c := a.current
	display := a.formatColor(a.settings.ColorDisplayFormat, c)

	a.ui.Horizontal(func() {
		a.ui.Vertical(func() {
			a.ui.Horizontal(func() {
				if a.hasColor {
					a.ui.Label("Current color: " + display)
				} else {
					a.ui.WeakLabel("No color picked yet")
				}
				if r := a.ui.Button("Copy"); r.Clicked && a.hasColor {
					a.copyColor(c)
				} else if r.Hovered {
					a.ui.Tooltip("Copy color to clipboard")
				}
				if r := a.ui.Button("Add"); r.Clicked {
					a.addSaved()
				} else if r.Hovered {
					a.ui.Tooltip("Add this color to saved colors")
				}
			})
			if a.swatch(guard, gradient.OneColor(c), Vec{currentColorBoxSize, currentColorBoxSize}, display, true).Clicked && a.hasColor {
				a.copyColor(c)
			}
			if a.zoomTex != nil {
				b := a.zoomTex.Bounds()
				side := min(float64(max(b.Dx(), b.Dy())), maxZoomViewSize)
				a.ui.Image(a.zoomTex, Vec{side, side})
			}
		})
	})

	a.ui.Space(2 * itemSpacing)
	if !a.hasColor {
		a.ui.WeakLabel(pickHelp)
		return
	}

	ramps := []struct {
		name  string
		hover string
		g     gradient.Gradient
	}{
		{"Shades", "Click to select a shade", gradient.Shades(c, rampStops)},
		{"Tints", "Click to select a tint", gradient.Tints(c, rampStops)},
		{"Hues", "Click to select a hue", gradient.Hues(c, hueStops, hueStep)},
	}
	for _, ramp := range ramps {
		a.ui.ColoredLabel(ramp.name, th.WeakText)
		resp := a.swatch(guard, ramp.g, Vec{rampWidth, rampHeight}, ramp.hover, true)
		if resp.Clicked {
			if stop, ok := StopAt(ramp.g, resp.Rect, a.ui.Input().Cursor.X); ok {
				a.current = stop
			}
		}
	}
	a.ui.Space(itemSpacing)
	a.ui.WeakLabel(pickHelp)
}
