package render

import (
	"image/color"
	"time"

	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/palette"
	"github.com/opd-ai/go-devpick/internal/texture"
)

const (
	panelMargin     = 10.0
	sidePanelWidth  = 230.0
	savedSwatchSize = 26.0
	savedPerRow     = 6
	toastWidth      = 340.0
	toastMargin     = 12.0
)

func (a *App) topBarHeight() float64 {
	return a.ui.lineHeight + buttonPadding + 2*panelMargin
}

// drawPanels lays out the whole window for one frame.
func (a *App) drawPanels(guard *texture.Guard, now time.Time) {
	th := a.ui.Theme()
	scr := a.ui.Screen()
	barH := a.topBarHeight()

	var settingsRect Rect
	if a.settingsW.open {
		settingsRect = a.settingsW.rect(scr, barH)
		a.ui.Occlude(settingsRect)
		if a.ui.Input().Escape && !a.ui.Typing() {
			a.settingsW.close()
		}
	}

	top := Rect{W: scr.X, H: barH}
	a.ui.Fill(top, th.TopBar)
	a.ui.Area(top.Inset(panelMargin), a.topBar)

	body := Rect{Y: barH, W: scr.X, H: max(scr.Y-barH, 0)}
	if a.sidePanel {
		side := Rect{X: max(scr.X-sidePanelWidth, 0), Y: barH, W: min(sidePanelWidth, scr.X), H: body.H}
		body.W = side.X
		a.ui.Fill(side, th.Panel)
		a.ui.Area(side.Inset(panelMargin), func() { a.savedColors(guard) })
	}

	a.ui.Area(body.Inset(panelMargin), func() {
		switch a.tab {
		case TabJWT:
			a.jwtPanel(body.W - 2*panelMargin)
		default:
			a.pickerPanel(guard)
		}
	})

	if a.settingsW.open {
		a.ui.Fill(settingsRect, th.Panel)
		a.ui.Stroke(settingsRect, th.Stroke)
		a.ui.Overlay(settingsRect.Inset(2*panelMargin), a.settingsWindow)
	}

	a.drawToasts(now, barH)
}

func (a *App) topBar() {
	a.ui.Horizontal(func() {
		if a.ui.Selectable("JWT", a.tab == TabJWT).Clicked {
			a.tab = TabJWT
		}
		if a.ui.Selectable("ColorPicker", a.tab == TabColorPicker).Clicked {
			a.tab = TabColorPicker
		}
		a.ui.Space(3 * itemSpacing)

		if r := a.ui.Button("Saved colors"); r.Clicked {
			a.sidePanel = !a.sidePanel
		} else if r.Hovered {
			a.ui.Tooltip("Show/hide side panel")
		}
		if r := a.ui.Button("Settings"); r.Clicked {
			a.settingsW.show()
		} else if r.Hovered {
			a.ui.Tooltip("Settings")
		}
		label := "Light mode"
		if !a.ui.Theme().Dark {
			label = "Dark mode"
		}
		if r := a.ui.Button(label); r.Clicked {
			a.settings.Theme = toggleTheme(a.settings.Theme)
		} else if r.Hovered {
			a.ui.Tooltip("Switch ui color theme")
		}
	})
}

// swatch draws a gradient through the texture cache. When it cannot be
// drawn an outlined placeholder keeps the layout and the interaction.
func (a *App) swatch(guard *texture.Guard, g gradient.Gradient, size Vec, hover string, border bool) Response {
	resp, ok := RenderGradient(a.ui, a.alloc, guard, g, size, hover, border)
	a.metrics.RecordSwatch(ok)
	if ok {
		return resp
	}
	r := a.ui.allocate(size.X, size.Y)
	a.ui.Stroke(r, a.ui.Theme().Stroke)
	resp = a.ui.interact(r)
	if resp.Hovered && hover != "" {
		a.ui.Tooltip(hover)
	}
	return resp
}

// savedColors is the side panel listing the saved palette. A click
// copies a color and selects it; a secondary click removes it.
func (a *App) savedColors(guard *texture.Guard) {
	a.ui.Heading("Saved colors")
	p, err := a.library.Get(palette.DefaultName)
	if err != nil || p.Len() == 0 {
		a.ui.WeakLabel("No saved colors")
		return
	}
	saved := p.Colors
	var remove *color.RGBA
	for start := 0; start < len(saved); start += savedPerRow {
		row := saved[start:min(start+savedPerRow, len(saved))]
		a.ui.Horizontal(func() {
			for _, c := range row {
				resp := a.swatch(guard, gradient.OneColor(c), Vec{savedSwatchSize, savedSwatchSize},
					a.formatColor(a.settings.ColorDisplayFormat, c), true)
				switch {
				case resp.Clicked:
					a.current = c
					a.hasColor = true
					a.copyColor(c)
				case resp.SecondaryClick:
					remove = &c
				}
			}
		})
	}
	if remove != nil {
		a.removeSaved(*remove)
	}
	a.ui.Space(itemSpacing)
	a.ui.WeakLabel("Right click removes a color")
}

func (a *App) updateLibrary(fn func(*palette.Library) error) {
	if a.deps.Palettes == nil {
		if err := fn(a.library); err != nil {
			a.errors.Push(errstack.CategoryPalette, err)
		}
		return
	}
	lib, err := a.deps.Palettes.Update(fn)
	if err != nil {
		a.errors.Push(errstack.CategoryPalette, err)
		return
	}
	a.library = lib
}

func (a *App) addSaved() {
	if !a.hasColor {
		return
	}
	c := a.current
	a.updateLibrary(func(lib *palette.Library) error {
		p, err := lib.Ensure(palette.DefaultName)
		if err != nil {
			return err
		}
		p.Add(c)
		return nil
	})
}

func (a *App) removeSaved(c color.RGBA) {
	a.updateLibrary(func(lib *palette.Library) error {
		p, err := lib.Get(palette.DefaultName)
		if err != nil {
			return err
		}
		p.Remove(c)
		return nil
	})
}

// drawToasts shows unexpired errors stacked up from the bottom right,
// newest at the bottom.
func (a *App) drawToasts(now time.Time, top float64) {
	items := a.toasts.Visible(now)
	if len(items) == 0 {
		return
	}
	th := a.ui.Theme()
	scr := a.ui.Screen()
	width := min(toastWidth, max(scr.X-2*toastMargin, 0))
	cols := max(int((width-2*buttonPadding)/a.ui.charWidth), 1)
	y := scr.Y - toastMargin
	for i := len(items) - 1; i >= 0; i-- {
		e := &items[i]
		lines := wrapColumns(e.Message(), cols)
		h := float64(len(lines)+1)*a.ui.lineHeight + 2*buttonPadding
		r := Rect{X: scr.X - width - toastMargin, Y: y - h, W: width, H: h}
		if r.Y < top {
			break
		}
		a.ui.Fill(r, th.Panel)
		a.ui.Stroke(r, th.Error)
		p := Vec{X: r.X + buttonPadding, Y: r.Y + buttonPadding}
		a.ui.DrawText("Error", p, th.WeakText)
		for j, line := range lines {
			a.ui.DrawText(line, Vec{p.X, p.Y + float64(j+1)*a.ui.lineHeight}, th.Error)
		}
		y = r.Y - itemSpacing
	}
}
