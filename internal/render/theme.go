package render

import (
	"image/color"

	"github.com/opd-ai/go-devpick/internal/config"
)

// Theme is the set of colors panels and widgets draw with.
type Theme struct {
	Name string
	Dark bool

	TopBar     color.RGBA
	Background color.RGBA
	Panel      color.RGBA
	Widget     color.RGBA
	Hovered    color.RGBA
	Active     color.RGBA
	Selected   color.RGBA
	Stroke     color.RGBA
	Text       color.RGBA
	WeakText   color.RGBA
	Heading    color.RGBA
	Error      color.RGBA
	Success    color.RGBA
}

// DarkTheme returns the dark palette.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Dark:       true,
		TopBar:     color.RGBA{R: 0x14, G: 0x15, B: 0x18, A: 0xff},
		Background: color.RGBA{R: 0x1e, G: 0x20, B: 0x24, A: 0xff},
		Panel:      color.RGBA{R: 0x26, G: 0x28, B: 0x2e, A: 0xff},
		Widget:     color.RGBA{R: 0x33, G: 0x36, B: 0x3d, A: 0xff},
		Hovered:    color.RGBA{R: 0x41, G: 0x45, B: 0x4e, A: 0xff},
		Active:     color.RGBA{R: 0x52, G: 0x57, B: 0x63, A: 0xff},
		Selected:   color.RGBA{R: 0x2f, G: 0x5d, B: 0x8a, A: 0xff},
		Stroke:     color.RGBA{R: 0x6b, G: 0x70, B: 0x7c, A: 0xff},
		Text:       color.RGBA{R: 0xd8, G: 0xda, B: 0xde, A: 0xff},
		WeakText:   color.RGBA{R: 0x8e, G: 0x93, B: 0x9c, A: 0xff},
		Heading:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Error:      color.RGBA{R: 0xe0, G: 0x4f, B: 0x4f, A: 0xff},
		Success:    color.RGBA{R: 0x5c, G: 0xc4, B: 0x6f, A: 0xff},
	}
}

// LightTheme returns the light palette.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		TopBar:     color.RGBA{R: 0xf4, G: 0xf4, B: 0xf6, A: 0xff},
		Background: color.RGBA{R: 0xe6, G: 0xe7, B: 0xea, A: 0xff},
		Panel:      color.RGBA{R: 0xfa, G: 0xfa, B: 0xfb, A: 0xff},
		Widget:     color.RGBA{R: 0xd4, G: 0xd6, B: 0xdb, A: 0xff},
		Hovered:    color.RGBA{R: 0xc2, G: 0xc5, B: 0xcc, A: 0xff},
		Active:     color.RGBA{R: 0xaf, G: 0xb3, B: 0xbc, A: 0xff},
		Selected:   color.RGBA{R: 0x9c, G: 0xc3, B: 0xea, A: 0xff},
		Stroke:     color.RGBA{R: 0x8a, G: 0x8f, B: 0x99, A: 0xff},
		Text:       color.RGBA{R: 0x2a, G: 0x2c, B: 0x31, A: 0xff},
		WeakText:   color.RGBA{R: 0x6a, G: 0x6e, B: 0x77, A: 0xff},
		Heading:    color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
		Error:      color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff},
		Success:    color.RGBA{R: 0x2e, G: 0x8b, B: 0x3e, A: 0xff},
	}
}

// ThemeFor maps a settings theme to a palette. The system theme is
// not detected and falls back to dark.
func ThemeFor(t config.Theme) Theme {
	if t == config.ThemeLight {
		return LightTheme()
	}
	return DarkTheme()
}

// toggleTheme returns the settings theme the switch button moves to.
func toggleTheme(t config.Theme) config.Theme {
	if t == config.ThemeLight {
		return config.ThemeDark
	}
	return config.ThemeLight
}
