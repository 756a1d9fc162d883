package render

import (
	"fmt"

	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

const (
	settingsWidth  = 440.0
	settingsHeight = 460.0
	sliderWidth    = 240.0
)

// settingsWindow is the floating settings editor state.
type settingsWindow struct {
	open    bool
	message string
	err     string
}

func (w *settingsWindow) show() { w.open = true }

func (w *settingsWindow) close() {
	w.open = false
	w.message = ""
	w.err = ""
}

func (w *settingsWindow) setMessage(msg string) {
	w.message = msg
	w.err = ""
}

func (w *settingsWindow) setError(err error) {
	w.err = err.Error()
	w.message = ""
}

func (w *settingsWindow) rect(scr Vec, top float64) Rect {
	return Rect{
		X: 3 * panelMargin,
		Y: top + panelMargin,
		W: min(settingsWidth, max(scr.X-6*panelMargin, 0)),
		H: min(settingsHeight, max(scr.Y-top-2*panelMargin, 0)),
	}
}

func (a *App) settingsWindow() {
	th := a.ui.Theme()
	s := a.settings
	w := &a.settingsW

	a.ui.Heading("Settings")
	if w.err != "" {
		a.ui.ColoredLabel(w.err, th.Error)
	}
	if w.message != "" {
		a.ui.ColoredLabel(w.message, th.Success)
	}

	a.ui.Label(fmt.Sprintf("UI scale: %.2f", s.PixelsPerPoint))
	a.ui.Slider("settings.scale", &s.PixelsPerPoint, config.MinPixelsPerPoint, config.MaxPixelsPerPoint, 0.05, sliderWidth)

	a.ui.Label("Color display format")
	a.ui.Horizontal(func() {
		for _, f := range a.formatter.Formats() {
			if a.ui.Selectable(f.Label(), s.ColorDisplayFormat == f).Clicked {
				s.ColorDisplayFormat = f
			}
		}
	})
	a.ui.Label("Color clipboard format")
	a.ui.Horizontal(func() {
		if a.ui.Selectable("Same as display", s.ColorClipboardFormat == "").Clicked {
			s.ColorClipboardFormat = ""
		}
		for _, f := range a.formatter.Formats() {
			if a.ui.Selectable(f.Label(), s.ColorClipboardFormat == f).Clicked {
				s.ColorClipboardFormat = f
			}
		}
	})

	if a.ui.Checkbox("Cache colors", &s.CacheColors).Changed {
		a.formatter.SetMemoize(s.CacheColors)
	}
	a.ui.Checkbox("Auto copy picked color", &s.AutoCopyPickedColor)
	if a.ui.Checkbox("Remember JWT secret", &s.RememberJWTSecret).Changed {
		if s.RememberJWTSecret {
			a.rememberSecrets()
		} else {
			a.forgetSecrets()
		}
	}

	zoom := float64(s.ZoomFactor)
	a.ui.Label(fmt.Sprintf("Zoom factor: %d", s.ZoomFactor))
	if a.ui.Slider("settings.zoom", &zoom, 1, 32, 1, sliderWidth).Changed {
		s.ZoomFactor = int(zoom)
		if a.deps.Picker != nil {
			a.deps.Picker.SetFactor(s.ZoomFactor)
		}
	}

	a.ui.Space(2 * itemSpacing)
	a.ui.Horizontal(func() {
		if a.ui.Button("Save settings").Clicked {
			a.saveSettings()
		}
		if a.ui.Button("Close").Clicked {
			w.close()
		}
	})
}

func (a *App) saveSettings() {
	path := a.deps.SettingsPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			a.settingsW.setError(err)
			return
		}
		path = p
	}
	if err := a.settings.Save(path); err != nil {
		a.settingsW.setError(err)
		return
	}
	a.settingsW.setMessage("Successfully saved settings to " + path)
	a.log.Info("settings saved", "path", path)
}

// forgetSecrets removes stored JWT secrets from the keychain.
func (a *App) forgetSecrets() {
	if a.deps.Secrets == nil {
		return
	}
	for _, item := range []secrets.Item{secrets.HMACSecret, secrets.PrivateKey} {
		if err := a.deps.Secrets.Delete(item); err != nil {
			a.errors.Push(errstack.CategoryJWT, err)
		}
	}
}
