// Package config loads, validates and persists devpick settings.
//
// Settings live in a YAML file under the user config directory. A missing
// file means defaults. Values that name files may reference environment
// variables with ${VAR}, ${VAR:-default} or $VAR.
package config

import (
	"maps"

	"github.com/opd-ai/go-devpick/internal/colorfmt"
	"github.com/opd-ai/go-devpick/internal/jwt"
)

// Theme selects the UI palette.
type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
)

// UI scale bounds for PixelsPerPoint.
const (
	MinPixelsPerPoint = 0.25
	MaxPixelsPerPoint = 5.0
)

// Settings is the persisted user configuration.
type Settings struct {
	// PixelsPerPoint is the UI scale factor.
	PixelsPerPoint float64 `yaml:"pixels_per_point"`
	// ColorDisplayFormat is how the picked color is shown.
	ColorDisplayFormat colorfmt.Format `yaml:"color_display_format"`
	// ColorClipboardFormat is how colors are copied; empty means the
	// display format.
	ColorClipboardFormat colorfmt.Format `yaml:"color_clipboard_format,omitempty"`
	// CacheColors memoizes formatted color strings.
	CacheColors bool `yaml:"cache_colors"`
	// AutoCopyPickedColor copies every picked color to the clipboard.
	AutoCopyPickedColor bool `yaml:"auto_copy_picked_color"`
	// Theme is dark, light or system.
	Theme Theme `yaml:"theme"`
	// CustomFormats maps a format name to a Lua script returning a string.
	CustomFormats map[string]string `yaml:"custom_formats,omitempty"`
	// JWTAlgorithm is the algorithm selected when the JWT tab opens.
	JWTAlgorithm jwt.Algorithm `yaml:"jwt_algorithm"`
	// RememberJWTSecret stores the HMAC secret in the OS keychain.
	RememberJWTSecret bool `yaml:"remember_jwt_secret"`
	// PaletteFile overrides where saved colors are kept.
	PaletteFile string `yaml:"palette_file,omitempty"`
	// ZoomFactor is the magnification of the picker zoom view.
	ZoomFactor int `yaml:"zoom_factor"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		PixelsPerPoint:     1.0,
		ColorDisplayFormat: colorfmt.Hex,
		CacheColors:        true,
		Theme:              ThemeDark,
		JWTAlgorithm:       jwt.HS256,
		ZoomFactor:         8,
	}
}

// ClipboardFormat resolves the effective clipboard format.
func (s *Settings) ClipboardFormat() colorfmt.Format {
	return colorfmt.ClipboardFormat(s.ColorDisplayFormat, s.ColorClipboardFormat)
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.CustomFormats = maps.Clone(s.CustomFormats)
	return &c
}

// ClampScale limits PixelsPerPoint to the supported range.
func ClampScale(v float64) float64 {
	return min(max(v, MinPixelsPerPoint), MaxPixelsPerPoint)
}
