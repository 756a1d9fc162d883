// Package colorfmt renders colors as text in the formats offered by the
// picker, including user formats written in Lua.
package colorfmt

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/opd-ai/go-devpick/internal/colors"
)

// ErrUnknownFormat is returned for format names that are not recognised.
var ErrUnknownFormat = errors.New("unknown color format")

// Format names a text representation of a color.
type Format string

// Built-in formats.
const (
	Hex      Format = "hex"
	HexUpper Format = "hex-uppercase"
	CSSRGB   Format = "css-rgb"
	CSSHSL   Format = "css-hsl"
)

const customPrefix = "custom:"

// Builtin lists the built-in formats in display order.
func Builtin() []Format {
	return []Format{Hex, HexUpper, CSSRGB, CSSHSL}
}

// Custom returns the format that runs the user script called name.
func Custom(name string) Format {
	return Format(customPrefix + name)
}

// IsCustom reports whether f refers to a user script.
func (f Format) IsCustom() bool {
	return strings.HasPrefix(string(f), customPrefix)
}

// CustomName returns the script name of a custom format, or "".
func (f Format) CustomName() string {
	if !f.IsCustom() {
		return ""
	}
	return strings.TrimPrefix(string(f), customPrefix)
}

// String returns the persisted name of the format.
func (f Format) String() string { return string(f) }

// Label returns the name shown in the UI.
func (f Format) Label() string {
	switch f {
	case Hex:
		return "Hex"
	case HexUpper:
		return "Hex uppercase"
	case CSSRGB:
		return "CSS rgb"
	case CSSHSL:
		return "CSS hsl"
	}
	if f.IsCustom() {
		return f.CustomName()
	}
	return string(f)
}

// ParseFormat accepts a persisted format name, case-insensitively for
// built-ins. Custom names keep their case.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, customPrefix); ok {
		if name == "" {
			return "", fmt.Errorf("%w: %q has no script name", ErrUnknownFormat, s)
		}
		return Custom(name), nil
	}
	for _, f := range Builtin() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ClipboardFormat resolves the clipboard format, where empty means
// "same as display".
func ClipboardFormat(display, clipboard Format) Format {
	if clipboard == "" {
		return display
	}
	return clipboard
}

// formatBuiltin renders c in a built-in format.
func formatBuiltin(f Format, c color.RGBA) (string, bool) {
	switch f {
	case Hex:
		return colors.ToHex(c), true
	case HexUpper:
		return colors.ToHexUpper(c), true
	case CSSRGB:
		return colors.ToCSSRGB(c), true
	case CSSHSL:
		return colors.ToCSSHSL(c), true
	}
	return "", false
}
