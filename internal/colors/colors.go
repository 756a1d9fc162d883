// Package colors provides parsing, conversion and manipulation helpers for
// RGBA colors used by the color picker and the CLI.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyColor is returned when an empty string is parsed as a color.
var ErrEmptyColor = errors.New("empty color string")

// Named maps CSS color names to their RGBA values.
var Named = map[string]color.RGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"lime":        {R: 0, G: 255, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"silver":      {R: 192, G: 192, B: 192, A: 255},
	"maroon":      {R: 128, G: 0, B: 0, A: 255},
	"olive":       {R: 128, G: 128, B: 0, A: 255},
	"teal":        {R: 0, G: 128, B: 128, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"pink":        {R: 255, G: 192, B: 203, A: 255},
	"brown":       {R: 165, G: 42, B: 42, A: 255},
	"gold":        {R: 255, G: 215, B: 0, A: 255},
	"indigo":      {R: 75, G: 0, B: 130, A: 255},
	"violet":      {R: 238, G: 130, B: 238, A: 255},
	"coral":       {R: 255, G: 127, B: 80, A: 255},
	"crimson":     {R: 220, G: 20, B: 60, A: 255},
	"turquoise":   {R: 64, G: 224, B: 208, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// Parse parses a color string.
// Supported formats:
//   - Named colors: "red", "navy", ...
//   - Hex: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the # is optional)
//   - CSS functions: "rgb(255, 0, 0)", "rgba(255, 0, 0, 0.5)", "hsl(120, 100%, 50%)"
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, ErrEmptyColor
	}

	lower := strings.ToLower(s)
	if c, ok := Named[lower]; ok {
		return c, nil
	}

	switch {
	case strings.HasPrefix(lower, "rgba("), strings.HasPrefix(lower, "rgb("):
		return parseRGBFunc(lower)
	case strings.HasPrefix(lower, "hsl("):
		return parseHSLFunc(lower)
	case strings.HasPrefix(s, "#") || isHex(s):
		return parseHex(strings.TrimPrefix(s, "#"))
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParse parses a color string and panics on failure.
// Use only for known-good literals in initialization code.
func MustParse(s string) color.RGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

func parseHex(s string) (color.RGBA, error) {
	// Expand shorthand forms so every channel is two digits.
	if len(s) == 3 || len(s) == 4 {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		s = b.String()
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// funcArgs splits "name(a, b, c)" into its trimmed arguments.
func funcArgs(s string) ([]string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("malformed color function: %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseRGBFunc(s string) (color.RGBA, error) {
	args, err := funcArgs(s)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(args) != 3 && len(args) != 4 {
		return color.RGBA{}, fmt.Errorf("expected 3 or 4 components, got %d", len(args))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(args[i], 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid component %q: %w", args[i], err)
		}
		ch[i] = uint8(v)
	}

	alpha := uint8(255)
	if len(args) == 4 {
		alpha, err = parseAlpha(args[3])
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha %q: %w", args[3], err)
		}
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// parseAlpha reads a CSS alpha value: a number on the 0-1 scale or a
// percentage. Out-of-range values are clamped.
func parseAlpha(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		f, err := parsePercent(s)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(f * 255)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(clamp01(f) * 255)), nil
}

func parseHSLFunc(s string) (color.RGBA, error) {
	args, err := funcArgs(s)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(args) != 3 {
		return color.RGBA{}, fmt.Errorf("expected 3 components, got %d", len(args))
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hue %q: %w", args[0], err)
	}
	sat, err := parsePercent(args[1])
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid saturation %q: %w", args[1], err)
	}
	light, err := parsePercent(args[2])
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid lightness %q: %w", args[2], err)
	}
	return HSL{H: normalizeHue(h), S: sat, L: light}.ToRGBA(255), nil
}

func parsePercent(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return clamp01(f / 100), nil
}

// ToHex returns "#rrggbb", or "#rrggbbaa" when the color is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ToHexUpper is ToHex with uppercase digits.
func ToHexUpper(c color.RGBA) string {
	return strings.ToUpper(ToHex(c))
}

// ToCSSRGB returns "rgb(r, g, b)", or "rgba(r, g, b, a)" when not opaque.
func ToCSSRGB(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, float64(c.A)/255)
}

// ToCSSHSL returns "hsl(h, s%, l%)" with rounded components.
func ToCSSHSL(c color.RGBA) string {
	hsl := ToHSL(c)
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)",
		int(math.Round(hsl.H)), int(math.Round(hsl.S*100)), int(math.Round(hsl.L*100)))
}

// HSL is a color in Hue-Saturation-Lightness space.
// H is in [0, 360), S and L are in [0, 1].
type HSL struct {
	H, S, L float64
}

// ToHSL converts an RGBA color to HSL, ignoring alpha.
func ToHSL(c color.RGBA) HSL {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	l := (maxV + minV) / 2
	if maxV == minV {
		return HSL{L: l}
	}

	d := maxV - minV
	var s float64
	if l > 0.5 {
		s = d / (2 - maxV - minV)
	} else {
		s = d / (maxV + minV)
	}

	var h float64
	switch maxV {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: h * 60, S: s, L: l}
}

// ToRGBA converts back to RGBA with the given alpha.
func (hsl HSL) ToRGBA(alpha uint8) color.RGBA {
	if hsl.S == 0 {
		v := uint8(math.Round(hsl.L * 255))
		return color.RGBA{R: v, G: v, B: v, A: alpha}
	}

	var q float64
	if hsl.L < 0.5 {
		q = hsl.L * (1 + hsl.S)
	} else {
		q = hsl.L + hsl.S - hsl.L*hsl.S
	}
	p := 2*hsl.L - q
	h := hsl.H / 360

	return color.RGBA{
		R: uint8(math.Round(hueToChannel(p, q, h+1.0/3) * 255)),
		G: uint8(math.Round(hueToChannel(p, q, h) * 255)),
		B: uint8(math.Round(hueToChannel(p, q, h-1.0/3) * 255)),
		A: alpha,
	}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// Blend mixes c1 and c2; ratio 0 returns c1 and 1 returns c2.
func Blend(c1, c2 color.RGBA, ratio float64) color.RGBA {
	ratio = clamp01(ratio)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-ratio) + float64(b)*ratio))
	}
	return color.RGBA{R: mix(c1.R, c2.R), G: mix(c1.G, c2.G), B: mix(c1.B, c2.B), A: mix(c1.A, c2.A)}
}

// Lighten moves the color toward white by amount (0-1).
func Lighten(c color.RGBA, amount float64) color.RGBA {
	return Blend(c, color.RGBA{R: 255, G: 255, B: 255, A: c.A}, amount)
}

// Darken moves the color toward black by amount (0-1).
func Darken(c color.RGBA, amount float64) color.RGBA {
	return Blend(c, color.RGBA{A: c.A}, amount)
}

// AdjustHue rotates the hue by degrees, keeping alpha.
func AdjustHue(c color.RGBA, degrees float64) color.RGBA {
	hsl := ToHSL(c)
	hsl.H = normalizeHue(hsl.H + degrees)
	return hsl.ToRGBA(c.A)
}

// Luminance returns the relative luminance (0-1) per ITU-R BT.709.
func Luminance(c color.RGBA) float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.04045 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastText returns black or white, whichever reads better on bg.
func ContrastText(bg color.RGBA) color.RGBA {
	if Luminance(bg) > 0.179 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}
