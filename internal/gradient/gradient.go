// Package gradient models ordered sequences of color stops.
//
// A Gradient is an immutable value type. Its stops are packed into a string,
// so two gradients with the same ordered stops compare equal with == and can
// be used directly as map keys.
package gradient

import (
	"image/color"
	"strings"

	"github.com/opd-ai/go-devpick/internal/colors"
)

// bytesPerStop is the packed size of one RGBA stop.
const bytesPerStop = 4

// Gradient is an ordered, immutable sequence of RGBA stops.
// The zero value is the empty gradient.
type Gradient struct {
	stops string
}

// New builds a gradient from the given stops in order.
// No validation is done; an empty gradient is legal.
func New(stops ...color.RGBA) Gradient {
	buf := make([]byte, 0, len(stops)*bytesPerStop)
	for _, c := range stops {
		buf = append(buf, c.R, c.G, c.B, c.A)
	}
	return Gradient{stops: string(buf)}
}

// OneColor returns a single-stop gradient used for flat swatches.
func OneColor(c color.RGBA) Gradient {
	return New(c)
}

// Len returns the number of stops.
func (g Gradient) Len() int {
	return len(g.stops) / bytesPerStop
}

// IsEmpty reports whether the gradient has no stops.
func (g Gradient) IsEmpty() bool {
	return g.stops == ""
}

// At returns the i-th stop. It panics if i is out of range.
func (g Gradient) At(i int) color.RGBA {
	o := i * bytesPerStop
	s := g.stops[o : o+bytesPerStop]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// PixelRow materializes one pixel per stop, in stop order.
// Stops are not interpolated; blending happens when the texture is sampled.
func (g Gradient) PixelRow() []color.RGBA {
	row := make([]color.RGBA, g.Len())
	for i := range row {
		row[i] = g.At(i)
	}
	return row
}

// Stops is an alias of PixelRow for callers that think in stops.
func (g Gradient) Stops() []color.RGBA {
	return g.PixelRow()
}

// Compare orders gradients lexicographically over their stop bytes.
// It returns -1, 0 or +1.
func (g Gradient) Compare(other Gradient) int {
	return strings.Compare(g.stops, other.stops)
}

// String renders the stops as hex colors, e.g. "[#ff0000 #0000ff]".
func (g Gradient) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < g.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(colors.ToHex(g.At(i)))
	}
	b.WriteByte(']')
	return b.String()
}

// Shades returns n stops going from c toward black.
func Shades(c color.RGBA, n int) Gradient {
	return ramp(n, func(t float64) color.RGBA { return colors.Darken(c, t) })
}

// Tints returns n stops going from c toward white.
func Tints(c color.RGBA, n int) Gradient {
	return ramp(n, func(t float64) color.RGBA { return colors.Lighten(c, t) })
}

// Hues returns n stops rotating the hue of c by step degrees each.
func Hues(c color.RGBA, n int, step float64) Gradient {
	stops := make([]color.RGBA, 0, max(n, 0))
	for i := 0; i < n; i++ {
		stops = append(stops, colors.AdjustHue(c, float64(i)*step))
	}
	return New(stops...)
}

// ramp samples f at n evenly spaced points in [0, 1).
func ramp(n int, f func(t float64) color.RGBA) Gradient {
	stops := make([]color.RGBA, 0, max(n, 0))
	for i := 0; i < n; i++ {
		stops = append(stops, f(float64(i)/float64(n)))
	}
	return New(stops...)
}
