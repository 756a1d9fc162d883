package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/texture"
)

// SwatchUV returns the normalized source rectangle for a gradient of n
// stops. It is inset by half a texel on the left and right so linear
// filtering never blends in the clamped edge texels. A single stop
// samples its texel center.
func SwatchUV(n int) Rect {
	if n <= 0 {
		return Rect{W: 1, H: 1}
	}
	inset := 0.5 / float64(n)
	return Rect{X: inset, Y: 0, W: 1 - 2*inset, H: 1}
}

// RenderGradient draws g stretched to size using the cached texture for
// it, allocating one through alloc on first use. hover, when not empty,
// is shown as a tooltip; border outlines the swatch.
//
// The second result is false when nothing was drawn: alloc is nil, the
// guard is nil, or the texture could not be allocated. An allocation
// error is pushed to the UI error stack once per gradient until that
// gradient renders again.
func RenderGradient(ui *UI, alloc texture.Allocator, guard *texture.Guard, g gradient.Gradient, size Vec, hover string, border bool) (Response, bool) {
	if alloc == nil || guard == nil {
		return Response{}, false
	}
	id, err := guard.GetOrAllocate(alloc, g)
	if err != nil {
		ui.Report(textureSource(g), errstack.CategoryTexture, err)
		return Response{}, false
	}
	if len(ui.reported) > 0 {
		ui.Report(textureSource(g), errstack.CategoryTexture, nil)
	}

	r := ui.allocate(size.X, size.Y)
	resp := ui.interact(r)
	ui.push(command{kind: cmdTexture, rect: r, tex: id, uv: SwatchUV(g.Len())})
	if border {
		ui.Stroke(r, ui.theme.Stroke)
	}
	if resp.Hovered {
		if hover != "" {
			ui.Tooltip(hover)
		}
		ui.SetCursor(ebiten.CursorShapePointer)
	}
	return resp, true
}

func textureSource(g gradient.Gradient) string {
	return "texture:" + g.String()
}

// RenderColor draws a solid swatch of c.
func RenderColor(ui *UI, alloc texture.Allocator, guard *texture.Guard, c color.RGBA, size Vec, hover string, border bool) (Response, bool) {
	return RenderGradient(ui, alloc, guard, gradient.OneColor(c), size, hover, border)
}

// StopAt returns the gradient stop under x for a swatch drawn in r.
func StopAt(g gradient.Gradient, r Rect, x float64) (color.RGBA, bool) {
	n := g.Len()
	if n == 0 || r.W <= 0 {
		return color.RGBA{}, false
	}
	i := int((x - r.X) / r.W * float64(n))
	i = max(0, min(n-1, i))
	return g.At(i), true
}
