package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-devpick/internal/texture"
)

type cmdKind int

const (
	cmdFill cmdKind = iota
	cmdStroke
	cmdCircle
	cmdText
	cmdTexture
	cmdImage
)

// command is one recorded draw operation.
type command struct {
	kind  cmdKind
	rect  Rect
	color color.RGBA
	width float64
	text  string
	tex   texture.ID
	uv    Rect // normalized source rectangle for cmdTexture
	image *ebiten.Image
}

// ImageSource resolves texture handles to images at draw time.
type ImageSource interface {
	Image(id texture.ID) (*ebiten.Image, bool)
}

// DrawList is the output of one UI pass.
type DrawList []command

// Len returns the number of recorded commands.
func (d DrawList) Len() int { return len(d) }

// Replay draws every command in order. Texture commands whose handle no
// longer resolves are skipped.
func (d DrawList) Replay(screen *ebiten.Image, tr TextRendererInterface, images ImageSource) {
	for i := range d {
		c := &d[i]
		switch c.kind {
		case cmdFill:
			vector.DrawFilledRect(screen,
				float32(c.rect.X), float32(c.rect.Y), float32(c.rect.W), float32(c.rect.H),
				c.color, false)
		case cmdStroke:
			vector.StrokeRect(screen,
				float32(c.rect.X), float32(c.rect.Y), float32(c.rect.W), float32(c.rect.H),
				float32(c.width), c.color, true)
		case cmdCircle:
			r := c.rect.W / 2
			cx, cy := float32(c.rect.X+r), float32(c.rect.Y+r)
			if c.width > 0 {
				vector.StrokeCircle(screen, cx, cy, float32(r), float32(c.width), c.color, true)
			} else {
				vector.DrawFilledCircle(screen, cx, cy, float32(r), c.color, true)
			}
		case cmdText:
			if tr != nil {
				tr.DrawText(screen, c.text, c.rect.X, c.rect.Y, c.color)
			}
		case cmdTexture:
			if images == nil {
				continue
			}
			img, ok := images.Image(c.tex)
			if !ok {
				continue
			}
			drawTextured(screen, img, c.rect, c.uv)
		case cmdImage:
			if c.image != nil {
				drawStretched(screen, c.image, c.rect)
			}
		}
	}
}

// drawTextured stretches the uv part of img over dst with linear
// filtering. uv is in 0..1 texture space.
func drawTextured(screen, img *ebiten.Image, dst, uv Rect) {
	b := img.Bounds()
	tw, th := float32(b.Dx()), float32(b.Dy())
	sx0 := float32(b.Min.X) + float32(uv.X)*tw
	sy0 := float32(b.Min.Y) + float32(uv.Y)*th
	sx1 := sx0 + float32(uv.W)*tw
	sy1 := sy0 + float32(uv.H)*th
	dx0, dy0 := float32(dst.X), float32(dst.Y)
	dx1, dy1 := float32(dst.X+dst.W), float32(dst.Y+dst.H)

	vertices := []ebiten.Vertex{
		{DstX: dx0, DstY: dy0, SrcX: sx0, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx1, DstY: dy0, SrcX: sx1, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx0, DstY: dy1, SrcX: sx0, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: dx1, DstY: dy1, SrcX: sx1, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2, 1, 3, 2}
	screen.DrawTriangles(vertices, indices, img, &ebiten.DrawTrianglesOptions{
		Filter: ebiten.FilterLinear,
	})
}

// drawStretched scales the whole of img to dst with nearest sampling.
func drawStretched(screen, img *ebiten.Image, dst Rect) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
}
