package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// defaultFontSize is the default font size in points.
const defaultFontSize = 14.0

// lineSpacingFactor scales the font size to a line height.
const lineSpacingFactor = 1.3

// TextRendererInterface is what widgets need from a text renderer.
// It allows measuring without a GPU in tests.
type TextRendererInterface interface {
	DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	MeasureText(textStr string) (width, height float64)
	LineHeight() float64
	SetFontSize(size float64)
	FontSize() float64
}

// TextRenderer draws text with the embedded Go Mono face. The face is
// monospaced, which lets text fields wrap by column.
type TextRenderer struct {
	fontSource *text.GoTextFaceSource
	fontSize   float64
	mu         sync.RWMutex
}

// NewTextRenderer creates a TextRenderer at the default size.
func NewTextRenderer() *TextRenderer {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		// the font is embedded; failure means a broken build
		panic("failed to load embedded font: " + err.Error())
	}
	return &TextRenderer{
		fontSource: fontSource,
		fontSize:   defaultFontSize,
	}
}

// SetFontSize sets the font size. Non-positive sizes reset to the default.
func (tr *TextRenderer) SetFontSize(size float64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if size <= 0 {
		size = defaultFontSize
	}
	tr.fontSize = size
}

// FontSize returns the current font size.
func (tr *TextRenderer) FontSize() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize
}

func (tr *TextRenderer) face() *text.GoTextFace {
	return &text.GoTextFace{Source: tr.fontSource, Size: tr.fontSize}
}

// DrawText renders textStr with its top-left corner at (x, y).
// Newlines start a new line.
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = tr.fontSize * lineSpacingFactor

	text.Draw(screen, textStr, tr.face(), op)
}

// MeasureText returns the width and height of textStr.
func (tr *TextRenderer) MeasureText(textStr string) (width, height float64) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return text.Measure(textStr, tr.face(), tr.fontSize*lineSpacingFactor)
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize * lineSpacingFactor
}
