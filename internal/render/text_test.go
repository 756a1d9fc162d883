//go:build !noebiten

package render

import (
	"testing"
)

func TestNewTextRenderer(t *testing.T) {
	tr := NewTextRenderer()

	if tr == nil {
		t.Fatal("NewTextRenderer() returned nil")
	}
	if tr.fontSource == nil {
		t.Error("fontSource should not be nil")
	}
	if tr.FontSize() != defaultFontSize {
		t.Errorf("FontSize() = %v, want %v", tr.FontSize(), defaultFontSize)
	}
}

func TestTextRendererSetFontSize(t *testing.T) {
	tests := []struct {
		size float64
		want float64
	}{
		{24, 24},
		{9.5, 9.5},
		{0, defaultFontSize},
		{-3, defaultFontSize},
	}
	tr := NewTextRenderer()
	for _, tt := range tests {
		tr.SetFontSize(tt.size)
		if got := tr.FontSize(); got != tt.want {
			t.Errorf("SetFontSize(%v): FontSize() = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestTextRendererMeasure(t *testing.T) {
	tr := NewTextRenderer()
	tr.SetFontSize(20)

	if got := tr.LineHeight(); got != 20*lineSpacingFactor {
		t.Errorf("LineHeight() = %v, want %v", got, 20*lineSpacingFactor)
	}

	short, _ := tr.MeasureText("ab")
	long, _ := tr.MeasureText("abcd")
	if short <= 0 || long <= short {
		t.Errorf("MeasureText widths = %v, %v", short, long)
	}
	// monospaced: width grows linearly with rune count
	if diff := long - 2*short; diff > 0.01 || diff < -0.01 {
		t.Errorf("width of 4 runes = %v, want twice %v", long, short)
	}

	_, one := tr.MeasureText("x")
	_, two := tr.MeasureText("x\ny")
	if two <= one {
		t.Errorf("two lines (%v) not taller than one (%v)", two, one)
	}
}

var _ TextRendererInterface = (*TextRenderer)(nil)
