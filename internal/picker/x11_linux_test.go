//go:build linux

package picker

import (
	"image"
	"image/color"
	"testing"
)

func TestDecodeBGRX(t *testing.T) {
	area := image.Rect(5, 5, 7, 6)
	img := image.NewRGBA(area)
	decodeBGRX(img, area, []byte{1, 2, 3, 0, 10, 20, 30, 0})
	if c := img.RGBAAt(5, 5); c != (color.RGBA{R: 3, G: 2, B: 1, A: 255}) {
		t.Errorf("first pixel = %v", c)
	}
	if c := img.RGBAAt(6, 5); c != (color.RGBA{R: 30, G: 20, B: 10, A: 255}) {
		t.Errorf("second pixel = %v", c)
	}
}
