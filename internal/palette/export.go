package palette

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/gradient"
)

// ErrUnknownExport is returned for unsupported export file extensions.
var ErrUnknownExport = errors.New("unknown export format")

// WriteGPL writes p as a GIMP palette.
func WriteGPL(w io.Writer, p *Palette) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "GIMP Palette\nName: %s\nColumns: %d\n#\n", p.Name, min(max(p.Len(), 1), 16))
	for _, c := range p.Colors {
		fmt.Fprintf(bw, "%3d %3d %3d\t%s\n", c.R, c.G, c.B, colors.ToHex(c))
	}
	return bw.Flush()
}

// WriteHex writes one hex color per line.
func WriteHex(w io.Writer, p *Palette) error {
	_, err := io.WriteString(w, strings.Join(p.Hex(), "\n")+"\n")
	return err
}

// RenderGradient draws g as a smooth horizontal gradient of the given
// size. Unlike the swatch textures, stops are interpolated here.
func RenderGradient(g gradient.Gradient, width, height int) (*gg.Context, error) {
	n := g.Len()
	if n == 0 {
		return nil, errors.New("cannot render an empty gradient")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	brush := gg.NewLinearGradientBrush(0, 0, float64(width), 0)
	for i, c := range g.Stops() {
		offset := 0.0
		if n > 1 {
			offset = float64(i) / float64(n-1)
		}
		brush.AddColorStop(offset, gg.FromColor(c))
	}
	dc.SetFillBrush(brush)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	if err := dc.Fill(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("fill gradient: %w", err)
	}
	return dc, nil
}

// WritePNG encodes the interpolated gradient g as PNG.
func WritePNG(w io.Writer, g gradient.Gradient, width, height int) error {
	dc, err := RenderGradient(g, width, height)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// Export writes p to path, choosing the format from the extension:
// .gpl, .png, or .txt/.hex.
func Export(path string, p *Palette, width, height int) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gpl", ".png", ".txt", ".hex":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExport, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch ext {
	case ".gpl":
		err = WriteGPL(f, p)
	case ".png":
		err = WritePNG(f, p.Gradient(), width, height)
	default:
		err = WriteHex(f, p)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
