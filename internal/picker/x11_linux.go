//go:build linux

package picker

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Reader reads the root window of the first X11 screen.
type X11Reader struct {
	mu     sync.Mutex
	conn   *xgb.Conn
	root   xproto.Window
	width  int
	height int
}

// NewScreenReader connects to the X server named by $DISPLAY.
func NewScreenReader() (ScreenReader, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("no screens found")
	}
	screen := setup.Roots[0]
	return &X11Reader{
		conn:   conn,
		root:   screen.Root,
		width:  int(screen.WidthInPixels),
		height: int(screen.HeightInPixels),
	}, nil
}

// CursorPosition queries the pointer on the root window.
func (x *X11Reader) CursorPosition() (image.Point, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	reply, err := xproto.QueryPointer(x.conn, x.root).Reply()
	if err != nil {
		return image.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return image.Pt(int(reply.RootX), int(reply.RootY)), nil
}

// Capture reads r from the root window.
func (x *X11Reader) Capture(r image.Rectangle) (*image.RGBA, error) {
	img := image.NewRGBA(r)
	visible := r.Intersect(image.Rect(0, 0, x.width, x.height))
	if visible.Empty() {
		return img, nil
	}

	x.mu.Lock()
	reply, err := xproto.GetImage(
		x.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(x.root),
		int16(visible.Min.X), int16(visible.Min.Y),
		uint16(visible.Dx()), uint16(visible.Dy()),
		0xFFFFFFFF,
	).Reply()
	x.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen region: %w", err)
	}

	if d := int(reply.Depth); d != 24 && d != 32 {
		return nil, fmt.Errorf("unsupported color depth: %d", d)
	}
	decodeBGRX(img, visible, reply.Data)
	return img, nil
}

// decodeBGRX copies 4-byte BGRX pixels for area into img.
func decodeBGRX(img *image.RGBA, area image.Rectangle, data []byte) {
	w := area.Dx()
	for py := 0; py < area.Dy(); py++ {
		for px := 0; px < w; px++ {
			idx := (py*w + px) * 4
			if idx+3 >= len(data) {
				return
			}
			img.SetRGBA(area.Min.X+px, area.Min.Y+py, color.RGBA{
				R: data[idx+2],
				G: data[idx+1],
				B: data[idx],
				A: 255,
			})
		}
	}
}

// Close closes the X connection.
func (x *X11Reader) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.conn != nil {
		x.conn.Close()
		x.conn = nil
	}
	return nil
}
