// Package picker reads screen pixels around the mouse pointer.
package picker

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ErrUnsupported is returned on platforms without a screen reader.
var ErrUnsupported = errors.New("screen color picking is not supported on this platform")

// ScreenReader gives access to the pointer position and screen pixels.
type ScreenReader interface {
	// CursorPosition returns the pointer position in screen coordinates.
	CursorPosition() (image.Point, error)
	// Capture copies the screen pixels inside r. Parts of r outside the
	// screen are left transparent.
	Capture(r image.Rectangle) (*image.RGBA, error)
	Close() error
}

// ColorAt returns the color of the pixel under the pointer.
func ColorAt(reader ScreenReader) (color.RGBA, error) {
	pos, err := reader.CursorPosition()
	if err != nil {
		return color.RGBA{}, err
	}
	img, err := reader.Capture(image.Rect(pos.X, pos.Y, pos.X+1, pos.Y+1))
	if err != nil {
		return color.RGBA{}, err
	}
	return img.RGBAAt(pos.X, pos.Y), nil
}

// Zoom magnifies img by factor without smoothing, so every screen pixel
// becomes a factor-by-factor block.
func Zoom(img image.Image, factor int) *image.NRGBA {
	if factor < 1 {
		factor = 1
	}
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.NearestNeighbor)
}

// Picker tracks the color under the pointer and a magnified view of the
// pixels around it.
type Picker struct {
	reader  ScreenReader
	radius  int
	factor  int
	breaker *breaker

	mu      sync.RWMutex
	current color.RGBA
	cursor  image.Point
	zoom    *image.NRGBA
	valid   bool
}

// New creates a Picker sampling a (2*radius+1) square around the pointer,
// magnified by factor.
func New(reader ScreenReader, radius, factor int) *Picker {
	return &Picker{
		reader:  reader,
		radius:  max(radius, 0),
		factor:  max(factor, 1),
		breaker: newBreaker(defaultFailureThreshold, defaultCooldown),
	}
}

// SetBackoff changes how many consecutive failures pause sampling and for
// how long.
func (p *Picker) SetBackoff(failures int, cooldown time.Duration) {
	p.breaker = newBreaker(failures, cooldown)
}

// BreakerState reports whether sampling is paused.
func (p *Picker) BreakerState() BreakerState {
	return p.breaker.State()
}

// SetFactor changes the zoom magnification.
func (p *Picker) SetFactor(factor int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factor = max(factor, 1)
}

// Update samples the screen. On error the previous state is kept. After
// repeated failures Update returns ErrPaused without touching the screen
// until the cooldown has passed.
func (p *Picker) Update() error {
	if p.reader == nil {
		return ErrUnsupported
	}
	if !p.breaker.allow() {
		return ErrPaused
	}
	err := p.sample()
	p.breaker.record(err)
	return err
}

func (p *Picker) sample() error {
	pos, err := p.reader.CursorPosition()
	if err != nil {
		return fmt.Errorf("read pointer: %w", err)
	}
	area := image.Rect(pos.X-p.radius, pos.Y-p.radius, pos.X+p.radius+1, pos.Y+p.radius+1)
	img, err := p.reader.Capture(area)
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = pos
	p.current = img.RGBAAt(pos.X, pos.Y)
	p.zoom = Zoom(img, p.factor)
	p.valid = true
	return nil
}

// Current returns the last sampled color and whether any sample exists.
func (p *Picker) Current() (color.RGBA, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.valid
}

// Cursor returns the pointer position of the last sample.
func (p *Picker) Cursor() image.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

// ZoomImage returns the last magnified capture, or nil.
func (p *Picker) ZoomImage() *image.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.zoom
}

// Close releases the screen reader.
func (p *Picker) Close() error {
	if p.reader == nil {
		return nil
	}
	return p.reader.Close()
}
