// Package render draws the devpick window with Ebiten.
//
// Each tick the App runs an immediate-mode pass over its panels. Widgets
// read the Input captured for that tick and append to a draw list, which
// Draw replays onto the screen. Nothing in a pass touches the GPU except
// texture allocation, so panels can be exercised without a window.
package render

import (
	"fmt"
	"time"
)

// Config holds the window options.
type Config struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// TPS is the number of Update calls per second.
	TPS int
	// PickInterval is the time between screen samples while the pointer is
	// outside the window.
	PickInterval time.Duration
	// ZoomRadius is the half-size in pixels of the captured zoom area.
	ZoomRadius int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:        960,
		Height:       640,
		Title:        "devpick",
		TPS:          60,
		PickInterval: 100 * time.Millisecond,
		ZoomRadius:   7,
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	if c.ZoomRadius < 0 {
		return fmt.Errorf("zoom radius must not be negative, got %d", c.ZoomRadius)
	}
	return nil
}

// Vec is a point or size in logical pixels.
type Vec struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: max(r.W-2*d, 0), H: max(r.H-2*d, 0)}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vec {
	return Vec{X: r.X + r.W, Y: r.Y + r.H}
}

// Response is the interaction result of a widget for the current frame.
type Response struct {
	Rect           Rect
	Hovered        bool
	Clicked        bool
	SecondaryClick bool
	Changed        bool
}
