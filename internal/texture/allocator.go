// Package texture memoizes GPU texture handles for color gradients.
//
// The Cache maps a gradient.Gradient to the ID returned by an Allocator the
// first time that gradient is drawn. Entries are never evicted; the cache
// lives as long as the application context that owns it.
package texture

import (
	"errors"
	"image"

	"github.com/opd-ai/go-devpick/internal/gradient"
)

// ErrEmptyGradient is returned when a zero-stop gradient is rasterized.
var ErrEmptyGradient = errors.New("cannot rasterize an empty gradient")

// ID is an opaque texture handle owned by an Allocator.
type ID uint64

// Filter selects how a texture is sampled when stretched.
type Filter int

const (
	// FilterLinear interpolates between neighbouring texels.
	FilterLinear Filter = iota
	// FilterNearest picks the closest texel.
	FilterNearest
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterLinear:
		return "linear"
	case FilterNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// Options are the sampling options passed to an Allocator.
type Options struct {
	Filter Filter
}

// DefaultOptions returns linear sampling, which produces the gradient
// blend between stops.
func DefaultOptions() Options {
	return Options{Filter: FilterLinear}
}

// Allocator uploads image data to the GPU and returns a handle for it.
type Allocator interface {
	Allocate(name string, img *image.RGBA, opts Options) (ID, error)
}

// Freer releases a texture handle. Allocators implement it optionally.
type Freer interface {
	Free(id ID)
}

// Rasterize turns a gradient into a stops-by-1 image, one texel per stop.
func Rasterize(g gradient.Gradient) (*image.RGBA, error) {
	n := g.Len()
	if n == 0 {
		return nil, ErrEmptyGradient
	}
	img := image.NewRGBA(image.Rect(0, 0, n, 1))
	for i, c := range g.PixelRow() {
		img.SetRGBA(i, 0, c)
	}
	return img, nil
}
