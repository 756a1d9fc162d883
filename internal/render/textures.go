package render

import (
	"errors"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-devpick/internal/texture"
)

// ErrEmptyImage is returned when a zero-size image is allocated.
var ErrEmptyImage = errors.New("cannot allocate an empty texture")

// TextureManager owns the GPU images behind texture handles.
// It implements texture.Allocator and texture.Freer.
type TextureManager struct {
	mu     sync.RWMutex
	images map[texture.ID]*ebiten.Image
	names  map[texture.ID]string
	next   texture.ID
}

// NewTextureManager creates an empty manager.
func NewTextureManager() *TextureManager {
	return &TextureManager{
		images: make(map[texture.ID]*ebiten.Image),
		names:  make(map[texture.ID]string),
	}
}

// Allocate uploads img and returns its handle. Ebiten samples with the
// filter chosen at draw time, so opts.Filter is applied by the draw call.
func (m *TextureManager) Allocate(name string, img *image.RGBA, opts texture.Options) (texture.ID, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, ErrEmptyImage
	}
	eimg := ebiten.NewImageFromImage(img)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.images[m.next] = eimg
	m.names[m.next] = name
	return m.next, nil
}

// Image returns the image for id.
func (m *TextureManager) Image(id texture.ID) (*ebiten.Image, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[id]
	return img, ok
}

// Name returns the debug name given at allocation.
func (m *TextureManager) Name(id texture.ID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names[id]
}

// Free deallocates the image for id. Unknown handles are ignored.
func (m *TextureManager) Free(id texture.ID) {
	m.mu.Lock()
	img, ok := m.images[id]
	delete(m.images, id)
	delete(m.names, id)
	m.mu.Unlock()
	if ok {
		img.Deallocate()
	}
}

// Len returns the number of live textures.
func (m *TextureManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}
