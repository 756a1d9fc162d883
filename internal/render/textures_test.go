//go:build !noebiten

package render

import (
	"errors"
	"image"
	"testing"

	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/texture"
)

func TestTextureManagerLifecycle(t *testing.T) {
	m := NewTextureManager()
	img, err := texture.Rasterize(gradient.New(red, blue))
	if err != nil {
		t.Fatal(err)
	}

	id, err := m.Allocate("gradient", img, texture.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	got, ok := m.Image(id)
	if !ok || got == nil {
		t.Fatal("Image() did not resolve a fresh handle")
	}
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("image bounds = %v, want 2x1", b)
	}
	if m.Name(id) != "gradient" {
		t.Errorf("Name() = %q", m.Name(id))
	}

	other, err := m.Allocate("gradient", img, texture.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if other == id {
		t.Error("handles are not unique")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	m.Free(id)
	m.Free(id)
	if _, ok := m.Image(id); ok {
		t.Error("freed handle still resolves")
	}
	if m.Len() != 1 {
		t.Errorf("Len() after Free = %d, want 1", m.Len())
	}
}

func TestTextureManagerRejectsEmpty(t *testing.T) {
	m := NewTextureManager()
	if _, err := m.Allocate("x", nil, texture.DefaultOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image error = %v", err)
	}
	if _, err := m.Allocate("x", image.NewRGBA(image.Rect(0, 0, 0, 1)), texture.DefaultOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image error = %v", err)
	}
}

func TestTextureManagerWithCache(t *testing.T) {
	m := NewTextureManager()
	cache := texture.New()
	for i := 0; i < 3; i++ {
		if _, err := cache.GetOrAllocate(m, gradient.OneColor(red)); err != nil {
			t.Fatal(err)
		}
	}
	if m.Len() != 1 {
		t.Errorf("textures = %d, want 1", m.Len())
	}
	cache.Purge(m)
	if m.Len() != 0 {
		t.Errorf("textures after Purge = %d, want 0", m.Len())
	}
}
