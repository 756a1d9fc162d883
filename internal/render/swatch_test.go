//go:build !noebiten

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/texture"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// countingAllocator hands out sequential handles without touching the GPU.
type countingAllocator struct {
	calls int
	err   error
}

func (c *countingAllocator) Allocate(name string, img *image.RGBA, opts texture.Options) (texture.ID, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return texture.ID(c.calls), nil
}

func TestSwatchUV(t *testing.T) {
	tests := []struct {
		n    int
		want Rect
	}{
		{1, Rect{X: 0.5, W: 0, H: 1}},
		{2, Rect{X: 0.25, W: 0.5, H: 1}},
		{4, Rect{X: 0.125, W: 0.75, H: 1}},
		{0, Rect{W: 1, H: 1}},
	}
	for _, tt := range tests {
		if got := SwatchUV(tt.n); got != tt.want {
			t.Errorf("SwatchUV(%d) = %+v, want %+v", tt.n, got, tt.want)
		}
	}
}

func TestRenderColorSolidSwatch(t *testing.T) {
	ui, _, _ := newTestUI()
	alloc := &countingAllocator{}
	cache := texture.New()

	for frame := 0; frame < 2; frame++ {
		guard, err := cache.TryAcquire()
		if err != nil {
			t.Fatal(err)
		}
		ui.Begin(Vec{800, 600}, Input{Cursor: Vec{10, 10}})
		resp, ok := RenderColor(ui, alloc, guard, red, Vec{40, 40}, "#ff0000", true)
		list := ui.End()
		guard.Release()

		if !ok {
			t.Fatalf("frame %d: swatch not rendered", frame)
		}
		if !resp.Hovered || resp.Rect.W != 40 || resp.Rect.H != 40 {
			t.Errorf("frame %d: resp = %+v", frame, resp)
		}
		if countKind(list, cmdTexture) != 1 || countKind(list, cmdStroke) < 1 {
			t.Errorf("frame %d: commands = %+v", frame, list)
		}
		for _, c := range list {
			if c.kind == cmdTexture && c.uv != SwatchUV(1) {
				t.Errorf("uv = %+v", c.uv)
			}
		}
		if ui.CursorShape() != ebiten.CursorShapePointer {
			t.Errorf("cursor = %v, want pointer", ui.CursorShape())
		}
	}
	if alloc.calls != 1 {
		t.Errorf("allocator calls = %d, want 1", alloc.calls)
	}
}

func TestRenderGradientNotRendered(t *testing.T) {
	cache := texture.New()
	guard, err := cache.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	defer guard.Release()

	t.Run("headless", func(t *testing.T) {
		ui, _, _ := newTestUI()
		ui.Begin(Vec{800, 600}, Input{})
		if _, ok := RenderGradient(ui, nil, guard, gradient.New(red, blue), Vec{100, 10}, "", false); ok {
			t.Error("rendered without an allocator")
		}
		if list := ui.End(); len(list) != 0 {
			t.Errorf("headless swatch recorded %d commands", len(list))
		}
	})

	t.Run("no guard", func(t *testing.T) {
		ui, _, _ := newTestUI()
		ui.Begin(Vec{800, 600}, Input{})
		if _, ok := RenderGradient(ui, &countingAllocator{}, nil, gradient.New(red), Vec{10, 10}, "", false); ok {
			t.Error("rendered without a guard")
		}
		ui.End()
	})

	t.Run("allocation failure", func(t *testing.T) {
		ui, _, errs := newTestUI()
		alloc := &countingAllocator{err: errors.New("device lost")}
		ui.Begin(Vec{800, 600}, Input{})
		if _, ok := RenderGradient(ui, alloc, guard, gradient.New(blue), Vec{10, 10}, "", false); ok {
			t.Error("rendered after allocation failure")
		}
		ui.End()
		if errs.Len() != 1 {
			t.Errorf("pushed errors = %d, want 1", errs.Len())
		}
	})
}

func TestAllocationFailureReportedOnce(t *testing.T) {
	ui, _, errs := newTestUI()
	cache := texture.New()
	alloc := &countingAllocator{err: errors.New("device lost")}
	failing := gradient.New(red, blue)
	other := gradient.New(blue, red)

	frame := func(g gradient.Gradient) bool {
		guard, err := cache.TryAcquire()
		if err != nil {
			t.Fatal(err)
		}
		defer guard.Release()
		ui.Begin(Vec{800, 600}, Input{})
		_, ok := RenderGradient(ui, alloc, guard, g, Vec{10, 10}, "", false)
		ui.End()
		return ok
	}

	for i := 0; i < 30; i++ {
		frame(failing)
	}
	if errs.Len() != 1 {
		t.Fatalf("errors after 30 failing frames = %d, want 1", errs.Len())
	}
	if alloc.calls != 30 {
		t.Errorf("allocator calls = %d, want a retry every frame", alloc.calls)
	}

	frame(other)
	if errs.Len() != 2 {
		t.Errorf("a second failing gradient should be reported, errors = %d", errs.Len())
	}

	alloc.err = nil
	if !frame(failing) {
		t.Fatal("swatch not rendered after the allocator recovered")
	}
	if _, ok := ui.reported[textureSource(failing)]; ok {
		t.Error("recovered gradient is still marked as reported")
	}
	if _, ok := ui.reported[textureSource(other)]; !ok {
		t.Error("still failing gradient lost its report")
	}
}

func TestRenderGradientTooltipAndClick(t *testing.T) {
	ui, _, _ := newTestUI()
	cache := texture.New()
	guard, _ := cache.TryAcquire()
	defer guard.Release()

	ui.Begin(Vec{800, 600}, click(50, 5))
	resp, ok := RenderGradient(ui, &countingAllocator{}, guard, gradient.New(red, blue), Vec{100, 10}, "Shades", false)
	list := ui.End()
	if !ok || !resp.Clicked {
		t.Fatalf("ok=%v resp=%+v", ok, resp)
	}
	if countKind(list, cmdStroke) != 1 {
		// only the tooltip outline, no swatch border
		t.Errorf("stroke commands = %d, want 1", countKind(list, cmdStroke))
	}
	if last := list[len(list)-1]; last.text != "Shades" {
		t.Errorf("tooltip text = %q", last.text)
	}
}

func TestStopAt(t *testing.T) {
	g := gradient.New(red, blue)
	r := Rect{X: 100, W: 100, H: 10}
	tests := []struct {
		x    float64
		want color.RGBA
	}{
		{100, red},
		{149, red},
		{150, blue},
		{250, blue},
		{0, red},
	}
	for _, tt := range tests {
		got, ok := StopAt(g, r, tt.x)
		if !ok || got != tt.want {
			t.Errorf("StopAt(x=%v) = %v, %v; want %v", tt.x, got, ok, tt.want)
		}
	}
	if _, ok := StopAt(gradient.New(), r, 120); ok {
		t.Error("StopAt on empty gradient returned ok")
	}
}
