package render

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Width != 960 || config.Height != 640 {
		t.Errorf("size = %dx%d, want 960x640", config.Width, config.Height)
	}
	if config.Title != "devpick" {
		t.Errorf("Title = %q, want %q", config.Title, "devpick")
	}
	if config.PickInterval != 100*time.Millisecond {
		t.Errorf("PickInterval = %v, want 100ms", config.PickInterval)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -1 }, true},
		{"zero tps", func(c *Config) { c.TPS = 0 }, true},
		{"negative radius", func(c *Config) { c.ZoomRadius = -1 }, true},
		{"zero radius", func(c *Config) { c.ZoomRadius = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	tests := []struct {
		p    Vec
		want bool
	}{
		{Vec{10, 20}, true},
		{Vec{39.9, 59.9}, true},
		{Vec{40, 30}, false},
		{Vec{20, 60}, false},
		{Vec{9, 30}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectInsetAndMax(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 6}
	if got, want := r.Inset(2), (Rect{X: 12, Y: 12, W: 16, H: 2}); got != want {
		t.Errorf("Inset(2) = %+v, want %+v", got, want)
	}
	if got := r.Inset(5); got.W != 10 || got.H != 0 {
		t.Errorf("Inset(5) = %+v, height should clamp to 0", got)
	}
	if got := r.Max(); got != (Vec{30, 16}) {
		t.Errorf("Max() = %v", got)
	}
}
