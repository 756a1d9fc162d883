// Package palette keeps the user's saved colors and exports them.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/gradient"
)

// DefaultName is the palette the picker's "save color" button writes to.
const DefaultName = "saved"

var (
	// ErrNotFound is returned for an unknown palette name.
	ErrNotFound = errors.New("palette not found")
	// ErrEmptyName is returned when a palette has no name.
	ErrEmptyName = errors.New("palette name must not be empty")
)

// Palette is a named, ordered list of distinct colors.
type Palette struct {
	Name   string
	Colors []color.RGBA
}

// Add appends c unless it is already present. It reports whether c was
// added.
func (p *Palette) Add(c color.RGBA) bool {
	if p.Contains(c) {
		return false
	}
	p.Colors = append(p.Colors, c)
	return true
}

// Remove deletes c. It reports whether c was present.
func (p *Palette) Remove(c color.RGBA) bool {
	i := slices.Index(p.Colors, c)
	if i < 0 {
		return false
	}
	p.Colors = slices.Delete(p.Colors, i, i+1)
	return true
}

// Contains reports whether c is in the palette.
func (p *Palette) Contains(c color.RGBA) bool {
	return slices.Contains(p.Colors, c)
}

// Len returns the number of colors.
func (p *Palette) Len() int { return len(p.Colors) }

// Gradient returns the colors as a gradient, in palette order.
func (p *Palette) Gradient() gradient.Gradient {
	return gradient.New(p.Colors...)
}

// Hex returns the colors as lowercase hex strings.
func (p *Palette) Hex() []string {
	out := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		out[i] = colors.ToHex(c)
	}
	return out
}

// Library is the set of palettes persisted together.
type Library struct {
	Palettes []*Palette
}

// Get returns the palette called name.
func (l *Library) Get(name string) (*Palette, error) {
	for _, p := range l.Palettes {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Ensure returns the palette called name, creating it if needed.
func (l *Library) Ensure(name string) (*Palette, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if p, err := l.Get(name); err == nil {
		return p, nil
	}
	p := &Palette{Name: name}
	l.Palettes = append(l.Palettes, p)
	return p, nil
}

// Delete removes the palette called name.
func (l *Library) Delete(name string) error {
	i := slices.IndexFunc(l.Palettes, func(p *Palette) bool { return p.Name == name })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	l.Palettes = slices.Delete(l.Palettes, i, i+1)
	return nil
}

// Names returns the palette names in order.
func (l *Library) Names() []string {
	names := make([]string, len(l.Palettes))
	for i, p := range l.Palettes {
		names[i] = p.Name
	}
	return names
}
