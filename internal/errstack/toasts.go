package errstack

import "time"

// Toasts is the list of errors currently on screen.
// It is owned by the frame loop and is not safe for concurrent use.
type Toasts struct {
	items    []DisplayError
	duration time.Duration
}

// NewToasts creates a list that keeps each toast for DisplayDuration.
func NewToasts() *Toasts {
	return &Toasts{duration: DisplayDuration}
}

// Add appends errors to the display list.
func (t *Toasts) Add(errs ...DisplayError) {
	t.items = append(t.items, errs...)
}

// Visible drops expired toasts and returns the rest, oldest first.
func (t *Toasts) Visible(now time.Time) []DisplayError {
	d := t.duration
	if d <= 0 {
		d = DisplayDuration
	}
	kept := t.items[:0]
	for _, e := range t.items {
		if now.Sub(e.Timestamp) < d {
			kept = append(kept, e)
		}
	}
	clear(t.items[len(kept):])
	t.items = kept
	return t.items
}

// Len returns the number of toasts, including expired ones not yet pruned.
func (t *Toasts) Len() int {
	return len(t.items)
}
