// Package errstack collects errors raised outside the frame loop and hands
// them to the GUI, which shows each one as a toast for a fixed time.
package errstack

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DisplayDuration is how long a toast stays on screen.
const DisplayDuration = 10 * time.Second

// maxPending bounds the stack when nothing drains it, e.g. in the CLI.
const maxPending = 256

// Category classifies an error for logging and metrics.
type Category int

const (
	// CategoryUnknown is the default category for uncategorized errors.
	CategoryUnknown Category = iota
	// CategoryRender is for drawing and frame loop errors.
	CategoryRender
	// CategoryTexture is for texture cache and allocation errors.
	CategoryTexture
	// CategoryJWT is for token encode, decode and verify errors.
	CategoryJWT
	// CategoryClipboard is for clipboard access errors.
	CategoryClipboard
	// CategoryConfig is for settings load, validation and save errors.
	CategoryConfig
	// CategoryPicker is for screen capture errors.
	CategoryPicker
	// CategoryPalette is for saved color errors.
	CategoryPalette
	// CategoryIO is for other file and I/O errors.
	CategoryIO

	numCategories
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryRender:
		return "render"
	case CategoryTexture:
		return "texture"
	case CategoryJWT:
		return "jwt"
	case CategoryClipboard:
		return "clipboard"
	case CategoryConfig:
		return "config"
	case CategoryPicker:
		return "picker"
	case CategoryPalette:
		return "palette"
	case CategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// DisplayError is an error waiting to be, or being, shown to the user.
type DisplayError struct {
	Err       error
	Category  Category
	Timestamp time.Time
}

// Error implements the error interface.
func (e *DisplayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] (no error)", e.Category)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Err.Error())
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DisplayError) Unwrap() error {
	return e.Err
}

// Message is the text shown in the toast.
func (e *DisplayError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Stack is a FIFO of errors pushed from any goroutine.
// The zero value is ready to use.
type Stack struct {
	mu      sync.Mutex
	pending []DisplayError
	now     func() time.Time

	dropped atomic.Int64
	counts  [numCategories]atomic.Int64
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) timeNow() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Push records err under category. A nil err is ignored.
// When the stack is full the oldest entry is dropped.
func (s *Stack) Push(category Category, err error) {
	if err == nil {
		return
	}
	if category < 0 || category >= numCategories {
		category = CategoryUnknown
	}
	s.counts[category].Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) >= maxPending {
		s.pending = s.pending[1:]
		s.dropped.Add(1)
	}
	s.pending = append(s.pending, DisplayError{
		Err:       err,
		Category:  category,
		Timestamp: s.timeNow(),
	})
}

// Pushf is Push with a formatted error.
func (s *Stack) Pushf(category Category, format string, args ...any) {
	s.Push(category, fmt.Errorf(format, args...))
}

// Drain removes and returns all pending errors, oldest first.
// It never blocks: if another goroutine holds the stack it returns nil and
// the errors are picked up on a later call.
func (s *Stack) Drain() []DisplayError {
	if !s.mu.TryLock() {
		return nil
	}
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	out := s.pending
	s.pending = nil
	return out
}

// Len returns the number of pending errors.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Count returns how many errors were ever pushed under category.
func (s *Stack) Count(category Category) int64 {
	if category < 0 || category >= numCategories {
		return 0
	}
	return s.counts[category].Load()
}

// Dropped returns how many errors were discarded because the stack was full.
func (s *Stack) Dropped() int64 {
	return s.dropped.Load()
}
