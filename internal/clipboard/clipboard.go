// Package clipboard copies picked colors and tokens to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// ErrUnavailable is returned when the system clipboard cannot be used,
// e.g. without a display server.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	WriteText(s string) error
	ReadText() (string, error)
}

// System is the OS clipboard. It initializes lazily on first use and
// remembers an initialization failure.
type System struct {
	once    sync.Once
	initErr error
}

// NewSystem returns the OS clipboard.
func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			s.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return s.initErr
}

// WriteText replaces the clipboard contents with s.
func (s *System) WriteText(text string) error {
	if err := s.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ReadText returns the clipboard text, or "" when it holds no text.
func (s *System) ReadText() (string, error) {
	if err := s.init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

// Memory is an in-process clipboard for tests and headless runs.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
}

// WriteText stores s.
func (m *Memory) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = s
	m.writes++
	return nil
}

// ReadText returns the last written text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Writes returns how many times WriteText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
