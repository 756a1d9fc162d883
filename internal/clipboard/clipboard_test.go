package clipboard

import (
	"errors"
	"testing"
)

var (
	_ Clipboard = (*System)(nil)
	_ Clipboard = (*Memory)(nil)
)

func TestMemory(t *testing.T) {
	var m Memory
	if got, _ := m.ReadText(); got != "" {
		t.Errorf("empty clipboard = %q", got)
	}
	if err := m.WriteText("#ff0000"); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteText("#00ff00"); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.ReadText(); got != "#00ff00" {
		t.Errorf("ReadText() = %q", got)
	}
	if m.Writes() != 2 {
		t.Errorf("Writes() = %d", m.Writes())
	}
}

func TestSystemInitErrorIsSticky(t *testing.T) {
	s := NewSystem()
	boom := errors.New("no display")
	s.once.Do(func() { s.initErr = boom })

	if err := s.WriteText("x"); !errors.Is(err, boom) {
		t.Errorf("WriteText() = %v", err)
	}
	if _, err := s.ReadText(); !errors.Is(err, boom) {
		t.Errorf("ReadText() = %v", err)
	}
}
