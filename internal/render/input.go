package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyRepeatDelay and keyRepeatInterval are in ticks.
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 3
)

// repeating reports whether key fires this tick, with auto-repeat
// while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

func modifierDown() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

// PollInput reads the Ebiten input state for the current tick. chars is
// reused to collect typed runes.
func PollInput(chars []rune) Input {
	x, y := ebiten.CursorPosition()
	mod := modifierDown()
	in := Input{
		Cursor:           Vec{X: float64(x), Y: float64(y)},
		Pressed:          inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Down:             ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		SecondaryPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		Backspace:        repeating(ebiten.KeyBackspace),
		Enter:            repeating(ebiten.KeyEnter) || repeating(ebiten.KeyNumpadEnter),
		Escape:           inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Paste:            mod && inpututil.IsKeyJustPressed(ebiten.KeyV),
		Copy:             mod && inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
	if !mod {
		in.Chars = ebiten.AppendInputChars(chars[:0])
	}
	return in
}
