//go:build !linux

package picker

// NewScreenReader is only implemented for X11.
func NewScreenReader() (ScreenReader, error) {
	return nil, ErrUnsupported
}
