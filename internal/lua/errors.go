package lua

import "errors"

var (
	// ErrClosed is returned when a closed Runtime is used.
	ErrClosed = errors.New("lua runtime is closed")

	// ErrNilScript is returned when Run is given a nil Script.
	ErrNilScript = errors.New("script cannot be nil")

	// ErrCompile wraps Lua syntax errors.
	ErrCompile = errors.New("failed to compile Lua code")

	// ErrExecution wraps Lua runtime errors, including exceeded limits.
	ErrExecution = errors.New("Lua execution error")

	// ErrNotString is returned when a script does not return a string.
	ErrNotString = errors.New("script did not return a string")
)
