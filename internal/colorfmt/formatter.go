package colorfmt

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"slices"
	"sync"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/lua"
)

// ErrNoScript is returned for a custom format without a registered script.
var ErrNoScript = errors.New("no script for custom format")

type memoKey struct {
	format Format
	color  color.RGBA
}

// Formatter renders colors in any Format. Custom scripts are compiled on
// first use and run in a sandboxed Lua runtime with the globals
// r, g, b, a (0-255) and h (degrees), s, l (0-1).
//
// A Formatter is safe for concurrent use.
type Formatter struct {
	mu       sync.Mutex
	runtime  *lua.Runtime
	scripts  map[string]string
	compiled map[string]*lua.Script
	memo     map[memoKey]string
	memoize  bool
}

// NewFormatter creates a Formatter for the given custom scripts, keyed by
// name. Results are memoized when memoize is true.
func NewFormatter(scripts map[string]string, memoize bool) (*Formatter, error) {
	runtime, err := lua.New(lua.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create lua runtime: %w", err)
	}
	return &Formatter{
		runtime:  runtime,
		scripts:  maps.Clone(scripts),
		compiled: make(map[string]*lua.Script),
		memo:     make(map[memoKey]string),
		memoize:  memoize,
	}, nil
}

// SetScripts replaces the custom scripts and drops compiled and memoized
// state.
func (f *Formatter) SetScripts(scripts map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = maps.Clone(scripts)
	clear(f.compiled)
	clear(f.memo)
}

// SetMemoize turns result memoization on or off.
func (f *Formatter) SetMemoize(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memoize = on
	if !on {
		clear(f.memo)
	}
}

// Formats returns the built-in formats followed by the custom ones.
func (f *Formatter) Formats() []Format {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := Builtin()
	for _, name := range sortedKeys(f.scripts) {
		out = append(out, Custom(name))
	}
	return out
}

// Format renders c in format.
func (f *Formatter) Format(format Format, c color.RGBA) (string, error) {
	if s, ok := formatBuiltin(format, c); ok {
		return s, nil
	}
	if !format.IsCustom() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := memoKey{format: format, color: c}
	if s, ok := f.memo[key]; ok {
		return s, nil
	}

	script, err := f.script(format.CustomName())
	if err != nil {
		return "", err
	}
	v, err := f.runtime.Run(script, globalsFor(c))
	if err != nil {
		return "", err
	}
	s, err := lua.AsString(v)
	if err != nil {
		return "", fmt.Errorf("format %s: %w", format.CustomName(), err)
	}

	if f.memoize {
		f.memo[key] = s
	}
	return s, nil
}

// script must be called with mu held.
func (f *Formatter) script(name string) (*lua.Script, error) {
	if s, ok := f.compiled[name]; ok {
		return s, nil
	}
	code, ok := f.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoScript, name)
	}
	s, err := f.runtime.Compile(name, code)
	if err != nil {
		return nil, err
	}
	f.compiled[name] = s
	return s, nil
}

// Check compiles every script and returns the first error.
func (f *Formatter) Check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range sortedKeys(f.scripts) {
		if _, err := f.script(name); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Lua runtime.
func (f *Formatter) Close() error {
	return f.runtime.Close()
}

func globalsFor(c color.RGBA) map[string]rt.Value {
	hsl := colors.ToHSL(c)
	return map[string]rt.Value{
		"r": rt.IntValue(int64(c.R)),
		"g": rt.IntValue(int64(c.G)),
		"b": rt.IntValue(int64(c.B)),
		"a": rt.IntValue(int64(c.A)),
		"h": rt.FloatValue(hsl.H),
		"s": rt.FloatValue(hsl.S),
		"l": rt.FloatValue(hsl.L),
	}
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
