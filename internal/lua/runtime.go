// Package lua embeds a sandboxed Golua runtime for user-defined scripts.
// Scripts run with CPU and memory hard limits and without the io and os
// libraries.
package lua

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit for a single call.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes a single call can allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout receives Lua print output. If nil, output is only captured.
	Stdout io.Writer
}

// DefaultConfig returns limits suited to short formatting scripts.
// CPU limit: 1,000,000 instructions
// Memory limit: 8 MB
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    1_000_000,
		MemoryLimit: 8 * 1024 * 1024,
	}
}

// sandboxedGlobals are removed from the global table after the standard
// libraries load.
var sandboxedGlobals = []string{"io", "os", "dofile", "loadfile", "require", "package"}

// Runtime wraps a Golua runtime. All methods are safe for concurrent use;
// calls are serialized.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.Mutex
}

// Script is a compiled chunk bound to the Runtime that compiled it.
type Script struct {
	name    string
	closure *rt.Closure
}

// Name returns the chunk name given at compile time.
func (s *Script) Name() string { return s.name }

// New creates a Runtime with the standard libraries minus the sandboxed ones.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	var stdout io.Writer = output
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	env := runtime.GlobalEnv()
	for _, name := range sandboxedGlobals {
		env.Set(rt.StringValue(name), rt.NilValue)
	}

	return &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}, nil
}

// Compile parses code into a reusable Script.
func (r *Runtime) Compile(name, code string) (*Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runtime == nil {
		return nil, ErrClosed
	}
	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		[]byte(code),
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, name, err)
	}
	return &Script{name: name, closure: closure}, nil
}

// Run sets globals and executes s within the configured limits.
// Globals persist after the call.
func (r *Runtime) Run(s *Script, globals map[string]rt.Value) (rt.Value, error) {
	if s == nil {
		return rt.NilValue, ErrNilScript
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runtime == nil {
		return rt.NilValue, ErrClosed
	}
	env := r.runtime.GlobalEnv()
	for k, v := range globals {
		env.Set(rt.StringValue(k), v)
	}

	// Exceeding a hard limit panics inside golua; CallContext turns that
	// into a ContextTerminationError.
	var result rt.Value
	_, err := r.runtime.MainThread().CallContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	}, func() error {
		var callErr error
		result, callErr = rt.Call1(r.runtime.MainThread(), rt.FunctionValue(s.closure))
		return callErr
	})
	if err != nil {
		return rt.NilValue, fmt.Errorf("%w: %s: %v", ErrExecution, s.name, err)
	}
	return result, nil
}

// RunString compiles and runs code in one step.
func (r *Runtime) RunString(name, code string, globals map[string]rt.Value) (rt.Value, error) {
	s, err := r.Compile(name, code)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Run(s, globals)
}

// Global returns a global variable.
func (r *Runtime) Global(name string) rt.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runtime == nil {
		return rt.NilValue
	}
	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// Output returns everything scripts have printed so far.
func (r *Runtime) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// Close releases the runtime. Further calls return ErrClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	r.runtime = nil
	return nil
}

// AsString converts a script result to a Go string.
// Numbers are accepted and formatted the Lua way.
func AsString(v rt.Value) (string, error) {
	if v.IsNil() {
		return "", ErrNotString
	}
	s, ok := v.TryString()
	if !ok {
		return "", ErrNotString
	}
	return s, nil
}
