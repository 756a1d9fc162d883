// Package profiling writes CPU and heap profiles for a devpick session.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// ErrNotRunning is returned by Stop when no session is active.
var ErrNotRunning = errors.New("profiler is not running")

// Config names the profile outputs. Empty paths disable that profile.
type Config struct {
	CPUProfilePath string
	MemProfilePath string
}

// Enabled reports whether any profile is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler records one profiling session.
type Profiler struct {
	config  Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// New creates a Profiler. Call Start to begin the session.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start begins CPU profiling when a CPU path is configured.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}
	if p.config.CPUProfilePath != "" {
		f, err := os.Create(p.config.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start cpu profile: %w", err)
		}
		p.cpuFile = f
	}
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cpu profile: %w", err))
		}
		p.cpuFile = nil
	}
	if p.config.MemProfilePath != "" {
		if err := WriteHeap(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsRunning reports whether a session is active.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeap writes a heap profile to path after a GC.
func WriteHeap(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
