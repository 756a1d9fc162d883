// Package metrics collects process counters for devpick and publishes them
// through expvar at /debug/vars.
package metrics

import (
	"expvar"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-devpick/internal/texture"
)

// Metrics holds atomic counters updated by the GUI and the CLI.
// Thread-safe for concurrent use.
type Metrics struct {
	frames         atomic.Int64
	skippedFrames  atomic.Int64
	colorsPicked   atomic.Int64
	clipboardCopy  atomic.Int64
	configReloads  atomic.Int64
	errorsTotal    atomic.Int64
	jwtEncodes     atomic.Int64
	jwtDecodes     atomic.Int64
	jwtVerified    atomic.Int64
	jwtFailures    atomic.Int64
	swatchesDrawn  atomic.Int64
	swatchesMissed atomic.Int64

	frameLatencyNs    atomic.Int64
	frameLatencyCount atomic.Int64

	cacheMu    sync.RWMutex
	cacheStats func() texture.Stats

	registered atomic.Bool
}

// New creates a Metrics instance.
// Call RegisterExpvar to expose it.
func New() *Metrics {
	return &Metrics{}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Frames         int64
	SkippedFrames  int64
	ColorsPicked   int64
	ClipboardCopy  int64
	ConfigReloads  int64
	ErrorsTotal    int64
	JWTEncodes     int64
	JWTDecodes     int64
	JWTVerified    int64
	JWTFailures    int64
	SwatchesDrawn  int64
	SwatchesMissed int64

	FrameLatencyAvg time.Duration
	Textures        texture.Stats
}

// ObserveTextureCache makes the cache counters part of every snapshot.
func (m *Metrics) ObserveTextureCache(stats func() texture.Stats) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.cacheStats = stats
}

func (m *Metrics) textureStats() texture.Stats {
	m.cacheMu.RLock()
	defer m.cacheMu.RUnlock()
	if m.cacheStats == nil {
		return texture.Stats{}
	}
	return m.cacheStats()
}

// RegisterExpvar publishes the metrics under a "devpick" map.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	if expvar.Get("devpick") != nil {
		return
	}
	expvar.Publish("devpick", expvar.Func(func() any { return m.Snapshot().asMap() }))
}

// Handler returns the expvar HTTP handler serving /debug/vars.
func Handler() http.Handler {
	return expvar.Handler()
}

func (s Snapshot) asMap() map[string]any {
	return map[string]any{
		"frames_total":           s.Frames,
		"skipped_frames_total":   s.SkippedFrames,
		"colors_picked_total":    s.ColorsPicked,
		"clipboard_copies_total": s.ClipboardCopy,
		"config_reloads_total":   s.ConfigReloads,
		"errors_total":           s.ErrorsTotal,
		"jwt_encodes_total":      s.JWTEncodes,
		"jwt_decodes_total":      s.JWTDecodes,
		"jwt_verified_total":     s.JWTVerified,
		"jwt_failures_total":     s.JWTFailures,
		"swatches_drawn_total":   s.SwatchesDrawn,
		"swatches_not_rendered":  s.SwatchesMissed,
		"frame_latency_avg_ms":   float64(s.FrameLatencyAvg) / 1e6,
		"texture_entries":        s.Textures.Entries,
		"texture_hits_total":     s.Textures.Hits,
		"texture_misses_total":   s.Textures.Misses,
		"texture_allocations":    s.Textures.Allocations,
		"texture_alloc_failures": s.Textures.Failures,
	}
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Frames:          m.frames.Load(),
		SkippedFrames:   m.skippedFrames.Load(),
		ColorsPicked:    m.colorsPicked.Load(),
		ClipboardCopy:   m.clipboardCopy.Load(),
		ConfigReloads:   m.configReloads.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		JWTEncodes:      m.jwtEncodes.Load(),
		JWTDecodes:      m.jwtDecodes.Load(),
		JWTVerified:     m.jwtVerified.Load(),
		JWTFailures:     m.jwtFailures.Load(),
		SwatchesDrawn:   m.swatchesDrawn.Load(),
		SwatchesMissed:  m.swatchesMissed.Load(),
		FrameLatencyAvg: safeDivide(m.frameLatencyNs.Load(), m.frameLatencyCount.Load()),
		Textures:        m.textureStats(),
	}
}

// IncrementFrames records a drawn frame.
func (m *Metrics) IncrementFrames() { m.frames.Add(1) }

// IncrementSkippedFrames records a frame skipped on cache contention.
func (m *Metrics) IncrementSkippedFrames() { m.skippedFrames.Add(1) }

// IncrementColorsPicked records a color taken from the screen.
func (m *Metrics) IncrementColorsPicked() { m.colorsPicked.Add(1) }

// IncrementClipboardCopies records a clipboard write.
func (m *Metrics) IncrementClipboardCopies() { m.clipboardCopy.Add(1) }

// IncrementConfigReloads records a settings reload.
func (m *Metrics) IncrementConfigReloads() { m.configReloads.Add(1) }

// IncrementErrors records an error shown to the user.
func (m *Metrics) IncrementErrors() { m.errorsTotal.Add(1) }

// IncrementJWTEncodes records a token encode.
func (m *Metrics) IncrementJWTEncodes() { m.jwtEncodes.Add(1) }

// IncrementJWTDecodes records a token decode.
func (m *Metrics) IncrementJWTDecodes() { m.jwtDecodes.Add(1) }

// RecordVerification records the outcome of a signature check.
func (m *Metrics) RecordVerification(ok bool) {
	if ok {
		m.jwtVerified.Add(1)
	} else {
		m.jwtFailures.Add(1)
	}
}

// RecordSwatch records whether a swatch was rendered.
func (m *Metrics) RecordSwatch(rendered bool) {
	if rendered {
		m.swatchesDrawn.Add(1)
	} else {
		m.swatchesMissed.Add(1)
	}
}

// RecordFrameLatency records how long a frame took to build.
func (m *Metrics) RecordFrameLatency(d time.Duration) {
	m.frameLatencyNs.Add(d.Nanoseconds())
	m.frameLatencyCount.Add(1)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
