package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-devpick/internal/clipboard"
	"github.com/opd-ai/go-devpick/internal/colorfmt"
	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/jwt"
	"github.com/opd-ai/go-devpick/internal/logger"
	"github.com/opd-ai/go-devpick/internal/metrics"
	"github.com/opd-ai/go-devpick/internal/palette"
	"github.com/opd-ai/go-devpick/internal/picker"
	"github.com/opd-ai/go-devpick/internal/secrets"
	"github.com/opd-ai/go-devpick/internal/texture"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// Tab is a central panel page.
type Tab int

const (
	TabColorPicker Tab = iota
	TabJWT
)

// Deps are the collaborators of an App. Only Settings is required;
// everything else has a headless default.
type Deps struct {
	Settings     *config.Settings
	SettingsPath string

	// Textures allocates swatch textures. Nil runs without a GPU and
	// swatches are reported as not rendered.
	Textures  *TextureManager
	Text      TextRendererInterface
	Formatter *colorfmt.Formatter
	Clipboard clipboard.Clipboard
	Picker    *picker.Picker
	Palettes  *palette.Store
	Secrets   *secrets.Store
	Metrics   *metrics.Metrics
	Errors    *errstack.Stack
	Logger    logger.Logger
}

// App implements ebiten.Game for the devpick window.
type App struct {
	config Config
	deps   Deps

	settings  *config.Settings
	formatter *colorfmt.Formatter
	clipboard clipboard.Clipboard
	metrics   *metrics.Metrics
	errors    *errstack.Stack
	log       logger.Logger

	textures *TextureManager
	alloc    texture.Allocator
	images   ImageSource
	cache    *texture.Cache
	ui       *UI
	toasts   *errstack.Toasts
	frame    DrawList
	chars    []rune
	screen   Vec
	now      func() time.Time

	tab        Tab
	sidePanel  bool
	settingsW  settingsWindow
	library    *palette.Library
	tool       *jwt.Tool
	showSecret bool

	current        color.RGBA
	hasColor       bool
	pointerInside  bool
	sampledOutside bool
	lastSample     time.Time
	zoomTex        *ebiten.Image

	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewApp creates the application state. Errors while loading saved
// colors or secrets are shown as toasts rather than returned.
func NewApp(cfg Config, deps Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Settings == nil {
		return nil, errors.New("settings are required")
	}
	if deps.Text == nil {
		deps.Text = NewTextRenderer()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = &clipboard.Memory{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Errors == nil {
		deps.Errors = errstack.NewStack()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Formatter == nil {
		f, err := colorfmt.NewFormatter(deps.Settings.CustomFormats, deps.Settings.CacheColors)
		if err != nil {
			return nil, fmt.Errorf("create color formatter: %w", err)
		}
		deps.Formatter = f
	}

	a := &App{
		config:    cfg,
		deps:      deps,
		settings:  deps.Settings,
		formatter: deps.Formatter,
		clipboard: deps.Clipboard,
		metrics:   deps.Metrics,
		errors:    deps.Errors,
		log:       deps.Logger,
		textures:  deps.Textures,
		cache:     texture.New(),
		toasts:    errstack.NewToasts(),
		screen:    Vec{X: float64(cfg.Width), Y: float64(cfg.Height)},
		now:       time.Now,
		sidePanel: true,
		library:   &palette.Library{},
		tool:      jwt.NewTool(),
	}
	if deps.Textures != nil {
		a.alloc = deps.Textures
		a.images = deps.Textures
	}
	a.ui = NewUI(ThemeFor(a.settings.Theme), deps.Text, a.clipboard, a.errors)
	a.metrics.ObserveTextureCache(a.cache.Stats)
	a.tool.Algorithm = a.settings.JWTAlgorithm
	if deps.Picker != nil {
		deps.Picker.SetFactor(a.settings.ZoomFactor)
	}

	a.loadPalettes()
	a.loadSecrets()
	return a, nil
}

func (a *App) loadPalettes() {
	if a.deps.Palettes == nil {
		return
	}
	lib, err := a.deps.Palettes.Load()
	if err != nil {
		a.errors.Push(errstack.CategoryPalette, err)
		return
	}
	a.library = lib
}

func (a *App) loadSecrets() {
	if a.deps.Secrets == nil || !a.settings.RememberJWTSecret {
		return
	}
	if v, _, err := a.deps.Secrets.Get(secrets.HMACSecret); err != nil {
		a.errors.Push(errstack.CategoryJWT, err)
	} else {
		a.tool.Secret = v
	}
	if v, _, err := a.deps.Secrets.Get(secrets.PrivateKey); err != nil {
		a.errors.Push(errstack.CategoryJWT, err)
	} else {
		a.tool.PrivateKey = v
	}
}

// SetContext sets a context for programmatic shutdown of the game loop.
func (a *App) SetContext(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
}

// ApplySettings replaces the settings, for example after the settings
// file changed on disk.
func (a *App) ApplySettings(s *config.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = s
	a.formatter.SetScripts(s.CustomFormats)
	a.formatter.SetMemoize(s.CacheColors)
	if a.deps.Picker != nil {
		a.deps.Picker.SetFactor(s.ZoomFactor)
	}
	a.metrics.IncrementConfigReloads()
	a.log.Info("settings reloaded", "theme", s.Theme, "format", s.ColorDisplayFormat)
}

// Settings returns a copy of the current settings.
func (a *App) Settings() *config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings.Clone()
}

// Update implements ebiten.Game.Update.
func (a *App) Update() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx != nil {
		select {
		case <-a.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	in := PollInput(a.chars)
	a.chars = in.Chars
	a.step(in)
	ebiten.SetCursorShape(a.ui.CursorShape())
	return nil
}

// step runs one frame: picker refresh, error collection and a UI pass.
// The frame is skipped when the texture cache is held elsewhere.
func (a *App) step(in Input) {
	start := a.now()
	a.refreshPicker(in, start)
	a.collectErrors()

	guard, err := a.cache.TryAcquire()
	if err != nil {
		a.metrics.IncrementSkippedFrames()
		a.errors.Push(errstack.CategoryRender, fmt.Errorf("frame skipped: %w", err))
		return
	}
	defer guard.Release()

	a.ui.SetTheme(ThemeFor(a.settings.Theme))
	a.ui.Begin(a.screen, in)
	a.drawPanels(guard, start)
	a.frame = a.ui.End()

	a.metrics.IncrementFrames()
	a.metrics.RecordFrameLatency(a.now().Sub(start))
}

// collectErrors moves pending errors to the toast list.
func (a *App) collectErrors() {
	for _, e := range a.errors.Drain() {
		a.metrics.IncrementErrors()
		a.log.Warn("error", "category", e.Category.String(), "error", e.Err)
		a.toasts.Add(e)
	}
}

// reportChange pushes err unless the last error from source had the same
// message. A nil err resets source.
func (a *App) reportChange(source string, category errstack.Category, err error) {
	a.ui.Report(source, category, err)
}

// refreshPicker samples the screen while the pointer is outside the
// window. The color under the pointer when it comes back is the picked
// color.
func (a *App) refreshPicker(in Input, now time.Time) {
	p := a.deps.Picker
	if p == nil {
		return
	}
	inside := Rect{W: a.screen.X, H: a.screen.Y}.Contains(in.Cursor)
	defer func() { a.pointerInside = inside }()

	if inside {
		if !a.pointerInside && a.sampledOutside {
			a.sampledOutside = false
			a.pick()
		}
		return
	}
	if now.Sub(a.lastSample) < a.config.PickInterval {
		return
	}
	a.lastSample = now
	err := p.Update()
	if errors.Is(err, picker.ErrPaused) {
		return
	}
	a.reportChange("picker", errstack.CategoryPicker, err)
	if err != nil {
		return
	}
	if c, ok := p.Current(); ok {
		a.current = c
		a.hasColor = true
		a.sampledOutside = true
	}
	a.updateZoom(p.ZoomImage())
}

// pick records the current color as picked.
func (a *App) pick() {
	a.metrics.IncrementColorsPicked()
	a.log.Debug("color picked", "color", colors.ToHex(a.current))
	if a.settings.AutoCopyPickedColor {
		a.copyColor(a.current)
	}
}

func (a *App) updateZoom(img *image.NRGBA) {
	if img == nil || a.textures == nil {
		return
	}
	b := img.Bounds()
	if a.zoomTex == nil || a.zoomTex.Bounds().Size() != b.Size() {
		if a.zoomTex != nil {
			a.zoomTex.Deallocate()
		}
		a.zoomTex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	// screen captures are opaque, so straight and premultiplied alpha agree
	a.zoomTex.WritePixels(img.Pix)
}

// formatColor formats c, falling back to hex when a custom format fails.
func (a *App) formatColor(f colorfmt.Format, c color.RGBA) string {
	s, err := a.formatter.Format(f, c)
	a.reportChange("format:"+f.String(), errstack.CategoryConfig, err)
	if err != nil {
		return colors.ToHex(c)
	}
	return s
}

// copyColor writes c to the clipboard in the clipboard format.
func (a *App) copyColor(c color.RGBA) {
	text := a.formatColor(a.settings.ClipboardFormat(), c)
	if err := a.clipboard.WriteText(text); err != nil {
		a.errors.Push(errstack.CategoryClipboard, fmt.Errorf("failed to save color to clipboard: %w", err))
		return
	}
	a.metrics.IncrementClipboardCopies()
}

// Draw implements ebiten.Game.Draw.
func (a *App) Draw(screen *ebiten.Image) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	screen.Fill(a.ui.Theme().Background)
	a.frame.Replay(screen, a.deps.Text, a.images)
}

// Layout implements ebiten.Game.Layout. The logical screen is the
// window size divided by the UI scale.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	scale := config.ClampScale(a.settings.PixelsPerPoint)
	w := max(int(float64(outsideWidth)/scale), 1)
	h := max(int(float64(outsideHeight)/scale), 1)
	a.screen = Vec{X: float64(w), Y: float64(h)}
	return w, h
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (a *App) Run() error {
	ebiten.SetWindowSize(a.config.Width, a.config.Height)
	ebiten.SetWindowTitle(a.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(a.config.TPS)

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	err := ebiten.RunGame(a)

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Close frees every cached texture and releases the picker and the
// formatter.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.textures != nil {
		a.cache.Purge(a.textures)
	} else {
		a.cache.Purge(nil)
	}
	if a.zoomTex != nil {
		a.zoomTex.Deallocate()
		a.zoomTex = nil
	}
	var errs []error
	if a.deps.Picker != nil {
		errs = append(errs, a.deps.Picker.Close())
	}
	errs = append(errs, a.formatter.Close())
	return errors.Join(errs...)
}
