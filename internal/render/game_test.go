//go:build !noebiten

package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/opd-ai/go-devpick/internal/clipboard"
	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/palette"
	"github.com/opd-ai/go-devpick/internal/picker"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

// solidScreen is a ScreenReader whose every pixel has one color.
type solidScreen struct {
	color  color.RGBA
	cursor image.Point
	err    error
}

func (s *solidScreen) CursorPosition() (image.Point, error) { return s.cursor, s.err }

func (s *solidScreen) Capture(r image.Rectangle) (*image.RGBA, error) {
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, s.color)
		}
	}
	return img, nil
}

func (s *solidScreen) Close() error { return nil }

type testApp struct {
	*App
	clip  *clipboard.Memory
	clock time.Time
}

func newTestApp(t *testing.T, mutate func(*Deps)) *testApp {
	t.Helper()
	dir := t.TempDir()
	clip := &clipboard.Memory{}
	deps := Deps{
		Settings:     config.DefaultSettings(),
		SettingsPath: filepath.Join(dir, "settings.yaml"),
		Text:         newMockTextRenderer(),
		Clipboard:    clip,
		Palettes:     palette.NewStore(filepath.Join(dir, "palettes.yaml")),
	}
	if mutate != nil {
		mutate(&deps)
	}
	app, err := NewApp(DefaultConfig(), deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { app.Close() })

	ta := &testApp{App: app, clip: clip, clock: time.Unix(1_000_000, 0)}
	app.now = func() time.Time { return ta.clock }
	return ta
}

// tick advances the clock by one pick interval and runs a step.
func (ta *testApp) tick(in Input) {
	ta.clock = ta.clock.Add(ta.config.PickInterval)
	ta.step(in)
}

// findText returns the position of the first text command equal to s.
func findText(list DrawList, s string) (Vec, bool) {
	for _, c := range list {
		if c.kind == cmdText && c.text == s {
			return Vec{c.rect.X + 1, c.rect.Y + 1}, true
		}
	}
	return Vec{}, false
}

func clickText(t *testing.T, ta *testApp, label string) {
	t.Helper()
	p, ok := findText(ta.App.frame, label)
	if !ok {
		t.Fatalf("%q not on screen", label)
	}
	ta.tick(click(p.X, p.Y))
}

func TestNewAppValidation(t *testing.T) {
	if _, err := NewApp(Config{}, Deps{Settings: config.DefaultSettings()}); err == nil {
		t.Error("NewApp accepted an invalid config")
	}
	if _, err := NewApp(DefaultConfig(), Deps{Text: newMockTextRenderer()}); err == nil {
		t.Error("NewApp accepted nil settings")
	}
}

func TestStepRecordsFrame(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.tick(Input{})

	if len(ta.App.frame) == 0 {
		t.Fatal("no draw commands recorded")
	}
	s := ta.metrics.Snapshot()
	if s.Frames != 1 || s.SkippedFrames != 0 {
		t.Errorf("frames = %d, skipped = %d", s.Frames, s.SkippedFrames)
	}
	// headless: the current color swatch is counted as not rendered
	if s.SwatchesMissed == 0 {
		t.Error("missed swatches not recorded")
	}
}

func TestStepSkipsWhenCacheBusy(t *testing.T) {
	ta := newTestApp(t, nil)
	guard, err := ta.cache.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	ta.tick(Input{})
	guard.Release()

	if ta.App.frame != nil {
		t.Error("busy frame recorded draw commands")
	}
	if s := ta.metrics.Snapshot(); s.SkippedFrames != 1 || s.Frames != 0 {
		t.Errorf("snapshot = %+v", s)
	}

	ta.tick(Input{})
	if ta.toasts.Len() != 1 {
		t.Fatalf("toasts = %d, want 1", ta.toasts.Len())
	}
	if _, ok := findText(ta.App.frame, "Error"); !ok {
		t.Error("error toast not drawn")
	}
}

func TestPickOnReturn(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	ta := newTestApp(t, func(d *Deps) {
		d.Picker = picker.New(&solidScreen{color: red, cursor: image.Pt(50, 50)}, 2, 4)
		d.Settings.AutoCopyPickedColor = true
	})

	ta.tick(Input{Cursor: Vec{-5, -5}})
	if !ta.hasColor || ta.current != red {
		t.Fatalf("current = %v (has=%v), want red", ta.current, ta.hasColor)
	}
	if ta.metrics.Snapshot().ColorsPicked != 0 {
		t.Error("picked while the pointer was outside")
	}

	ta.tick(Input{Cursor: Vec{100, 100}})
	if got := ta.metrics.Snapshot().ColorsPicked; got != 1 {
		t.Errorf("colors picked = %d, want 1", got)
	}
	if got, _ := ta.clip.ReadText(); got != "#ff0000" {
		t.Errorf("clipboard = %q, want #ff0000", got)
	}

	ta.tick(Input{Cursor: Vec{120, 100}})
	if got := ta.metrics.Snapshot().ColorsPicked; got != 1 {
		t.Errorf("colors picked after staying inside = %d, want 1", got)
	}
}

func TestPickerErrorsReportedOnce(t *testing.T) {
	screen := &solidScreen{err: errors.New("no display")}
	ta := newTestApp(t, func(d *Deps) {
		d.Picker = picker.New(screen, 1, 1)
	})
	for i := 0; i < 8; i++ {
		ta.tick(Input{Cursor: Vec{-1, -1}})
	}
	if got := ta.errors.Count(errstack.CategoryPicker); got != 1 {
		t.Errorf("picker errors = %d, want 1", got)
	}
	if got := ta.deps.Picker.BreakerState(); got != picker.BreakerOpen {
		t.Errorf("breaker = %v, want open", got)
	}
}

func TestTopBarTabs(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.tick(Input{})
	if ta.tab != TabColorPicker {
		t.Fatalf("default tab = %v", ta.tab)
	}
	clickText(t, ta, "JWT")
	if ta.tab != TabJWT {
		t.Errorf("tab = %v, want JWT", ta.tab)
	}
	ta.tick(Input{})
	if _, ok := findText(ta.App.frame, "JWT Encoder/Decoder"); !ok {
		t.Error("JWT panel not drawn")
	}

	clickText(t, ta, "Saved colors")
	if ta.sidePanel {
		t.Error("side panel still shown")
	}

	clickText(t, ta, "Light mode")
	if ta.settings.Theme != config.ThemeLight {
		t.Errorf("theme = %q, want light", ta.settings.Theme)
	}
	ta.tick(Input{})
	if ta.ui.Theme().Dark {
		t.Error("light theme not applied")
	}
}

func TestSavedColors(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	ta := newTestApp(t, nil)
	ta.current, ta.hasColor = red, true

	ta.tick(Input{})
	clickText(t, ta, "Add")
	p, err := ta.library.Get(palette.DefaultName)
	if err != nil || !p.Contains(red) {
		t.Fatalf("red not saved: %v", err)
	}
	stored, err := ta.deps.Palettes.Load()
	if err != nil {
		t.Fatal(err)
	}
	if sp, err := stored.Get(palette.DefaultName); err != nil || sp.Len() != 1 {
		t.Errorf("saved palette not persisted: %v", err)
	}

	ta.tick(Input{})
	var swatch Rect
	for _, c := range ta.App.frame {
		if c.kind == cmdStroke && c.rect.W == savedSwatchSize && c.rect.H == savedSwatchSize {
			swatch = c.rect
		}
	}
	if swatch.W == 0 {
		t.Fatal("saved color swatch not drawn")
	}
	center := Vec{swatch.X + swatch.W/2, swatch.Y + swatch.H/2}

	ta.current = color.RGBA{}
	ta.tick(click(center.X, center.Y))
	if ta.current != red {
		t.Errorf("click did not select the saved color")
	}
	if got, _ := ta.clip.ReadText(); got != "#ff0000" {
		t.Errorf("clipboard = %q", got)
	}

	ta.tick(Input{Cursor: center, SecondaryPressed: true})
	p, _ = ta.library.Get(palette.DefaultName)
	if p != nil && p.Contains(red) {
		t.Error("secondary click did not remove the color")
	}
}

func TestJWTEncodeRemembersSecret(t *testing.T) {
	keyring.MockInit()
	store := secrets.NewStore(false)
	ta := newTestApp(t, func(d *Deps) {
		d.Secrets = store
		d.Settings.RememberJWTSecret = true
	})
	ta.tool.Decoded = `{"sub":"1234567890"}`
	ta.tool.Secret = "your-256-bit-secret"

	ta.encodeToken()
	if ta.tool.Encoded == "" {
		t.Fatal("no token encoded")
	}
	s := ta.metrics.Snapshot()
	if s.JWTEncodes != 1 || s.JWTVerified != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	v, src, err := store.Get(secrets.HMACSecret)
	if err != nil || v != "your-256-bit-secret" || src != secrets.SourceKeychain {
		t.Errorf("stored secret = %q from %q, err %v", v, src, err)
	}

	ta.tool.Secret = "wrong"
	ta.verifyToken()
	if ta.tool.Verified == nil || *ta.tool.Verified {
		t.Error("wrong secret verified")
	}
	if s := ta.metrics.Snapshot(); s.JWTFailures != 1 {
		t.Errorf("failures = %d, want 1", s.JWTFailures)
	}

	ta.tool.Decoded = "not json"
	ta.encodeToken()
	if ta.errors.Count(errstack.CategoryJWT) != 1 {
		t.Error("encode error not reported")
	}
}

func TestSecretsLoadedOnStart(t *testing.T) {
	keyring.MockInit()
	store := secrets.NewStore(false)
	if err := store.Set(secrets.HMACSecret, "stored"); err != nil {
		t.Fatal(err)
	}
	ta := newTestApp(t, func(d *Deps) {
		d.Secrets = store
		d.Settings.RememberJWTSecret = true
	})
	if ta.tool.Secret != "stored" {
		t.Errorf("secret = %q, want stored", ta.tool.Secret)
	}
}

func TestSettingsWindowSave(t *testing.T) {
	ta := newTestApp(t, nil)
	clickText(t, ta, "Settings")
	if !ta.settingsW.open {
		t.Fatal("settings window not opened")
	}
	ta.tick(Input{})
	clickText(t, ta, "Save settings")
	if ta.settingsW.err != "" {
		t.Fatalf("save error: %s", ta.settingsW.err)
	}
	if _, err := os.Stat(ta.deps.SettingsPath); err != nil {
		t.Errorf("settings file not written: %v", err)
	}
	loaded, err := config.Load(ta.deps.SettingsPath)
	if err != nil || loaded.ColorDisplayFormat != ta.settings.ColorDisplayFormat {
		t.Errorf("reload = %+v, %v", loaded, err)
	}

	ta.tick(Input{Escape: true})
	if ta.settingsW.open {
		t.Error("escape did not close the settings window")
	}
}

func TestApplySettings(t *testing.T) {
	ta := newTestApp(t, nil)
	s := config.DefaultSettings()
	s.Theme = config.ThemeLight
	ta.ApplySettings(s)

	if ta.Settings().Theme != config.ThemeLight {
		t.Error("settings not replaced")
	}
	if ta.metrics.Snapshot().ConfigReloads != 1 {
		t.Error("reload not counted")
	}
}

func TestLayoutScale(t *testing.T) {
	ta := newTestApp(t, func(d *Deps) { d.Settings.PixelsPerPoint = 2 })
	w, h := ta.Layout(800, 600)
	if w != 400 || h != 300 {
		t.Errorf("Layout() = %d, %d; want 400, 300", w, h)
	}
}

func TestUpdateTerminatesOnCancel(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	ta.SetContext(ctx)
	cancel()
	if err := ta.Update(); !errors.Is(err, ErrGameTerminated) {
		t.Errorf("Update() error = %v, want ErrGameTerminated", err)
	}
	if ta.IsRunning() {
		t.Error("IsRunning() true before Run")
	}
}
