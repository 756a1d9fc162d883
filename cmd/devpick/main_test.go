package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/jwt"
	"github.com/opd-ai/go-devpick/internal/palette"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

// execute runs the root command with args and stdin, returning what it
// wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// configFlag points --config at a fresh directory.
func configFlag(t *testing.T) string {
	t.Helper()
	return "--config=" + filepath.Join(t.TempDir(), "settings.yaml")
}

// mockSecrets isolates the keychain and the environment fallback.
func mockSecrets(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	t.Setenv(secrets.EnvVar(secrets.HMACSecret), "")
	t.Setenv(secrets.EnvVar(secrets.PrivateKey), "")
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	for _, args := range [][]string{{"version"}, {"--version"}} {
		out, _, err := execute(t, "", args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if !strings.Contains(out, "devpick version "+Version) {
			t.Errorf("%v printed %q", args, out)
		}
	}
}

func TestRootFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"--log-level=loud", configFlag(t)}},
		{"bad log format", []string{"--log-format=xml", configFlag(t)}},
		{"unexpected argument", []string{"pick"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGUIRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("pixels_per_point: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := execute(t, "", "gui", "--config="+path)
	if !errors.Is(err, config.ErrInvalidSettings) {
		t.Errorf("error = %v, want ErrInvalidSettings", err)
	}
}

func TestColorShow(t *testing.T) {
	cfg := configFlag(t)
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default format", []string{"color", "show", "red", cfg}, []string{"#ff0000"}},
		{"css rgb", []string{"color", "show", "#00f", "--format=css-rgb", cfg}, []string{"rgb(0, 0, 255)"}},
		{"all formats", []string{"color", "show", "white", "--all", cfg}, []string{"#ffffff", "#FFFFFF", "rgb(255, 255, 255)", "hsl("}},
		{"several colors", []string{"color", "show", "red", "lime", cfg}, []string{"#ff0000", "#00ff00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}

	if _, _, err := execute(t, "", "color", "show", "notacolor", cfg); err == nil {
		t.Error("invalid color accepted")
	}
	if _, _, err := execute(t, "", "color", "show", "red", "--format=cmyk", cfg); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestColorRamp(t *testing.T) {
	out, _, err := execute(t, "", "color", "ramp", "red")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"Shades", "Tints", "Hues", "#ff0000"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q", w)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("lines = %d, want 3", lines)
	}
}

func TestColorGradient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "g.png")
	if _, _, err := execute(t, "", "color", "gradient", "red", "blue", "--out", path, "--width=40", "--height=8"); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 8 {
		t.Errorf("bounds = %v, want 40x8", b)
	}

	if _, _, err := execute(t, "", "color", "gradient", "red"); err == nil {
		t.Error("missing --out accepted")
	}
}

func TestPaletteCommands(t *testing.T) {
	cfg := configFlag(t)

	out, _, err := execute(t, "", "palette", "list", cfg)
	if err != nil || !strings.Contains(out, "no saved colors") {
		t.Fatalf("empty list = %q, %v", out, err)
	}

	out, _, err = execute(t, "", "palette", "add", "red", "#0000ff", "red", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "added 2 color(s)") {
		t.Errorf("add printed %q", out)
	}

	out, _, err = execute(t, "", "palette", "list", "--name", palette.DefaultName, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "#ff0000") || !strings.Contains(out, "#0000ff") {
		t.Errorf("list printed %q", out)
	}

	exported := filepath.Join(t.TempDir(), "saved.hex")
	if _, _, err := execute(t, "", "palette", "export", exported, cfg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(string(data)); len(got) != 2 || got[0] != "#ff0000" {
		t.Errorf("exported %q", data)
	}

	out, _, err = execute(t, "", "palette", "remove", "red", cfg)
	if err != nil || !strings.Contains(out, "removed 1 color(s)") {
		t.Errorf("remove = %q, %v", out, err)
	}

	if _, _, err := execute(t, "", "palette", "remove", "red", "--name=other", cfg); !errors.Is(err, palette.ErrNotFound) {
		t.Errorf("remove from missing palette error = %v", err)
	}
	if _, _, err := execute(t, "", "palette", "delete", cfg); err != nil {
		t.Fatal(err)
	}
	if out, _, _ := execute(t, "", "palette", "list", cfg); !strings.Contains(out, "no saved colors") {
		t.Errorf("after delete list = %q", out)
	}
}

func TestSettingsCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := "--config=" + filepath.Join(dir, "settings.yaml")

	out, _, err := execute(t, "", "settings", "path", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, filepath.Join(dir, "settings.yaml")) || !strings.Contains(out, filepath.Join(dir, "palettes.yaml")) {
		t.Errorf("path printed %q", out)
	}

	out, _, err = execute(t, "", "settings", "show", cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"pixels_per_point: 1", "color_display_format: hex", "jwt_algorithm: HS256"} {
		if !strings.Contains(out, w) {
			t.Errorf("show output missing %q:\n%s", w, out)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	mockSecrets(t)
	cfg := configFlag(t)

	token, _, err := execute(t, `{"sub":"42"}`, "jwt", "encode", "--secret=s3cret", cfg)
	if err != nil {
		t.Fatal(err)
	}
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token = %q", token)
	}

	out, _, err := execute(t, token, "jwt", "decode", "--secret=s3cret", cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{`"alg": "HS256"`, `"sub": "42"`, "Verified: ✔"} {
		if !strings.Contains(out, w) {
			t.Errorf("decode output missing %q:\n%s", w, out)
		}
	}

	out, _, err = execute(t, "", "jwt", "decode", token, cfg)
	if err != nil || !strings.Contains(out, "no key") {
		t.Errorf("decode without key = %q, %v", out, err)
	}

	if out, _, err := execute(t, "", "jwt", "verify", token, "--secret=s3cret", cfg); err != nil || !strings.Contains(out, "verified") {
		t.Errorf("verify = %q, %v", out, err)
	}
	if _, _, err := execute(t, "", "jwt", "verify", token, "--secret=wrong", cfg); !errors.Is(err, jwt.ErrVerification) {
		t.Errorf("verify with wrong secret error = %v", err)
	}
	if _, _, err := execute(t, "", "jwt", "encode", `{"a":1}`, cfg); !errors.Is(err, jwt.ErrMissingSecret) {
		t.Errorf("encode without secret error = %v", err)
	}
	if _, _, err := execute(t, "", "jwt", "encode", `[1]`, "--secret=x", cfg); !errors.Is(err, jwt.ErrInvalidClaims) {
		t.Errorf("encode of non-object error = %v", err)
	}
	if _, _, err := execute(t, "", "jwt", "encode", `{}`, "--alg=XX256", "--secret=x", cfg); err == nil {
		t.Error("unknown algorithm accepted")
	}
}

func TestJWTSecretLifecycle(t *testing.T) {
	mockSecrets(t)
	cfg := configFlag(t)

	out, _, err := execute(t, "", "jwt", "secret", "status")
	if err != nil || strings.Count(out, "not set") != 2 {
		t.Fatalf("status = %q, %v", out, err)
	}

	if _, _, err := execute(t, "from-stdin\n", "jwt", "secret", "set"); err != nil {
		t.Fatal(err)
	}
	out, _, _ = execute(t, "", "jwt", "secret", "status")
	if !strings.Contains(out, string(secrets.SourceKeychain)) {
		t.Errorf("status after set = %q", out)
	}

	token, _, err := execute(t, "", "jwt", "encode", `{"sub":"k"}`, "--jti", cfg)
	if err != nil {
		t.Fatalf("encode with stored secret: %v", err)
	}
	out, _, err = execute(t, strings.TrimSpace(token), "jwt", "decode", cfg)
	if err != nil || !strings.Contains(out, `"jti"`) || !strings.Contains(out, "Verified: ✔") {
		t.Errorf("decode = %q, %v", out, err)
	}

	if _, _, err := execute(t, "", "jwt", "secret", "delete"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "", "jwt", "secret", "set", "--item=pin"); err == nil {
		t.Error("unknown item accepted")
	}
	if _, _, err := execute(t, "", "jwt", "secret", "set"); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestSecretSetPrompts(t *testing.T) {
	mockSecrets(t)
	prevTerminal, prevRead := isTerminal, readPassword
	defer func() { isTerminal, readPassword = prevTerminal, prevRead }()

	prompts := 0
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) {
		prompts++
		return []byte("typed"), nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(r)
	cmd.SetArgs([]string{"jwt", "secret", "set"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if prompts != 1 || !strings.Contains(errOut.String(), "Enter jwt-secret") {
		t.Errorf("prompts = %d, stderr = %q", prompts, errOut.String())
	}
	if got, _, _ := secrets.NewStore(false).Get(secrets.HMACSecret); got != "typed" {
		t.Errorf("stored secret = %q", got)
	}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		in      string
		want    secrets.Item
		wantErr bool
	}{
		{"hmac", secrets.HMACSecret, false},
		{"private-key", secrets.PrivateKey, false},
		{"RSA", secrets.PrivateKey, false},
		{"jwt-secret", secrets.HMACSecret, false},
		{"token", "", true},
	}
	for _, tt := range tests {
		got, err := parseItem(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseItem(%q) = %q, %v", tt.in, got, err)
		}
	}
}
