package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the user config directory.
const AppName = "devpick"

const (
	settingsFileName = "settings.yaml"
	palettesFileName = "palettes.yaml"
)

// ErrInvalidSettings is wrapped by validation failures.
var ErrInvalidSettings = errors.New("invalid settings")

// Dir returns the config directory for app, e.g. ~/.config/devpick.
func Dir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, app), nil
}

// DefaultPath returns the settings file path.
func DefaultPath() (string, error) {
	dir, err := Dir(AppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// PalettePath returns where saved colors are kept for settings loaded from
// settingsPath: PaletteFile with environment references expanded when
// set, otherwise palettes.yaml beside it. PaletteFile itself keeps the
// references so Save writes them back unchanged.
func (s *Settings) PalettePath(settingsPath string) string {
	if s.PaletteFile != "" {
		return ExpandEnv(s.PaletteFile)
	}
	return filepath.Join(filepath.Dir(settingsPath), palettesFileName)
}

// Load reads settings from path. A missing file yields DefaultSettings.
// Fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if err := s.Validate().Error(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save validates s and writes it to path atomically, creating the parent
// directory if needed.
func (s *Settings) Save(path string) error {
	if err := s.Validate().Error(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return WriteFileAtomic(path, data, 0o600)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := true
	defer func() {
		if cleanup {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to destination: %w", err)
	}

	cleanup = false
	return nil
}
