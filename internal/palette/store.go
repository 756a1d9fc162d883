package palette

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/config"
)

type fileFormat struct {
	Palettes []filePalette `yaml:"palettes"`
}

type filePalette struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Store persists a Library as YAML.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load reads the library. A missing file yields an empty library.
func (s *Store) Load() (*Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read palettes %s: %w", s.path, err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palettes %s: %w", s.path, err)
	}

	lib := &Library{}
	for _, fp := range f.Palettes {
		p, err := lib.Ensure(fp.Name)
		if err != nil {
			return nil, fmt.Errorf("palettes %s: %w", s.path, err)
		}
		for _, hex := range fp.Colors {
			c, err := colors.Parse(hex)
			if err != nil {
				return nil, fmt.Errorf("palette %q: %w", fp.Name, err)
			}
			p.Add(c)
		}
	}
	return lib, nil
}

// Save writes lib atomically.
func (s *Store) Save(lib *Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := fileFormat{Palettes: make([]filePalette, 0, len(lib.Palettes))}
	for _, p := range lib.Palettes {
		f.Palettes = append(f.Palettes, filePalette{Name: p.Name, Colors: p.Hex()})
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode palettes: %w", err)
	}
	return config.WriteFileAtomic(s.path, data, 0o644)
}

// Update loads the library, applies fn and saves the result if fn
// succeeds.
func (s *Store) Update(fn func(*Library) error) (*Library, error) {
	lib, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(lib); err != nil {
		return nil, err
	}
	if err := s.Save(lib); err != nil {
		return nil, err
	}
	return lib, nil
}
