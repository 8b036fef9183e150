package fsio

import (
	"path/filepath"

	"github.com/spf13/afero"
)

const tempPrefix = "facets-"

// Store implements ports.FileStore over an afero filesystem
type Store struct {
	fs afero.Fs
}

// NewStore wraps fs
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOSStore returns a store backed by the real filesystem
func NewOSStore() *Store {
	return NewStore(afero.NewOsFs())
}

// Fs exposes the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

func (s *Store) ReadFileAsString(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) WriteFileAsString(path, content string) error {
	return afero.WriteFile(s.fs, path, []byte(content), 0o644)
}

func (s *Store) CreateTemp(dir, suffix string) (string, error) {
	f, err := afero.TempFile(s.fs, dir, tempPrefix+"*"+suffix)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Abs(name)
}
