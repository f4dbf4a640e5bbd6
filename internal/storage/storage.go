// Package storage persists downloaded photos to the output directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes photo files into a single output directory.
type Store struct {
	dir string
}

// NewStore creates the output directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path a photo with the given name is saved to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".jpg")
}

// Save writes photo bytes to <dir>/<name>.jpg. The data is written to a
// temporary file first and renamed into place so a failed write never
// leaves a truncated photo behind.
func (s *Store) Save(name string, data []byte) error {
	final := s.Path(name)
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write photo data: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize photo file: %w", err)
	}
	return nil
}
