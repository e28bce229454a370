// Package filestore persists a single JSON document at a fixed filesystem
// path.
//
// It backs the device snapshot cache: one scanner, one file. The store
// creates the parent directory on first save and keeps the file owner-only,
// matching how the database package treats its SQLite file.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	// dirPermissions is the permission mode for the snapshot directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the snapshot file.
	filePermissions = 0600
)

// Store reads and writes one document at a fixed path.
type Store struct {
	path string
}

// New creates a store bound to the given path. The path is fixed for the
// lifetime of the store.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the fixed path this store operates on.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a document is currently present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Read returns the stored document.
func (s *Store) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes the document, creating the parent directory if needed. The
// document is written to a temporary file in the same directory and renamed
// into place, so a crash mid-write never leaves a torn snapshot behind.
func (s *Store) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the document. Deleting an absent document is not an error.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}
