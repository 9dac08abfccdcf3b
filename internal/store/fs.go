package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileProvider persists the document as a single JSON file. Writes are
// atomic: tmp file → fsync → rename, so a crash mid-write leaves the
// previous document intact.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider writing to path. The parent
// directory is created if missing.
func NewFileProvider(path string) (*FileProvider, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	return &FileProvider{path: abs}, nil
}

// Path returns the absolute path of the document file.
func (p *FileProvider) Path() string { return p.path }

// Load reads the document file.
func (p *FileProvider) Load() ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("store: read %s: %w", p.path, err)
	}
	return data, nil
}

// Save atomically replaces the document file.
func (p *FileProvider) Save(blob []byte) error {
	dir := filepath.Dir(p.path)

	tmp, err := os.CreateTemp(dir, ".tacticalhub-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(blob); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the file provider.
func (p *FileProvider) Close() error { return nil }
