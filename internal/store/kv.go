// Package store persists the calculator's settings and last-used session as
// two independent JSON records and loads them back with per-field fallback to
// defaults.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// KV is a flat key-value medium holding whole records.
type KV interface {
	// Get returns the record under key; ok is false when nothing is stored.
	Get(key string) (data []byte, ok bool, err error)
	// Put overwrites the record under key.
	Put(key string, data []byte) error
	// Delete removes the record under key. Missing keys are not an error.
	Delete(key string) error
}

// FileKV stores each record as <dir>/<key>.json on an afero filesystem.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV returns a FileKV rooted at dir.
func NewFileKV(fsys afero.Fs, dir string) *FileKV {
	return &FileKV{fs: fsys, dir: dir}
}

// NewOSFileKV returns a FileKV on the local disk.
func NewOSFileKV(dir string) *FileKV {
	return NewFileKV(afero.NewOsFs(), dir)
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get implements KV.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return data, true, nil
}

// Put implements KV.
func (f *FileKV) Put(key string, data []byte) error {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", f.dir, err)
	}
	if err := afero.WriteFile(f.fs, f.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (f *FileKV) Delete(key string) error {
	if err := f.fs.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove record %s: %w", key, err)
	}
	return nil
}
