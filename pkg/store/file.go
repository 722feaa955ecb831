package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileBackend keeps the document in one JSON file. Writes go through a temp file
// and a rename so readers never see a truncated document.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend for path.
func NewFileBackend(path string) (backend *FileBackend, err error) {
	if path == "" {
		err = errors.New("store path is required")
		return backend, err
	}
	backend = &FileBackend{path: path}
	return backend, err
}

// Path returns the document location.
func (b *FileBackend) Path() (path string) {
	path = b.path
	return path
}

// Read returns the stored document.
func (b *FileBackend) Read(_ context.Context) (raw []byte, err error) {
	raw, err = os.ReadFile(b.path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read portfolio file: %s", b.path)
		return raw, err
	}
	return raw, err
}

// Write replaces the stored document atomically.
func (b *FileBackend) Write(_ context.Context, raw []byte) (err error) {
	dir := filepath.Dir(b.path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create data directory: %s", dir)
		return err
	}

	var tmp *os.File
	tmp, err = os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		err = errors.Wrap(err, "failed to create temp file")
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	_, err = tmp.Write(raw)
	if err != nil {
		_ = tmp.Close()
		err = errors.Wrapf(err, "failed to write temp file: %s", tmpPath)
		return err
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()
		err = errors.Wrapf(err, "failed to sync temp file: %s", tmpPath)
		return err
	}

	err = tmp.Close()
	if err != nil {
		err = errors.Wrapf(err, "failed to close temp file: %s", tmpPath)
		return err
	}

	err = os.Chmod(tmpPath, 0640)
	if err != nil {
		err = errors.Wrapf(err, "failed to set permissions on %s", tmpPath)
		return err
	}

	err = os.Rename(tmpPath, b.path)
	if err != nil {
		err = errors.Wrapf(err, "failed to replace portfolio file: %s", b.path)
		return err
	}

	return err
}

// Close is a no-op for files.
func (b *FileBackend) Close() (err error) {
	return err
}
