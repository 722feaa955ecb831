package store

import (
	"context"

	"github.com/pkg/errors"
)

// Supported backend drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Backend persists the raw portfolio document.
// Read returns an error matching fs.ErrNotExist when nothing has been stored yet.
type Backend interface {
	Read(ctx context.Context) (raw []byte, err error)
	Write(ctx context.Context, raw []byte) (err error)
	Close() (err error)
}

// OpenBackend opens the backend for driver. Location is a file path for the file
// driver and a DSN for sqlite.
func OpenBackend(driver, location string) (backend Backend, err error) {
	switch driver {
	case DriverFile, "":
		var fb *FileBackend
		fb, err = NewFileBackend(location)
		if err != nil {
			return backend, err
		}
		backend = fb
	case DriverSQLite:
		var sb *SQLiteBackend
		sb, err = OpenSQLite(location)
		if err != nil {
			return backend, err
		}
		backend = sb
	default:
		err = errors.Errorf("unsupported store driver: %s", driver)
	}
	return backend, err
}
