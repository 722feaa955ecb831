package store

import (
	"context"
	"database/sql"
	"io/fs"
	"time"

	"github.com/pkg/errors"

	// registers the pure Go "sqlite" driver
	_ "modernc.org/sqlite"
)

// documentName is the row key of the portfolio document.
const documentName = "portfolio"

// SQLiteBackend stores the document as one row of an embedded SQLite database.
// Each write is a single transaction.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn and creates the documents table.
func OpenSQLite(dsn string) (backend *SQLiteBackend, err error) {
	if dsn == "" {
		err = errors.New("sqlite dsn is required")
		return backend, err
	}

	var db *sql.DB
	db, err = sql.Open("sqlite", dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to open sqlite %s", dsn)
		return backend, err
	}
	db.SetMaxOpenConns(1)

	backend = &SQLiteBackend{db: db}
	err = backend.migrate()
	if err != nil {
		_ = db.Close()
		backend = nil
		err = errors.Wrap(err, "failed to migrate sqlite store")
		return backend, err
	}

	return backend, err
}

func (b *SQLiteBackend) migrate() (err error) {
	_, err = b.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Read returns the stored document.
func (b *SQLiteBackend) Read(ctx context.Context) (raw []byte, err error) {
	row := b.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, documentName)
	err = row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.Wrap(fs.ErrNotExist, "portfolio document not stored in sqlite")
		return raw, err
	}
	if err != nil {
		err = errors.Wrap(err, "failed to read portfolio document")
		return raw, err
	}
	return raw, err
}

// Write upserts the document inside a transaction.
func (b *SQLiteBackend) Write(ctx context.Context, raw []byte) (err error) {
	var tx *sql.Tx
	tx, err = b.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to begin transaction")
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO documents(name, body, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		documentName, raw, time.Now().UTC())
	if err != nil {
		_ = tx.Rollback()
		err = errors.Wrap(err, "failed to write portfolio document")
		return err
	}

	err = tx.Commit()
	if err != nil {
		err = errors.Wrap(err, "failed to commit portfolio document")
		return err
	}

	return err
}

// Close closes the database.
func (b *SQLiteBackend) Close() (err error) {
	err = b.db.Close()
	return err
}
