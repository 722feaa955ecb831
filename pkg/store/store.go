package store

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

// Store owns the portfolio document. Every operation re-reads the backend, and
// read-modify-write cycles are serialized by a single writer lock.
type Store struct {
	backend Backend
	mu      sync.Mutex
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for article timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for write tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// New wraps backend in a Store.
func New(backend Backend, opts ...Option) (s *Store) {
	s = &Store{
		backend: backend,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "store")
	return s
}

// Close releases the backend.
func (s *Store) Close() (err error) {
	err = s.backend.Close()
	return err
}

// Load reads and parses the whole document.
func (s *Store) Load(ctx context.Context) (data content.Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err = s.read(ctx)
	return data, err
}

// Replace overwrites the whole document.
func (s *Store) Replace(ctx context.Context, data content.Data) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.Normalize()
	err = s.write(ctx, data)
	return err
}

// Init writes seed when nothing is stored yet, or always when force is set.
func (s *Store) Init(ctx context.Context, seed content.Data, force bool) (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force {
		_, err = s.backend.Read(ctx)
		if err == nil {
			return created, err
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return created, err
		}
	}

	seed.Normalize()
	err = s.write(ctx, seed)
	if err != nil {
		return created, err
	}
	created = true

	return created, err
}

// mutate runs fn against a fresh copy of the document and persists it when fn succeeds.
func (s *Store) mutate(ctx context.Context, fn func(data *content.Data, now time.Time) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data content.Data
	data, err = s.read(ctx)
	if err != nil {
		return err
	}

	err = fn(&data, s.now())
	if err != nil {
		return err
	}

	err = s.write(ctx, data)
	return err
}

func (s *Store) read(ctx context.Context) (data content.Data, err error) {
	var raw []byte
	raw, err = s.backend.Read(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to load portfolio")
		return data, err
	}

	data, err = content.Decode(raw)
	if err != nil {
		err = errors.Wrap(err, "failed to load portfolio")
		return data, err
	}

	return data, err
}

func (s *Store) write(ctx context.Context, data content.Data) (err error) {
	var raw []byte
	raw, err = content.Encode(data)
	if err != nil {
		return err
	}

	err = s.backend.Write(ctx, raw)
	if err != nil {
		err = errors.Wrap(err, "failed to save portfolio")
		return err
	}

	s.log.DebugContext(ctx, "portfolio saved", slog.Int("bytes", len(raw)))

	return err
}
