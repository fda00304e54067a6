// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/appshelf/appshelf/internal/software"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// FileName is the default catalog file name inside the data directory.
const FileName = "software.db"

// connParams are applied to every connection. Journal mode stays at the
// default so the database is always a single file that Backup can copy.
const connParams = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

//go:embed migrations/*.sql
var embedMigrations embed.FS

type (
	// Store is the catalog database handle.
	Store struct {
		// mu guards db. Operations hold the read lock for their whole
		// duration; Close, Backup, and Restore take the write lock.
		mu     sync.RWMutex
		db     *sqlx.DB
		path   string
		logger *log.Logger
		clock  software.Clock
	}

	// Option configures a Store.
	Option func(*Store)
)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for timestamps the store assigns itself
// (category rows and MoveItemToCategory).
func WithClock(c software.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// Open opens the catalog at path, creating the file and its parent
// directory if needed, and applies pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: log.Default(),
		clock:  software.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

// connect opens a connection to s.path and migrates it.
func (s *Store) connect(ctx context.Context) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, DriverName, s.path+connParams)
	if err != nil {
		s.logger.Error("failed to open catalog", "path", s.path, "error", err)
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		s.logger.Error("failed to migrate catalog", "path", s.path, "error", err)
		return nil, err
	}

	s.logger.Debug("catalog opened", "path", s.path)
	return db, nil
}

// migrate applies the embedded goose migrations.
func migrate(ctx context.Context, db *sqlx.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("goose migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the database. Closing a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

// IsOpen reports whether the store has a live connection.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Size returns the database file size in bytes, or 0 if it does not exist.
func (s *Store) Size() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// withDB runs fn with the open connection while holding the read lock.
func (s *Store) withDB(fn func(db *sqlx.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrNotOpen
	}
	return fn(s.db)
}

// inTx runs fn in a transaction, committing on success and rolling back
// on error.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isConstraint reports whether err is a SQLite uniqueness or primary key violation.
func isConstraint(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}
