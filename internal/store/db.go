// Package store provides persistence for tracked packages and their download
// statistics history. The default backend is a single-file SQLite database;
// a Dolt repository can be selected instead for versioned history with
// branch/diff capabilities. All query text sticks to the syntax both engines
// accept, with the few dialect-specific statements isolated in schema.go and
// stats.go.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/dolthub/driver"
	_ "modernc.org/sqlite"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendDolt   = "dolt"
)

// ErrNotTracked is returned when an operation references a package that is
// not in the tracking list.
var ErrNotTracked = errors.New("package not tracked")

// ErrAlreadyTracked is returned when adding a package that is already in the
// tracking list.
var ErrAlreadyTracked = errors.New("package already tracked")

// Store manages the pkgdb database.
type Store struct {
	db      *sql.DB
	backend string
	path    string
}

// Open opens or creates the database. For the sqlite backend path is the
// database file; for dolt it is the repository directory. Parent directories
// are created as needed and the schema is initialized if the database is new.
func Open(backend, path string) (*Store, error) {
	switch backend {
	case BackendSQLite:
		return openSQLite(path)
	case BackendDolt:
		return openDolt(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func openSQLite(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, backend: BackendSQLite, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func openDolt(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// Connect without a database first so a fresh repo can be initialized.
	initDSN := fmt.Sprintf("file://%s?commitname=pkgdb&commitemail=pkgdb@local", path)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}
	if _, err := initDB.Exec("CREATE DATABASE IF NOT EXISTS pkgdb"); err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=pkgdb&commitemail=pkgdb@local&database=pkgdb", path)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}

	store := &Store{db: db, backend: BackendDolt, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Backend returns the backend name the store was opened with.
func (s *Store) Backend() string {
	return s.backend
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}
