package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/roach88/clientbook/internal/filter"
)

//go:embed schema.sql
var schemaSQL string

// tableName is the backing table. The search predicate is compiled for it once.
const tableName = "clients"

var searchPredicate = filter.Compile(tableName)

// Store persists client records. Create with Open; release with Close.
//
// Store is not safe for concurrent use.
type Store struct {
	db     *sql.DB
	driver string
	closed bool

	// stmts caches prepared statements by label for the store's lifetime.
	stmts map[string]*sql.Stmt
}

// Open connects to the database described by cfg.
//
// The connection is configured with:
//   - a single open connection (one logical connection per store)
//   - WAL journal mode for file databases
//   - 5-second busy timeout for lock contention
//
// Open does not create the clients table; call CreateSchema on a fresh
// database.
func Open(cfg Config) (*Store, error) {
	drv, err := cfg.driver()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("open: database name is required")
	}

	db, err := sql.Open(drv, cfg.dsn(drv))
	if err != nil {
		return nil, wrap("open", err)
	}

	// One connection: the store is a single-connection client, and an
	// in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &Error{Kind: KindConnection, Op: "open", Err: err}
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, &Error{Kind: KindConnection, Op: "open", Err: err}
	}

	return &Store{
		db:     db,
		driver: drv,
		stmts:  make(map[string]*sql.Stmt),
	}, nil
}

// Close releases the connection. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.db == nil || s.closed {
		return nil
	}
	s.closed = true
	s.dropStatements()
	if err := s.db.Close(); err != nil {
		return wrap("close", err)
	}
	return nil
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// CreateSchema drops the clients table if it exists and creates it empty.
//
// This destroys all stored clients. It is meant for bootstrapping a fresh
// database; callers own the risk of running it against live data.
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.checkOpen("create schema"); err != nil {
		return err
	}
	// Cached statements refer to the table being dropped.
	s.dropStatements()

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return wrap("create schema", err)
	}
	return nil
}

// checkOpen returns ErrClosed, wrapped with op, after Close.
func (s *Store) checkOpen(op string) error {
	if s.closed || s.db == nil {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return nil
}

// prepared returns the statement cached under label, preparing query on
// first use.
func (s *Store) prepared(ctx context.Context, label, query string) (*sql.Stmt, error) {
	if stmt, ok := s.stmts[label]; ok {
		return stmt, nil
	}
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", label, err)
	}
	s.stmts[label] = stmt
	return stmt, nil
}

func (s *Store) dropStatements() {
	for label, stmt := range s.stmts {
		stmt.Close()
		delete(s.stmts, label)
	}
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
