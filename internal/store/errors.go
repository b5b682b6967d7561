package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	mattn "github.com/mattn/go-sqlite3"
)

// ErrClosed is returned by every operation on a closed Store.
var ErrClosed = errors.New("store is closed")

// Kind categorizes store errors.
type Kind int

const (
	// KindConnection: the database cannot be reached or the connection is
	// unusable. Fatal to the operation in progress.
	KindConnection Kind = iota + 1

	// KindPersistence: the database rejected the statement, typically a
	// constraint violation. The statement had no effect.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindPersistence:
		return "persistence error"
	default:
		return "unknown error"
	}
}

// Error is a classified failure of a store operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrConnection  = &Error{Kind: KindConnection}
	ErrPersistence = &Error{Kind: KindPersistence}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels ErrConnection and ErrPersistence.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil || t.Op != "" {
		return false
	}
	return t.Kind == e.Kind
}

// IsConnectionError reports whether err is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsPersistenceError reports whether err is a persistence error.
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// wrap classifies err for op. Context cancellation is returned wrapped but
// unclassified, since neither the connection nor the statement is at fault.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

// classify maps a driver error onto a Kind. SQLite codes that mean the
// database file or connection is unusable are connection errors; everything
// else the engine reports is a rejection of the statement.
func classify(err error) Kind {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return KindConnection
	}
	code, ok := resultCode(err)
	if !ok {
		return KindPersistence
	}
	switch code {
	case mattn.ErrCantOpen, mattn.ErrIoErr, mattn.ErrNotADB, mattn.ErrCorrupt,
		mattn.ErrPerm, mattn.ErrAuth, mattn.ErrNoLFS, mattn.ErrProtocol:
		return KindConnection
	default:
		return KindPersistence
	}
}
