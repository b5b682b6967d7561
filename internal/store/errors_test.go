package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	mattn "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "constraint", err: mattn.Error{Code: mattn.ErrConstraint}, want: KindPersistence},
		{name: "generic sql error", err: mattn.Error{Code: mattn.ErrError}, want: KindPersistence},
		{name: "cannot open", err: mattn.Error{Code: mattn.ErrCantOpen}, want: KindConnection},
		{name: "io error", err: mattn.Error{Code: mattn.ErrIoErr}, want: KindConnection},
		{name: "not a database", err: mattn.Error{Code: mattn.ErrNotADB}, want: KindConnection},
		{name: "wrapped constraint", err: fmt.Errorf("prepare insert: %w", mattn.Error{Code: mattn.ErrConstraint}), want: KindPersistence},
		{name: "bad conn", err: driver.ErrBadConn, want: KindConnection},
		{name: "unknown error", err: errors.New("boom"), want: KindPersistence},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, wrap("op", nil))

	cause := mattn.Error{Code: mattn.ErrConstraint}
	err := wrap("insert", cause)
	assert.True(t, IsPersistenceError(err))
	assert.False(t, IsConnectionError(err))
	assert.True(t, errors.Is(err, ErrPersistence))

	var se *Error
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "insert", se.Op)

	var me mattn.Error
	assert.True(t, errors.As(err, &me), "driver error must stay reachable")
}

func TestWrap_ContextErrorsUnclassified(t *testing.T) {
	err := wrap("find by id", context.Canceled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsConnectionError(err))
	assert.False(t, IsPersistenceError(err))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindConnection, Op: "open", Err: errors.New("unable to open database file")}
	assert.Equal(t, "open: connection error: unable to open database file", err.Error())
	assert.Equal(t, "persistence error", ErrPersistence.Error())
}

func TestError_SentinelsDoNotMatchEachOther(t *testing.T) {
	assert.False(t, errors.Is(ErrConnection, ErrPersistence))
	assert.True(t, errors.Is(&Error{Kind: KindConnection, Op: "x", Err: errors.New("y")}, ErrConnection))
}

func TestFindByID_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.FindByID(ctx, 1)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
