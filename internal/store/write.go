package store

import (
	"context"

	"github.com/roach88/clientbook/internal/change"
	"github.com/roach88/clientbook/internal/client"
)

// Insert adds c as a new row and returns the generated id. c.ID is ignored.
// A nil phone list is stored as an empty list.
//
// Constraint violations (over-long fields or phones) return a persistence
// error. Insert does not retry.
func (s *Store) Insert(ctx context.Context, c client.Client) (int64, error) {
	if err := s.checkOpen("insert"); err != nil {
		return 0, err
	}

	phones, err := marshalPhones(c.Phones)
	if err != nil {
		return 0, wrap("insert", err)
	}

	stmt, err := s.prepared(ctx, "insert", `
		INSERT INTO clients (first_name, last_name, email, phones)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, wrap("insert", err)
	}

	result, err := stmt.ExecContext(ctx, c.FirstName, c.LastName, c.Email, phones)
	if err != nil {
		return 0, wrap("insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, wrap("insert", err)
	}
	return id, nil
}

// Update applies changes to the client with the given id.
//
// The current row is read, merged with changes via change.Merge and written
// back whole: every column is overwritten, not only the changed ones.
//
// A missing id is not an error: nothing is written and applied is false.
// The read and the write are separate statements, so concurrent updates of
// the same id can overwrite each other.
func (s *Store) Update(ctx context.Context, id int64, changes change.Set) (applied bool, err error) {
	if err := s.checkOpen("update"); err != nil {
		return false, err
	}

	current, ok, err := s.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return s.rewrite(ctx, change.Merge(current, changes))
}

// rewrite overwrites every column of the row c.ID with c.
func (s *Store) rewrite(ctx context.Context, c client.Client) (bool, error) {
	phones, err := marshalPhones(c.Phones)
	if err != nil {
		return false, wrap("update", err)
	}

	stmt, err := s.prepared(ctx, "update", `
		UPDATE clients
		SET first_name = ?, last_name = ?, email = ?, phones = ?
		WHERE id = ?
	`)
	if err != nil {
		return false, wrap("update", err)
	}

	result, err := stmt.ExecContext(ctx, c.FirstName, c.LastName, c.Email, phones, c.ID)
	if err != nil {
		return false, wrap("update", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, wrap("update", err)
	}
	// Zero means the row was removed between read and write.
	return n > 0, nil
}

// Remove deletes the client with the given id. Removing a missing id is not
// an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.checkOpen("remove"); err != nil {
		return err
	}

	stmt, err := s.prepared(ctx, "remove", `
		DELETE FROM clients
		WHERE id = ?
	`)
	if err != nil {
		return wrap("remove", err)
	}

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return wrap("remove", err)
	}
	return nil
}
