package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/clientbook/internal/client"
	"github.com/roach88/clientbook/internal/filter"
)

var selectColumns = strings.Join(filter.Columns, ", ")

// FindByID returns the client with the given id. ok is false, with a nil
// error, when no such client exists.
func (s *Store) FindByID(ctx context.Context, id int64) (c client.Client, ok bool, err error) {
	if err := s.checkOpen("find by id"); err != nil {
		return client.Client{}, false, err
	}

	stmt, err := s.prepared(ctx, "find_by_id", `
		SELECT `+selectColumns+`
		FROM clients
		WHERE id = ?
	`)
	if err != nil {
		return client.Client{}, false, wrap("find by id", err)
	}

	c, err = scanClient(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return client.Client{}, false, nil
	}
	if err != nil {
		return client.Client{}, false, wrap("find by id", err)
	}
	return c, true, nil
}

// FindByCriteria returns every client matching criteria, ordered by id.
// Criteria with nothing set return every row (a full table scan).
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) FindByCriteria(ctx context.Context, criteria filter.Criteria) ([]client.Client, error) {
	if err := s.checkOpen("find by criteria"); err != nil {
		return nil, err
	}

	stmt, err := s.prepared(ctx, "find_by_criteria", searchPredicate.Select())
	if err != nil {
		return nil, wrap("find by criteria", err)
	}

	rows, err := stmt.QueryContext(ctx, searchPredicate.Args(criteria)...)
	if err != nil {
		return nil, wrap("find by criteria", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap("find by criteria", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("find by criteria", fmt.Errorf("iterate clients: %w", err))
	}

	return clients, nil
}

// Count returns the number of stored clients.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.checkOpen("count"); err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&n); err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanClient reads one row in filter.Columns order. NULL text columns read
// as empty strings.
func scanClient(row rowScanner) (client.Client, error) {
	var (
		c                          client.Client
		firstName, lastName, email sql.NullString
		phones                     string
	)
	if err := row.Scan(&c.ID, &firstName, &lastName, &email, &phones); err != nil {
		return client.Client{}, err
	}

	decoded, err := unmarshalPhones(phones)
	if err != nil {
		return client.Client{}, fmt.Errorf("client %d: %w", c.ID, err)
	}

	c.FirstName = firstName.String
	c.LastName = lastName.String
	c.Email = email.String
	c.Phones = decoded
	return c, nil
}

// SearchQuery returns the SQL that FindByCriteria runs. The statement is
// the same for every criteria set; only the bound parameters differ.
func SearchQuery() string {
	return searchPredicate.Select()
}
