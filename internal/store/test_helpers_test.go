package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/clientbook/internal/client"
)

// createTestStore opens a store on a fresh database file with the clients
// table created.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createTestStoreWithDriver(t, DriverCGO)
}

func createTestStoreWithDriver(t *testing.T, driver string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(Config{Driver: driver, Name: path})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	return s
}

// mustInsert inserts c and returns it with its new id.
func mustInsert(t *testing.T, s *Store, c *client.Client) client.Client {
	t.Helper()
	id, err := s.Insert(context.Background(), *c)
	if err != nil {
		t.Fatalf("Insert(%v) failed: %v", c, err)
	}
	out := c.Clone()
	out.ID = id
	return out
}

// forEachDriver runs fn once per supported driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Helper()
	for _, driver := range Drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, createTestStoreWithDriver(t, driver))
		})
	}
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
