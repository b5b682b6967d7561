// Package store persists client records in a single SQLite table.
//
// The store mediates every read and write of the clients table:
//   - CreateSchema: drop and recreate the table (destructive bootstrap)
//   - Insert: add a row, returning the generated id
//   - FindByID: fetch one row; "not found" is a boolean, never an error
//   - FindByCriteria: search with the compiled filter predicate
//   - Update: read, merge a change.Set, rewrite every column
//   - Remove: idempotent delete
//
// # Table
//
// Ids come from INTEGER PRIMARY KEY AUTOINCREMENT, so an id is never handed
// out twice, even after deletion. Phones are stored as a JSON array of strings
// in a NOT NULL column defaulting to '[]'; length limits (40/40/80 characters
// for names and email, 30 per phone) are enforced by CHECK constraints and a
// trigger, and violations surface as persistence errors.
//
// # Hazards
//
// CreateSchema drops any existing clients table. Run it once per fresh
// database, never on every start.
//
// FindByCriteria with no criteria set returns every row.
//
// Update is read-then-write with no isolation between the two steps. Two
// callers updating the same id concurrently can lose one update. Making it
// atomic needs a single conditional statement (for example a version column
// checked in the UPDATE's WHERE clause); that is not done here.
//
// # Concurrency
//
// A Store holds one connection and no locks. Callers sharing a Store across
// goroutines must serialize access themselves. Nothing runs in the
// background; no timeouts are applied beyond what the caller's context sets.
//
// # Errors
//
// Driver errors are classified into connection and persistence errors (see
// Error). Every operation after Close fails with ErrClosed. The store never
// retries and never logs.
package store
