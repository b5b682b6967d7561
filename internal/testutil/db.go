package testutil

import (
	"path/filepath"
	"testing"
)

// TempDatabase returns a path for a database file inside a directory that is
// removed when the test ends. The file itself is not created.
func TempDatabase(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "clientbook.db")
}
